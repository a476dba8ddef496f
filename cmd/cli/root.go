package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrijs2005/brainswap/internal/buildinfo"
	"github.com/dmitrijs2005/brainswap/internal/client/cli"
	"github.com/dmitrijs2005/brainswap/internal/client/config"
	"github.com/dmitrijs2005/brainswap/internal/logging"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "brainswap",
		Short:        "Interactive client for the BrainSwap skill exchange",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := cli.NewApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error(ctx, "failed to close session store", "error", err)
				}
			}()
			return app.Run(ctx)
		},
	}
	config.BindFlags(cmd.Flags(), v)

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
