package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers the CLI flags on fs and binds them to v.
//
//	-a, --server                  base URL of the BrainSwap API
//	    --timeout                 per-request timeout (e.g. 5s)
//	    --session-check-interval  token re-check interval (e.g. 2s)
//	    --db                      path of the local SQLite session store
//	    --log-level               debug|info|warn|error
//	    --log-format              text|json
//	-c, --config                  path of a JSON config file
//
// Flag defaults mirror LoadDefaults; an unset flag never overrides the file
// or the environment.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	var d Config
	d.LoadDefaults()

	fs.StringP("server", "a", d.ServerURL, "base URL of the BrainSwap API")
	fs.Duration("timeout", d.RequestTimeout, "per-request timeout")
	fs.Duration("session-check-interval", d.SessionCheckInterval, "how often the stored token is re-checked")
	fs.String("db", d.DatabasePath, "path of the local session store")
	fs.String("log-level", d.LogLevel, "log level (debug|info|warn|error)")
	fs.String("log-format", d.LogFormat, "log format (text|json)")
	fs.StringP("config", "c", "", "path to a JSON config file")

	_ = v.BindPFlag(KeyServer, fs.Lookup("server"))
	_ = v.BindPFlag(KeyTimeout, fs.Lookup("timeout"))
	_ = v.BindPFlag(KeySessionCheckInterval, fs.Lookup("session-check-interval"))
	_ = v.BindPFlag(KeyDatabase, fs.Lookup("db"))
	_ = v.BindPFlag(KeyLogLevel, fs.Lookup("log-level"))
	_ = v.BindPFlag(KeyLogFormat, fs.Lookup("log-format"))
	_ = v.BindPFlag(KeyConfigFile, fs.Lookup("config"))
}
