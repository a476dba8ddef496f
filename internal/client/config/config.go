package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the BrainSwap CLI.
//
// Fields:
//   - ServerURL: base address of the BrainSwap REST API.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - SessionCheckInterval: how often the stored token is re-examined.
//   - DatabasePath: SQLite file holding the persisted session.
//   - LogLevel, LogFormat: slog settings (debug|info|warn|error, text|json).
type Config struct {
	ServerURL            string        `mapstructure:"server"`
	RequestTimeout       time.Duration `mapstructure:"timeout"`
	SessionCheckInterval time.Duration `mapstructure:"session_check_interval"`
	DatabasePath         string        `mapstructure:"db"`
	LogLevel             string        `mapstructure:"log_level"`
	LogFormat            string        `mapstructure:"log_format"`
}

// Keys understood in the JSON file and, upper-cased with the BRAINSWAP_
// prefix, in the environment.
const (
	KeyConfigFile           = "config"
	KeyServer               = "server"
	KeyTimeout              = "timeout"
	KeySessionCheckInterval = "session_check_interval"
	KeyDatabase             = "db"
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"

	EnvPrefix = "BRAINSWAP"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.RequestTimeout = 5 * time.Second
	c.SessionCheckInterval = 2 * time.Second
	c.DatabasePath = "brainswap.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Load resolves the configuration from v. Sources, lowest precedence first:
// defaults, the JSON file named by the config key, BRAINSWAP_* environment
// variables, then flags bound with BindFlags.
func Load(v *viper.Viper) (*Config, error) {
	var defaults Config
	defaults.LoadDefaults()

	v.SetDefault(KeyServer, defaults.ServerURL)
	v.SetDefault(KeyTimeout, defaults.RequestTimeout)
	v.SetDefault(KeySessionCheckInterval, defaults.SessionCheckInterval)
	v.SetDefault(KeyDatabase, defaults.DatabasePath)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyLogFormat, defaults.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server url %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server url %q: missing host", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.SessionCheckInterval <= 0 {
		return errors.New("session check interval must be positive")
	}
	if c.DatabasePath == "" {
		return errors.New("database path is required")
	}
	return nil
}
