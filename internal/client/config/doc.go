// Package config loads runtime configuration for the BrainSwap CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. BRAINSWAP_* environment variables (BRAINSWAP_SERVER, BRAINSWAP_TIMEOUT, ...).
//  4. Command-line flags registered by BindFlags.
//
// # JSON schema
//
// Durations are Go duration strings:
//
//	{
//	  "server": "http://localhost:8080",
//	  "timeout": "5s",
//	  "session_check_interval": "2s",
//	  "db": "brainswap.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
