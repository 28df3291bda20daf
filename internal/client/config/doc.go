// Package config loads runtime configuration for the Mindeducation client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the account API
//	-t int      request timeout (seconds)
//	-d string   data directory
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:3333",
//	  "request_timeout": "10s",
//	  "data_dir": "data",
//	  "store_namespace": "Mindeducation",
//	  "log_level": "info",
//	  "log_file": "client.log"
//	}
//
// The package does not read environment variables.
package config
