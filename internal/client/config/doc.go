// Package config loads runtime configuration for the recipebook shell.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, comments and trailing commas allowed, selected with
//     -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   identity endpoint base URL
//	-k string   identity provider API key
//	-t int      identity request timeout (seconds)
//	-s string   session storage backend: sqlite, bolt, redis, memory
//	-p string   database file for the sqlite and bolt backends
//	-r string   redis address for the redis backend
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds. Keys missing from the file keep their earlier value:
//
//	{
//	  // local development endpoint
//	  "identity_endpoint_url": "http://127.0.0.1:8099/v1",
//	  "api_key": "dev-key",
//	  "request_timeout": "10s",
//	  "store_backend": "bolt",
//	  "store_path": "session.bolt",
//	}
package config
