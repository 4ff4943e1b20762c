// Package config loads runtime configuration for the chirp CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config (see parseJson).
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL (default http://localhost:5000/api)
//	-t int      request timeout in seconds (default 10)
//	-d string   local database path (default chirp.db)
//	-l string   log level (default info)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://blog.example.com/api",
//	  "request_timeout": "10s",
//	  "database_path": "/home/me/.chirp.db",
//	  "page_size": 10,
//	  "users_page_size": 12,
//	  "mention_debounce": "300ms",
//	  "mention_limit": 8,
//	  "max_comment_length": 500,
//	  "log_level": "debug"
//	}
//
// Zero or missing JSON values keep the previous value.
package config
