// Package config loads runtime configuration for the reportcycle CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults), aimed at a local devstack.
//  2. Optional JSON file selected with -c or -config.
//  3. REPORTCYCLE_AUTH_BASE_URL, REPORTCYCLE_CORE_BASE_URL,
//     REPORTCYCLE_FILE_BASE_URL and REPORTCYCLE_APP_BASE_URL.
//  4. Command-line flags -auth, -core, -file, -app, -s and -r.
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	{
//	  "auth_base_url": "https://auth.example",
//	  "core_base_url": "https://core.example",
//	  "file_base_url": "https://file.example",
//	  "app_base_url": "https://app.example",
//	  "state_dir": "/home/me/.config/reportcycle",
//	  "durable_store": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "country_iso_code": "GB",
//	  "upload_domain": 1,
//	  "request_timeout": "30s"
//	}
package config
