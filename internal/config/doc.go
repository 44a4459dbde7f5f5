// Package config provides centralized configuration management for the
// report sender. It handles loading configuration from multiple sources,
// validation, and a type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (JSON or YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern REPORTER_* for namespacing:
//
//	REPORTER_SMTP_HOST=smtp.example.com
//	REPORTER_SMTP_USERNAME=reports@example.com
//	REPORTER_SMTP_RECIPIENTS=a@example.com,b@example.com
//	REPORTER_SCHEDULE_AT=09:00
//	REPORTER_PATHS_DATA_FILE=data/sample_sales.csv
//	REPORTER_LOGGING_LEVEL=info
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// All configuration is validated at load time: required SMTP fields are
// present, the schedule time parses as HH:MM, ports are within range, and
// recipient addresses are well-formed.
package config
