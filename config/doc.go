// Package config loads tripcart configuration from a YAML file, a .env
// file and TRIPCART_* environment variables using Viper.
//
// # Usage
//
//	cfg, err := config.LoadClientConfig()
//
// Environment variables override file values with the TRIPCART_ prefix and
// underscore-separated paths (e.g., TRIPCART_API_BASE_URL).
package config
