// Package config loads engine settings from defaults, functional options,
// SHOPSEARCH_* environment variables and .env files, and category filter
// definitions from YAML.
package config
