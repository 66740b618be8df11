// Package config aggregates the partial configurations of the application
// (server, log, database) and loads them from environment variables and an
// optional .env file via Viper.
//
// Defaults are declared as `default:"..."` struct tags next to the
// `mapstructure` keys and bound by reflection, so a section's defaults
// live with the section's struct.
package config
