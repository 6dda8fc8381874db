// Package config loads, normalizes, and validates semdaudit configuration data.
//
// Values come from a TOML file (explicit path, ~/.config/semdaudit/config.toml
// or ./semdaudit.toml), an optional .env file next to it, and a handful of
// SEMDAUDIT_* environment overrides for secrets such as the database DSN.
package config
