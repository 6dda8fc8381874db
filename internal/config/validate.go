package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateDocuments(); err != nil {
		return err
	}
	if err := c.validateRegistrar(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver %q is not supported (use %q or %q)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Database.DSN == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/semdaudit/config.toml"
		}
		return fmt.Errorf("database.dsn is required. Set SEMDAUDIT_DATABASE_DSN or edit %s (create with 'semdaudit config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateDocuments() error {
	for _, kind := range c.Documents.Kinds {
		if kind <= 0 {
			return fmt.Errorf("documents.kinds: kind %d must be positive", kind)
		}
	}
	if strings.TrimSpace(c.Documents.RegisterMessageType) == "" {
		return errors.New("documents.register_message_type must be set")
	}
	return nil
}

func (c *Config) validateRegistrar() error {
	if len(c.Registrar.Command) == 0 {
		return errors.New("registrar.command must include an executable")
	}
	if c.Registrar.SuccessExitCode < 0 || c.Registrar.SuccessExitCode > 255 {
		return errors.New("registrar.success_exit_code must be between 0 and 255")
	}
	if _, err := htmlindex.Get(c.Registrar.OutputEncoding); err != nil {
		return fmt.Errorf("registrar.output_encoding %q is not a known encoding", c.Registrar.OutputEncoding)
	}
	return nil
}
