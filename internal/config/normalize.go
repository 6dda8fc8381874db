package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDatabase()
	c.normalizeDocuments()
	c.normalizeRegistrar()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() {
	if value, ok := os.LookupEnv("SEMDAUDIT_DATABASE_DRIVER"); ok && strings.TrimSpace(value) != "" {
		c.Database.Driver = value
	}
	if value, ok := os.LookupEnv("SEMDAUDIT_DATABASE_DSN"); ok && strings.TrimSpace(value) != "" {
		c.Database.DSN = value
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "":
		c.Database.Driver = defaultDatabaseDriver
	case "postgres", "postgresql", "pg":
		c.Database.Driver = DriverPostgres
	case "sqlite3":
		c.Database.Driver = DriverSQLite
	}
	c.Database.DSN = strings.TrimSpace(c.Database.DSN)
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if c.Database.QueryTimeoutSeconds <= 0 {
		c.Database.QueryTimeoutSeconds = defaultQueryTimeout
	}
}

func (c *Config) normalizeDocuments() {
	if len(c.Documents.Kinds) == 0 {
		c.Documents.Kinds = append([]int(nil), DefaultDocumentKinds...)
	} else {
		kinds := make([]int, 0, len(c.Documents.Kinds))
		seen := make(map[int]struct{}, len(c.Documents.Kinds))
		for _, kind := range c.Documents.Kinds {
			if _, exists := seen[kind]; exists {
				continue
			}
			seen[kind] = struct{}{}
			kinds = append(kinds, kind)
		}
		c.Documents.Kinds = kinds
	}
	// Message type and status are compared byte for byte, so only fill blanks.
	if c.Documents.RegisterMessageType == "" {
		c.Documents.RegisterMessageType = DefaultRegisterMessageType
	}
	if c.Documents.ErrorStatus == "" {
		c.Documents.ErrorStatus = DefaultErrorStatus
	}
}

func (c *Config) normalizeRegistrar() {
	command := make([]string, 0, len(c.Registrar.Command))
	for _, arg := range c.Registrar.Command {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			command = append(command, trimmed)
		}
	}
	if len(command) == 0 {
		command = append(command, DefaultRegistrarCommand...)
	}
	c.Registrar.Command = command
	if c.Registrar.TimeoutSeconds <= 0 {
		c.Registrar.TimeoutSeconds = defaultRegistrarTimeout
	}
	c.Registrar.OutputEncoding = strings.ToLower(strings.TrimSpace(c.Registrar.OutputEncoding))
	if c.Registrar.OutputEncoding == "" {
		c.Registrar.OutputEncoding = defaultOutputEncoding
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
