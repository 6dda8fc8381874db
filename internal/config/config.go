package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Supported database drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Paths contains directories owned by the tool.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Database describes the read-only connection to the document store.
type Database struct {
	Driver              string `toml:"driver"`
	DSN                 string `toml:"dsn"`
	MaxOpenConns        int    `toml:"max_open_conns"`
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds"`
}

// Documents holds the constants that decide which documents count as stuck.
type Documents struct {
	Kinds               []int  `toml:"kinds"`
	RegisterMessageType string `toml:"register_message_type"`
	ErrorStatus         string `toml:"error_status"`
}

// Registrar configures the external re-registration command.
type Registrar struct {
	Command         []string `toml:"command"`
	SuccessExitCode int      `toml:"success_exit_code"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
	OutputEncoding  string   `toml:"output_encoding"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for semdaudit.
//
// Configuration sections:
//   - Paths: state (lock file) and log directories
//   - Database: driver, DSN and pool limits for the SEMD store
//   - Documents: kind allow-list, registration message type, error status
//   - Registrar: re-registration command, success exit code, timeout
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Database  Database  `toml:"database"`
	Documents Documents `toml:"documents"`
	Registrar Registrar `toml:"registrar"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/semdaudit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if err := loadDotEnv(filepath.Dir(resolvedPath)); err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("semdaudit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv reads <dir>/.env without overriding variables already exported.
func loadDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	info, err := os.Stat(envPath)
	if err != nil || info.IsDir() {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	return nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to serialize register runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "semdaudit.lock")
}

// QueryTimeout returns the database query deadline.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeoutSeconds) * time.Second
}

// RegistrarTimeout returns the per-document registrar deadline.
func (c *Config) RegistrarTimeout() time.Duration {
	return time.Duration(c.Registrar.TimeoutSeconds) * time.Second
}

// RegistrarBinary returns the executable the registrar command launches.
func (c *Config) RegistrarBinary() string {
	if len(c.Registrar.Command) == 0 {
		return ""
	}
	return c.Registrar.Command[0]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
