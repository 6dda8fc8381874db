package testsupport

import (
	"path/filepath"
	"testing"

	"semdaudit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test and
// a SQLite document store path. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Database.Driver = config.DriverSQLite
	cfgVal.Database.DSN = filepath.Join(base, "emdr.db")
	cfgVal.Database.QueryTimeoutSeconds = 10
	cfgVal.Registrar.Command = []string{filepath.Join(base, "bin", "remd-reg")}
	cfgVal.Registrar.TimeoutSeconds = 10
	cfgVal.Logging.RetentionDays = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRegistrarScript installs a shell script as the registrar command. The
// document number arrives as $1.
func WithRegistrarScript(script string) ConfigOption {
	return func(b *configBuilder) {
		path := WriteScript(b.t, filepath.Join(b.baseDir, "bin"), "remd-reg", script)
		b.cfg.Registrar.Command = []string{path}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
