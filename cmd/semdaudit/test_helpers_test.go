package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"semdaudit/internal/config"
	"semdaudit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	emdr       *testsupport.EMDR
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SEMDAUDIT_DATABASE_DSN", "")
	t.Setenv("SEMDAUDIT_DATABASE_DRIVER", "")
	pinToday(t, time.Date(2024, time.March, 15, 11, 0, 0, 0, time.Local))

	cfg := testsupport.NewConfig(t, opts...)
	emdr := testsupport.NewEMDR(t, cfg)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "semdaudit.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, emdr: emdr, configPath: configPath}
}

func pinToday(t *testing.T, today time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return today }
	t.Cleanup(func() { now = prev })
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q, got:\n%s", needle, haystack)
	}
}
