package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"semdaudit/internal/audit"
	"semdaudit/internal/logging"
	"semdaudit/internal/period"
	"semdaudit/internal/runlock"
	"semdaudit/internal/testsupport"
)

const registrarScript = `if [ "$1" = "DOC-1" ]; then
  echo accepted
  exit 0
fi
printf timeout >&2
exit 1
`

func TestAuditStatusModeRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.emdr.Stuck(1, "DOC-1", 42, "2024-03-10 09:30:00", "error")

	out, _, err := runCLI(t, env.configPath)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	requireContains(t, out, "SEMD stuck in the bus since 2024-03-01")
	for _, header := range []string{"#", "ID_USER", "NUMBER", "ID_DOC", "CREATED", "STATUS"} {
		requireContains(t, out, header)
	}
	requireContains(t, out, "DOC-1")
	requireContains(t, out, "2024-03-10")
	requireContains(t, out, "error")
	requireContains(t, out, "Found 1 SEMD stuck in the bus since 2024-03-01")
}

func TestAuditWithNothingStuckPrintsSuccessOnly(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if out != "No SEMD stuck in the bus since 2024-03-01\n" {
		t.Fatalf("unexpected output:\n%s", out)
	}
	requireNotContains(t, out, "ID_USER")
}

func TestAuditRegisterModeKeepsGoingAfterFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRegistrarScript(registrarScript))
	env.emdr.
		Stuck(1, "DOC-1", 7, "2024-03-02 08:00:00", "error").
		Stuck(2, "DOC-2", 7, "2024-03-04 08:00:00", "sent")

	out, _, err := runCLI(t, env.configPath, "register", "--json")
	if err != nil {
		t.Fatalf("audit register: %v", err)
	}

	var got reportJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if got.Label != "REGISTER" || got.Count != 2 || got.Since != "2024-03-01" {
		t.Fatalf("unexpected report header: %+v", got)
	}
	if got.Rows[0].Number != "DOC-1" || got.Rows[0].Result != "register" {
		t.Fatalf("unexpected first row: %+v", got.Rows[0])
	}
	if got.Rows[1].Number != "DOC-2" || got.Rows[1].Result != "timeout" {
		t.Fatalf("unexpected second row: %+v", got.Rows[1])
	}

	logs, err := filepath.Glob(filepath.Join(env.cfg.Paths.LogDir, logging.RunLogPattern))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one run log, got %v (%v)", logs, err)
	}
	data, err := os.ReadFile(logs[0])
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	requireContains(t, string(data), `"run_id"`)
	requireContains(t, string(data), `"document_number":"DOC-2"`)
}

func TestAuditMonthAndDayOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	env.emdr.
		Stuck(1, "DOC-MARCH", 1, "2024-03-10 09:00:00", "error").
		Stuck(2, "DOC-JUNE", 1, "2024-06-11 09:00:00", "sent")

	out, _, err := runCLI(t, env.configPath, "status", "-m", "6", "-d", "10", "--json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var got reportJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.Since != "2024-06-10" || got.Count != 1 || got.Rows[0].Number != "DOC-JUNE" {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.Rows[0].Result != "in progress" {
		t.Fatalf("unexpected result %q", got.Rows[0].Result)
	}
}

func TestAuditDayWithoutMonthIsIgnored(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "-d", "20", "--json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var got reportJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.Since != "2024-03-01" {
		t.Fatalf("expected current month start, got %q", got.Since)
	}
	if got.Rows == nil || len(got.Rows) != 0 {
		t.Fatalf("expected empty rows array, got %#v", got.Rows)
	}
}

func TestAuditRejectsInvalidPeriod(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "-m", "2", "-d", "31")
	if !errors.Is(err, period.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestAuditDryRunSkipsRegistrar(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "called")
	env := setupCLITestEnv(t, testsupport.WithRegistrarScript("touch "+marker+"\nexit 0\n"))
	env.emdr.Stuck(1, "DOC-1", 3, "2024-03-05 10:00:00", "error")

	out, _, err := runCLI(t, env.configPath, "register", "--dry-run")
	if err != nil {
		t.Fatalf("audit dry-run: %v", err)
	}
	requireContains(t, out, "REGISTER")
	requireContains(t, out, audit.ResultDryRun)
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("registrar should not run in dry-run mode (stat err %v)", err)
	}
}

func TestAuditRegisterFailsWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRegistrarScript("exit 0\n"))
	env.emdr.Stuck(1, "DOC-1", 3, "2024-03-05 10:00:00", "error")

	lock, err := runlock.Acquire(env.cfg.LockPath())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	if _, _, err := runCLI(t, env.configPath, "register"); !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	// Status runs never take the lock.
	if _, _, err := runCLI(t, env.configPath); err != nil {
		t.Fatalf("status run while locked: %v", err)
	}
}

func TestAuditRejectsExtraArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env.configPath, "register", "now"); err == nil {
		t.Fatal("expected error for two positional arguments")
	}
}

func TestAuditPaddedRegisterActionRunsStatusMode(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "called")
	env := setupCLITestEnv(t, testsupport.WithRegistrarScript("touch "+marker+"\nexit 0\n"))
	env.emdr.Stuck(1, "DOC-1", 3, "2024-03-05 10:00:00", "error")

	for _, action := range []string{" register", "register\n", "\tregister"} {
		out, _, err := runCLI(t, env.configPath, action, "--json")
		if err != nil {
			t.Fatalf("audit %q: %v", action, err)
		}
		var got reportJSON
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode json: %v", err)
		}
		if got.Label != "STATUS" || got.Count != 1 || got.Rows[0].Result != "error" {
			t.Fatalf("action %q: unexpected report %+v", action, got)
		}
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("registrar must not run for a padded action (stat err %v)", err)
	}
}

func TestAuditTableTrimsTrailingNewlineOfDiagnostic(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRegistrarScript("echo 'queue rejected'\nexit 1\n"))
	env.emdr.Stuck(1, "DOC-1", 3, "2024-03-05 10:00:00", "error")

	out, _, err := runCLI(t, env.configPath, "register", "--json")
	if err != nil {
		t.Fatalf("audit register: %v", err)
	}
	var got reportJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.Rows[0].Result != "queue rejected\n" {
		t.Fatalf("json result should keep captured output, got %q", got.Rows[0].Result)
	}

	report := audit.NewReport(march2024(), "REGISTER")
	report.Rows = got.Rows
	var buf bytes.Buffer
	renderReport(&buf, report, false)
	requireContains(t, buf.String(), "queue rejected")
	tableLines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "│") {
			tableLines++
		}
	}
	if tableLines != 2 {
		t.Fatalf("expected header and one single-line row, got %d table lines:\n%s", tableLines, buf.String())
	}
}

func march2024() time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
}
