package semd_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"semdaudit/internal/config"
	"semdaudit/internal/semd"
	"semdaudit/internal/testsupport"
)

var windowStart = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)

func numbers(records []semd.StuckRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Number)
	}
	return out
}

func requireNumbers(t *testing.T, records []semd.StuckRecord, want ...string) {
	t.Helper()
	got := numbers(records)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestFindStuckAppliesWindowKindsAndSigner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fx := testsupport.NewEMDR(t, cfg)

	fx.Stuck(1, "IN-WINDOW", 10, "2024-03-02 09:00:00", "error")
	// Exactly on the window start is excluded (strictly greater).
	fx.Stuck(2, "ON-BOUND", 10, "2024-03-01 00:00:00", "error")
	fx.Stuck(3, "BEFORE", 10, "2024-02-28 23:59:59", "error")
	// Kind outside the allow-list.
	fx.Document(4, "WRONG-KIND", 42, "2024-03-05 10:00:00").Sign(4, testsupport.User(10)).Log(400, 4, "error", testsupport.RegisterRequest)
	// Signed without a user.
	fx.Document(5, "NULL-SIGNER", 90, "2024-03-05 10:00:00").Sign(5, nil).Log(500, 5, "error", testsupport.RegisterRequest)
	// Never signed.
	fx.Document(6, "UNSIGNED", 147, "2024-03-05 10:00:00").Log(600, 6, "error", testsupport.RegisterRequest)
	// No log entries at all.
	fx.Document(7, "NO-LOG", 205, "2024-03-05 10:00:00").Sign(7, testsupport.User(10))

	records, err := fx.Store(cfg).FindStuck(context.Background(), windowStart)
	if err != nil {
		t.Fatalf("FindStuck: %v", err)
	}
	requireNumbers(t, records, "IN-WINDOW")

	got := records[0]
	if got.DocumentID != 1 || got.UserID != 10 || got.LatestStatus() != "error" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if want := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.Local); !got.Created().Equal(want) {
		t.Fatalf("created %s want %s", got.Created(), want)
	}
}

func TestFindStuckUsesOnlyLatestLogEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fx := testsupport.NewEMDR(t, cfg)

	// Registered once, then progressed: not stuck.
	fx.Document(1, "PROGRESSED", 41, "2024-03-02 09:00:00").Sign(1, testsupport.User(1)).
		Log(10, 1, "ok", testsupport.RegisterRequest).
		Log(11, 1, "ok", "registerDocumentResult")
	// Progressed earlier, latest entry is a new registration attempt: stuck.
	// The status shown must come from the latest entry.
	fx.Document(2, "RETRIED", 41, "2024-03-02 10:00:00").Sign(2, testsupport.User(1)).
		Log(20, 2, "error", "registerDocumentResult").
		Log(25, 2, "sent", testsupport.RegisterRequest)
	// Insertion order differs from ID order; the max ID wins.
	fx.Document(3, "OUT-OF-ORDER", 41, "2024-03-02 11:00:00").Sign(3, testsupport.User(1)).
		Log(32, 3, "error", testsupport.RegisterRequest).
		Log(31, 3, "ok", "registerDocumentResult")
	// Message type differs only by case: exact match required.
	fx.Document(4, "CASE", 41, "2024-03-02 12:00:00").Sign(4, testsupport.User(1)).
		Log(40, 4, "error", "RegisterDocumentRequest")

	records, err := fx.Store(cfg).FindStuck(context.Background(), windowStart)
	if err != nil {
		t.Fatalf("FindStuck: %v", err)
	}
	requireNumbers(t, records, "RETRIED", "OUT-OF-ORDER")
	if records[0].LatestStatus() != "sent" {
		t.Fatalf("expected latest status 'sent', got %q", records[0].LatestStatus())
	}
	if records[1].LatestStatus() != "error" {
		t.Fatalf("expected latest status 'error', got %q", records[1].LatestStatus())
	}
}

func TestFindStuckOrdersBySignerThenCreation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fx := testsupport.NewEMDR(t, cfg)

	fx.Stuck(1, "U2-LATE", 2, "2024-03-09 00:00:00", "error")
	fx.Stuck(2, "U1-LATE", 1, "2024-03-08 00:00:00", "")
	fx.Stuck(3, "U2-EARLY", 2, "2024-03-02 00:00:00", "error")
	fx.Stuck(4, "U1-EARLY", 1, "2024-03-03 00:00:00", "error")
	fx.Stuck(6, "U1-TIE-B", 1, "2024-03-05 00:00:00", "error")
	fx.Stuck(5, "U1-TIE-A", 1, "2024-03-05 00:00:00", "error")

	records, err := fx.Store(cfg).FindStuck(context.Background(), windowStart)
	if err != nil {
		t.Fatalf("FindStuck: %v", err)
	}
	requireNumbers(t, records, "U1-EARLY", "U1-TIE-A", "U1-TIE-B", "U1-LATE", "U2-EARLY", "U2-LATE")
}

func TestFindStuckHonoursConfiguredKinds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Documents.Kinds = []int{42}
	fx := testsupport.NewEMDR(t, cfg)

	fx.Stuck(1, "KIND-41", 1, "2024-03-02 00:00:00", "error")
	fx.Document(2, "KIND-42", 42, "2024-03-02 00:00:00").Sign(2, testsupport.User(1)).Log(20, 2, "error", testsupport.RegisterRequest)

	records, err := fx.Store(cfg).FindStuck(context.Background(), windowStart)
	if err != nil {
		t.Fatalf("FindStuck: %v", err)
	}
	requireNumbers(t, records, "KIND-42")
}

func TestFindStuckEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fx := testsupport.NewEMDR(t, cfg)

	records, err := fx.Store(cfg).FindStuck(context.Background(), windowStart)
	if err != nil {
		t.Fatalf("FindStuck: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", numbers(records))
	}
}

func TestFindStuckWrapsQueryErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// The database exists but carries none of the EMDR tables.
	store, err := semd.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := store.FindStuck(context.Background(), windowStart); !errors.Is(err, semd.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}

func TestOpenWrapsConnectErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Database.DSN = filepath.Join(t.TempDir(), "missing", "dir", "emdr.db")

	if _, err := semd.Open(context.Background(), cfg, nil); !errors.Is(err, semd.ErrConnect) {
		t.Fatalf("expected ErrConnect, got %v", err)
	}
}

func TestFilterStuckExactMatch(t *testing.T) {
	at := func(day int) semd.Timestamp {
		return semd.Timestamp{Time: time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)}
	}
	records := []semd.StuckRecord{
		{Number: "A", UserID: 2, CreatedAt: at(1), MessageType: sql.NullString{String: config.DefaultRegisterMessageType, Valid: true}},
		{Number: "B", UserID: 1, CreatedAt: at(2), MessageType: sql.NullString{String: config.DefaultRegisterMessageType + " ", Valid: true}},
		{Number: "C", UserID: 1, CreatedAt: at(3)},
		{Number: "D", UserID: 1, CreatedAt: at(4), MessageType: sql.NullString{String: config.DefaultRegisterMessageType, Valid: true}},
	}
	requireNumbers(t, semd.FilterStuck(records, config.DefaultRegisterMessageType), "D", "A")
}

func TestTimestampScan(t *testing.T) {
	var ts semd.Timestamp
	if err := ts.Scan([]byte("2024-03-02 09:30:00")); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 {
		t.Fatalf("unexpected time %s", ts.Time)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := ts.Scan(want); err != nil || !ts.Equal(want) {
		t.Fatalf("scan time: %v %s", err, ts.Time)
	}
	if err := ts.Scan("yesterday"); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}
