package testsupport

import (
	"context"
	_ "embed"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"semdaudit/internal/config"
	"semdaudit/internal/semd"
)

//go:embed emdr_schema.sql
var emdrSchema string

// RegisterRequest is the default registration message type.
const RegisterRequest = config.DefaultRegisterMessageType

// EMDR is a SQLite copy of the EMDR tables used as a fixture.
type EMDR struct {
	t  testing.TB
	db *sqlx.DB
}

// NewEMDR creates the EMDR schema at cfg.Database.DSN and registers cleanup.
func NewEMDR(t testing.TB, cfg *config.Config) *EMDR {
	t.Helper()

	db, err := sqlx.Open(config.DriverSQLite, cfg.Database.DSN)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if _, err := db.Exec(emdrSchema); err != nil {
		t.Fatalf("create EMDR schema: %v", err)
	}
	return &EMDR{t: t, db: db}
}

// DB exposes the fixture connection.
func (e *EMDR) DB() *sqlx.DB {
	return e.db
}

// Document inserts an EMDR_DOCUMENT row. created uses "YYYY-MM-DD HH:MM:SS".
func (e *EMDR) Document(id int64, number string, kind int, created string) *EMDR {
	e.t.Helper()
	e.exec(`INSERT INTO EMDR_DOCUMENT (ID, NUMBER, CREATED_AT, KIND) VALUES (?, ?, ?, ?)`, id, number, created, kind)
	return e
}

// Sign inserts an EMDR_DOCUMENT_SIGN row. A nil user stores NULL.
func (e *EMDR) Sign(docID int64, user *int64) *EMDR {
	e.t.Helper()
	e.exec(`INSERT INTO EMDR_DOCUMENT_SIGN (ID_DOC, ID_USER) VALUES (?, ?)`, docID, user)
	return e
}

// Log inserts an EMDR_LOG row.
func (e *EMDR) Log(id, docID int64, status, messageType string) *EMDR {
	e.t.Helper()
	e.exec(`INSERT INTO EMDR_LOG (ID, ID_DOC, STATUS, MESSAGE_TYPE) VALUES (?, ?, ?, ?)`, id, docID, status, messageType)
	return e
}

// Stuck inserts a signed document whose only log entry is the registration
// request with the given status.
func (e *EMDR) Stuck(id int64, number string, user int64, created, status string) *EMDR {
	e.t.Helper()
	return e.Document(id, number, 41, created).Sign(id, User(user)).Log(id*100, id, status, RegisterRequest)
}

// Store opens a semd.Store over the fixture using cfg's document settings.
func (e *EMDR) Store(cfg *config.Config) *semd.Store {
	e.t.Helper()
	store, err := semd.Open(context.Background(), cfg, nil)
	if err != nil {
		e.t.Fatalf("semd.Open: %v", err)
	}
	e.t.Cleanup(func() {
		store.Close()
	})
	return store
}

func (e *EMDR) exec(query string, args ...any) {
	e.t.Helper()
	if _, err := e.db.Exec(query, args...); err != nil {
		e.t.Fatalf("fixture exec %q: %v", query, err)
	}
}

// User returns a pointer for Sign.
func User(id int64) *int64 {
	return &id
}
