package semd

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// StuckRecord is a document whose latest transport log entry is still the
// registration request.
type StuckRecord struct {
	DocumentID  int64          `db:"id"`
	Number      string         `db:"number"`
	CreatedAt   Timestamp      `db:"created_at"`
	UserID      int64          `db:"id_user"`
	Status      sql.NullString `db:"status"`
	MessageType sql.NullString `db:"message_type"`
}

// LatestStatus returns the status of the latest log entry, or "" when NULL.
func (r StuckRecord) LatestStatus() string {
	return r.Status.String
}

// Created returns the document creation time.
func (r StuckRecord) Created() time.Time {
	return r.CreatedAt.Time
}

// Timestamp scans creation timestamps from either driver. PostgreSQL returns
// time.Time; SQLite snapshots may hold plain text.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (t *Timestamp) parse(value string) error {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized value %q", value)
}

// FormatBound renders a window start the way the store compares CREATED_AT.
func FormatBound(since time.Time) string {
	return since.Format(time.DateTime)
}
