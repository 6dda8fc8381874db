// Package semd reads SEMD transport state from the EMDR document store.
//
// The Store is strictly read-only. FindStuck selects documents of the audited
// kinds created after the window start, each joined to its signer and to its
// latest EMDR_LOG entry (maximum ID), and keeps only those whose latest entry
// is still the initial registration request. PostgreSQL is reached through the
// pgx stdlib driver; SQLite snapshots (and the tests) use modernc.org/sqlite.
package semd
