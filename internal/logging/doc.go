// Package logging assembles structured slog loggers and formatting helpers used
// across semdaudit.
//
// It owns the console and JSON handlers, the per-run log file with its
// retention pruning, and context helpers that tag log lines with the run
// identifier and the document being processed. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
