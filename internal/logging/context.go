package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the run correlation identifier.
	FieldRunID = "run_id"
	// FieldDocumentID is the standardized structured logging key for SEMD document identifiers.
	FieldDocumentID = "document_id"
	// FieldDocumentNumber is the standardized structured logging key for SEMD document numbers.
	FieldDocumentNumber = "document_number"
	// FieldMode is the standardized structured logging key for the run mode (status/register).
	FieldMode = "mode"
	// FieldEventType classifies a log line for filtering (e.g. "registrar_failed").
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type documentKey struct{}

type documentRef struct {
	id     int64
	number string
}

// WithDocument returns a context describing the document currently being processed.
func WithDocument(ctx context.Context, id int64, number string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, documentKey{}, documentRef{id: id, number: strings.TrimSpace(number)})
}

// DocumentFromContext extracts the document attached by WithDocument.
func DocumentFromContext(ctx context.Context) (int64, string, bool) {
	if ctx == nil {
		return 0, "", false
	}
	ref, ok := ctx.Value(documentKey{}).(documentRef)
	if !ok {
		return 0, "", false
	}
	return ref.id, ref.number, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	id, number, ok := DocumentFromContext(ctx)
	if !ok {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id > 0 {
		fields = append(fields, slog.Int64(FieldDocumentID, id))
	}
	if number != "" {
		fields = append(fields, slog.String(FieldDocumentNumber, number))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
