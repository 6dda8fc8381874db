package registrar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome describes one registration attempt.
//
// Diagnostic is the command's combined output exactly as captured, possibly
// empty. Timeouts and start failures carry a generated message instead.
type Outcome struct {
	Success    bool
	ExitCode   int
	Diagnostic string
	Duration   time.Duration
}

// Registrar submits a document for registration.
//
// Submit reports per-document failures through Outcome; the error return is
// reserved for cancellation of the whole run.
type Registrar interface {
	Submit(ctx context.Context, number string) (Outcome, error)
}

// ErrEmptyNumber is reported in the diagnostic when a record has no number.
var ErrEmptyNumber = errors.New("document number is empty")

// Func adapts a function to the Registrar interface.
type Func func(ctx context.Context, number string) (Outcome, error)

// Submit calls f.
func (f Func) Submit(ctx context.Context, number string) (Outcome, error) {
	return f(ctx, number)
}

func failure(code int, format string, args ...any) Outcome {
	return Outcome{ExitCode: code, Diagnostic: fmt.Sprintf(format, args...)}
}
