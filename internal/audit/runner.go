package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"semdaudit/internal/logging"
	"semdaudit/internal/semd"
)

// Finder returns the stuck records of a window, already ordered.
type Finder interface {
	FindStuck(ctx context.Context, since time.Time) ([]semd.StuckRecord, error)
}

// Progress receives run progress. Either callback may be nil.
type Progress struct {
	OnStart   func(total int)
	OnAdvance func(row Row)
}

// Runner executes one audit run.
type Runner struct {
	finder     Finder
	dispatcher *Dispatcher
	progress   Progress
	logger     *slog.Logger
}

// NewRunner wires a finder and dispatcher into a runner.
func NewRunner(finder Finder, dispatcher *Dispatcher, progress Progress, logger *slog.Logger) *Runner {
	return &Runner{
		finder:     finder,
		dispatcher: dispatcher,
		progress:   progress,
		logger:     logging.NewComponentLogger(logger, "runner"),
	}
}

// Run finds the records created after since and dispatches each one in order.
// A cancelled ctx aborts the run without a partial report.
func (r *Runner) Run(ctx context.Context, since time.Time) (*Report, error) {
	if r.finder == nil || r.dispatcher == nil {
		return nil, fmt.Errorf("runner is not configured")
	}
	logger := r.logger.With(logging.String(logging.FieldMode, string(r.dispatcher.Mode())))
	started := time.Now()

	records, err := r.finder.FindStuck(ctx, since)
	if err != nil {
		return nil, err
	}
	logger.Info("audit started",
		logging.String("since", semd.FormatBound(since)),
		logging.Int("records", len(records)),
	)
	if r.progress.OnStart != nil {
		r.progress.OnStart(len(records))
	}

	report := NewReport(since, r.dispatcher.Label())
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			logger.Info("audit interrupted", logging.Int("processed", report.Count()))
			return nil, err
		}
		result, err := r.dispatcher.Dispatch(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("dispatch document %s: %w", record.Number, err)
		}
		row := report.Add(record, result)
		if r.progress.OnAdvance != nil {
			r.progress.OnAdvance(row)
		}
	}

	logger.Info("audit finished",
		logging.Int("records", report.Count()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}
