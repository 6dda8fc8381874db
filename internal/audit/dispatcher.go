package audit

import (
	"context"
	"errors"
	"log/slog"

	"semdaudit/internal/config"
	"semdaudit/internal/logging"
	"semdaudit/internal/registrar"
	"semdaudit/internal/semd"
)

// ErrNoRegistrar is returned when register mode is requested without a registrar.
var ErrNoRegistrar = errors.New("register mode requires a registrar")

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Mode        Mode
	Registrar   registrar.Registrar
	ErrorStatus string
	DryRun      bool
	Logger      *slog.Logger
}

// Dispatcher turns a stuck record into a result label.
type Dispatcher struct {
	mode        Mode
	registrar   registrar.Registrar
	errorStatus string
	dryRun      bool
	logger      *slog.Logger
}

// NewDispatcher validates opts and builds a Dispatcher.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	mode := opts.Mode
	if mode != ModeRegister {
		mode = ModeStatus
	}
	if mode == ModeRegister && opts.Registrar == nil && !opts.DryRun {
		return nil, ErrNoRegistrar
	}
	errorStatus := opts.ErrorStatus
	if errorStatus == "" {
		errorStatus = config.DefaultErrorStatus
	}
	return &Dispatcher{
		mode:        mode,
		registrar:   opts.Registrar,
		errorStatus: errorStatus,
		dryRun:      opts.DryRun,
		logger:      logging.NewComponentLogger(opts.Logger, "dispatcher"),
	}, nil
}

// Mode reports the run mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Label returns the result column header for this run.
func (d *Dispatcher) Label() string {
	return d.mode.Label()
}

// Dispatch returns the result label for record. Registration failures become
// the label and are logged by the registrar; only cancellation of ctx is
// returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, record semd.StuckRecord) (string, error) {
	if d.mode == ModeStatus {
		return d.statusLabel(record), nil
	}

	ctx = logging.WithDocument(ctx, record.DocumentID, record.Number)
	logger := logging.WithContext(ctx, d.logger)
	if d.dryRun {
		logger.Info("registration skipped (dry run)", logging.Int64("user_id", record.UserID))
		return ResultDryRun, nil
	}

	outcome, err := d.registrar.Submit(ctx, record.Number)
	if err != nil {
		return "", err
	}
	if outcome.Success {
		logger.Info("document re-submitted",
			logging.String(logging.FieldEventType, "registration_submitted"),
			logging.Duration("registrar_duration", outcome.Duration),
		)
		return ResultRegistered, nil
	}
	return outcome.Diagnostic, nil
}

func (d *Dispatcher) statusLabel(record semd.StuckRecord) string {
	if record.LatestStatus() == d.errorStatus {
		return ResultError
	}
	return ResultInProgress
}
