package registrar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"semdaudit/internal/config"
	"semdaudit/internal/logging"
)

var commandContext = exec.CommandContext

// Option configures the Command registrar.
type Option func(*Command)

// WithTimeout overrides the per-document timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Command) {
		c.timeout = timeout
	}
}

// WithSuccessExitCode overrides the exit code treated as success.
func WithSuccessExitCode(code int) Option {
	return func(c *Command) {
		c.successCode = code
	}
}

// WithEncoding decodes command output from the named charset (e.g. "windows-1251").
func WithEncoding(name string) Option {
	return func(c *Command) {
		c.encodingName = name
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		c.logger = logger
	}
}

// Command runs an external console command once per document.
type Command struct {
	argv         []string
	timeout      time.Duration
	successCode  int
	encodingName string
	decoder      encoding.Encoding
	logger       *slog.Logger
}

// NewCommand builds a registrar that runs argv with the document number appended.
func NewCommand(argv []string, opts ...Option) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("registrar command is empty")
	}
	c := &Command{argv: append([]string(nil), argv...)}
	for _, opt := range opts {
		opt(c)
	}
	if name := strings.TrimSpace(c.encodingName); name != "" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("registrar output encoding %q: %w", name, err)
		}
		c.decoder = enc
	}
	c.logger = logging.NewComponentLogger(c.logger, "registrar")
	return c, nil
}

// NewFromConfig builds the Command registrar described by cfg.Registrar.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Command, error) {
	return NewCommand(cfg.Registrar.Command,
		WithTimeout(cfg.RegistrarTimeout()),
		WithSuccessExitCode(cfg.Registrar.SuccessExitCode),
		WithEncoding(cfg.Registrar.OutputEncoding),
		WithLogger(logger),
	)
}

// Submit runs the command for one document and waits for it to exit.
func (c *Command) Submit(ctx context.Context, number string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return failure(-1, "%v", ErrEmptyNumber), nil
	}

	runCtx := ctx
	cancel := func() {}
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	args := append(append([]string(nil), c.argv[1:]...), number)
	cmd := commandContext(runCtx, c.argv[0], args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative pid signals the whole process group.
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)
	text := c.decode(output.Bytes())

	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	outcome := Outcome{Duration: elapsed}
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		outcome.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome = failure(-1, "timeout after %s", c.timeout)
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			outcome.Diagnostic += ": " + trimmed
		}
		outcome.Duration = elapsed
		c.logFailure(ctx, number, outcome)
		return outcome, nil
	case errors.As(runErr, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	default:
		outcome = failure(-1, "start registrar: %v", runErr)
		outcome.Duration = elapsed
		c.logFailure(ctx, number, outcome)
		return outcome, nil
	}

	if outcome.ExitCode == c.successCode {
		outcome.Success = true
		outcome.Diagnostic = text
		c.logger.Debug("registrar succeeded",
			logging.String(logging.FieldDocumentNumber, number),
			logging.Duration("registrar_duration", elapsed),
		)
		return outcome, nil
	}

	outcome.Diagnostic = text
	c.logFailure(ctx, number, outcome)
	return outcome, nil
}

// decode returns the captured output as text, unchanged apart from charset
// conversion.
func (c *Command) decode(raw []byte) string {
	if c.decoder != nil {
		if decoded, err := c.decoder.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}
	return string(raw)
}

// logFailure is the single log line for a failed registration.
func (c *Command) logFailure(ctx context.Context, number string, outcome Outcome) {
	logging.WarnWithContext(logging.WithContext(ctx, c.logger), "registrar reported failure", "registrar_failed",
		logging.String(logging.FieldDocumentNumber, number),
		logging.Int("exit_code", outcome.ExitCode),
		logging.String("diagnostic", outcome.Diagnostic),
		logging.Duration("registrar_duration", outcome.Duration),
		logging.String(logging.FieldErrorHint, "rerun the registration command by hand for this document"),
		logging.String(logging.FieldImpact, "document stays stuck in the transport bus"),
	)
}

var _ Registrar = (*Command)(nil)
