package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"semdaudit/internal/config"
)

// RunLogPattern matches the per-run log files written into log_dir.
const RunLogPattern = "semdaudit-*.log"

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	Console     io.Writer
	FilePath    string
	RunID       string
	Development bool
}

// Session is a logger bound to one CLI run. Close flushes and releases the
// run log file.
type Session struct {
	Logger  *slog.Logger
	RunID   string
	LogPath string

	file *os.File
}

// Close releases the run log file, if one was opened.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// New constructs a logging session using the provided options. Console output
// honours Format and Level; the optional log file always receives JSON at
// debug level so a run can be reconstructed after the fact.
func New(opts Options) (*Session, error) {
	level := parseLevel(opts.Level)
	addSource := opts.Development || level <= slog.LevelDebug

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleHandler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		consoleHandler = newPrettyHandler(console, level, addSource)
	case "json":
		consoleHandler = newJSONHandler(console, level, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	session := &Session{RunID: opts.RunID}
	var fileHandler slog.Handler
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		session.file = file
		session.LogPath = path
		fileHandler = newJSONHandler(file, slog.LevelDebug, true)
	}

	session.Logger = slog.New(newRunIDHandler(newTeeHandler(consoleHandler, fileHandler), opts.RunID))
	return session, nil
}

// NewFromConfig opens a logging session for one run: console output on
// console (stderr when nil) and a JSON run log under cfg.Paths.LogDir. Run logs
// older than logging.retention_days are pruned.
func NewFromConfig(cfg *config.Config, runID string, console io.Writer) (*Session, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Console: console, RunID: runID})
	}

	var logPath string
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		logPath = filepath.Join(dir, RunLogName(time.Now(), runID))
	}
	session, err := New(Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  console,
		FilePath: logPath,
		RunID:    runID,
	})
	if err != nil {
		return nil, err
	}
	if logPath != "" {
		CleanupOldLogs(session.Logger, cfg.Logging.RetentionDays, RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: RunLogPattern,
			Exclude: []string{logPath},
		})
	}
	return session, nil
}

// RunLogName builds the file name for a run log.
func RunLogName(started time.Time, runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	if short == "" {
		short = "run"
	}
	return fmt.Sprintf("semdaudit-%s-%s.log", started.Format("20060102-150405"), short)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
