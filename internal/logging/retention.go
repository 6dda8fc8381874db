package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RetentionTarget specifies a directory and filename pattern to prune.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs removes files matching the provided targets that are older
// than retentionDays. A retentionDays value of 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	return pruneBefore(logger, time.Now().AddDate(0, 0, -retentionDays), targets)
}

func pruneBefore(logger *slog.Logger, cutoff time.Time, targets []RetentionTarget) int {
	removed := 0
	for _, target := range targets {
		if target.Dir == "" {
			continue
		}
		pattern := target.Pattern
		if pattern == "" {
			pattern = "*"
		}
		matches, err := filepath.Glob(filepath.Join(target.Dir, pattern))
		if err != nil {
			continue
		}
		skip := make(map[string]struct{}, len(target.Exclude))
		for _, path := range target.Exclude {
			skip[filepath.Clean(path)] = struct{}{}
		}
		for _, path := range matches {
			if _, excluded := skip[filepath.Clean(path)]; excluded {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "run log retention failed; file remains", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check file permissions and log_dir ownership"),
					String(FieldImpact, "old run log remains on disk"),
				)
				continue
			}
			removed++
			if logger != nil {
				logger.Debug("run log pruned",
					String("path", path),
					String(FieldEventType, "log_pruned"),
				)
			}
		}
	}
	return removed
}
