package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// plainValue renders v without quoting. It is used for header parts such as
// the component and document number.
func plainValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return consoleTime(v.Time())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

// fieldLines renders v for a "- key: value" line. Registrar output and SQL
// errors may span several lines; continuation lines are returned separately so
// the handler can indent them under the field.
func fieldLines(v slog.Value) (string, []string) {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool, slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return v.String(), nil
	}
	text := strings.TrimRight(plainValue(v), "\n")
	if !strings.Contains(text, "\n") {
		if text == "" || strings.ContainsAny(text, "\"\t\r") {
			return strconv.Quote(text), nil
		}
		return text, nil
	}
	lines := strings.Split(text, "\n")
	return lines[0], lines[1:]
}

func consoleTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(time.DateTime)
}
