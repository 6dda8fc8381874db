package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"semdaudit/internal/audit"
)

var reportAligns = []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft}

type reportJSON struct {
	Since string      `json:"since"`
	Label string      `json:"label"`
	Count int         `json:"count"`
	Rows  []audit.Row `json:"rows"`
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReportJSON(out io.Writer, report *audit.Report) error {
	rows := report.Rows
	if rows == nil {
		rows = []audit.Row{}
	}
	return writeJSON(out, reportJSON{
		Since: report.SinceDate(),
		Label: report.Label,
		Count: report.Count(),
		Rows:  rows,
	})
}

// renderReport prints the title, the table and the summary line, or a single
// success message when nothing is stuck.
func renderReport(out io.Writer, report *audit.Report, colorize bool) {
	if report.Count() == 0 {
		fmt.Fprintln(out, paint(report.EmptyMessage(), colorize, text.FgGreen))
		return
	}

	headers := []string{"#", "ID_USER", "NUMBER", "ID_DOC", "CREATED", report.Label}
	rows := make([][]string, 0, report.Count())
	for _, row := range report.Rows {
		rows = append(rows, []string{
			strconv.Itoa(row.Seq),
			strconv.FormatInt(row.UserID, 10),
			row.Number,
			strconv.FormatInt(row.DocID, 10),
			row.Created,
			paintResult(strings.TrimRight(row.Result, "\r\n"), colorize),
		})
	}

	fmt.Fprintln(out, paint(report.Title(), colorize, text.Bold))
	fmt.Fprintln(out, renderTable(headers, rows, reportAligns))
	fmt.Fprintln(out, paint(report.Summary(), colorize, text.FgYellow))
}

func paintResult(result string, colorize bool) string {
	switch result {
	case audit.ResultError:
		return paint(result, colorize, text.FgRed)
	case audit.ResultRegistered:
		return paint(result, colorize, text.FgGreen)
	case audit.ResultInProgress, audit.ResultDryRun:
		return paint(result, colorize, text.FgCyan)
	default:
		return paint(result, colorize, text.FgHiRed)
	}
}

func paint(s string, colorize bool, colors ...text.Color) string {
	if !colorize {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
