package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"semdaudit/internal/audit"
)

// progressDisplay draws a single tracker for the run on a terminal.
type progressDisplay struct {
	label   string
	writer  progress.Writer
	tracker *progress.Tracker
}

func newProgressDisplay(out io.Writer, label string) *progressDisplay {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetStyle(progress.StyleDefault)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true
	go pw.Render()
	return &progressDisplay{label: label, writer: pw}
}

func (p *progressDisplay) callbacks() audit.Progress {
	return audit.Progress{
		OnStart: func(total int) {
			if total == 0 {
				return
			}
			p.tracker = &progress.Tracker{
				Message: p.label,
				Total:   int64(total),
				Units:   progress.UnitsDefault,
			}
			p.writer.AppendTracker(p.tracker)
		},
		OnAdvance: func(row audit.Row) {
			if p.tracker == nil {
				return
			}
			p.tracker.UpdateMessage(fmt.Sprintf("%s %s", p.label, row.Number))
			p.tracker.Increment(1)
		},
	}
}

// stop finishes the tracker and waits briefly for the final frame.
func (p *progressDisplay) stop() {
	if p.tracker != nil && !p.tracker.IsDone() {
		p.tracker.MarkAsDone()
	}
	p.writer.Stop()
	for i := 0; i < 50 && p.writer.IsRenderInProgress(); i++ {
		time.Sleep(10 * time.Millisecond)
	}
}
