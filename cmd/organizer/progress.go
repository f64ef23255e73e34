package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"organizer/internal/logging"
)

// progressBar tracks one long operation (resolving a tree during plan,
// applying items during execute). On a terminal it renders a go-pretty
// progress bar; piped or in CI it degrades to sampled log lines so output
// stays scannable instead of one line per file.
type progressBar struct {
	writer  progress.Writer
	tracker *progress.Tracker

	logger  *slog.Logger
	sampler *logging.ProgressSampler
	message string
	total   int64
	count   int64
}

func newProgressBar(logger *slog.Logger, message string, total int64) *progressBar {
	if total <= 0 {
		return &progressBar{}
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return &progressBar{
			logger:  logger,
			sampler: logging.NewProgressSampler(total, 10),
			message: message,
			total:   total,
		}
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stdout)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.Style().Visibility.Percentage = true
	pw.Style().Visibility.Value = true

	tracker := &progress.Tracker{Message: message, Total: total}
	pw.AppendTracker(tracker)

	go pw.Render()

	return &progressBar{writer: pw, tracker: tracker}
}

func (p *progressBar) increment(n int64) {
	if p.tracker != nil {
		p.tracker.Increment(n)
		return
	}
	if p.sampler == nil {
		return
	}
	p.count += n
	if p.sampler.ShouldLog(p.count) && p.logger != nil {
		p.logger.Info(p.message, "done", p.count, "total", p.total)
	}
}

func (p *progressBar) done() {
	if p.tracker == nil {
		return
	}
	p.tracker.MarkAsDone()
	for p.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
