package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// discardLogger returns a logger that drops everything. Used while a
// full-screen view owns the terminal.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// timer tracks the start time of an operation and logs completion with elapsed duration.
type timer struct {
	logger *log.Logger
	start  time.Time
}

// newTimer creates a timer that captures the current time as start.
func newTimer(l *log.Logger) *timer {
	return &timer{logger: l, start: time.Now()}
}

// elapsed returns the time since the timer started, rounded to the millisecond.
func (t *timer) elapsed() time.Duration {
	return time.Since(t.start).Round(time.Millisecond)
}

// done logs msg along with the elapsed time.
// Example output: "Imported tile 3/2/1 (12ms)"
func (t *timer) done(msg string) {
	t.logger.Infof("%s (%s)", msg, t.elapsed())
}
