// Package output provides structured, verbosity-gated CLI logging for the
// compiler.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// VerbosityLevel controls how much the Logger prints.
type VerbosityLevel int

const (
	VerbosityQuiet VerbosityLevel = iota
	VerbosityDefault
	VerbosityVerbose
	VerbosityDebug
)

// Logger provides structured logging with verbosity control.
type Logger struct {
	verbosity    VerbosityLevel
	writer       io.Writer
	startTime    time.Time
	timings      map[string]time.Duration
	isTTY        bool
	progressBar  *progressbar.ProgressBar
	showProgress bool
}

// NewLogger creates a logger with the specified verbosity.
// Output goes to stderr to keep stdout clean for the compiled schema.
func NewLogger(verbosity VerbosityLevel) *Logger {
	return NewLoggerWithWriter(verbosity, os.Stderr)
}

// NewLoggerWithWriter creates a logger with a custom output writer.
// Primarily used for testing.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	isTTY := IsTTY(w)
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		timings:      make(map[string]time.Duration),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// Progress logs high-level progress such as "compiling route /orders".
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Statistic logs counts and metrics such as "12 routes, 37 raise sites".
func (l *Logger) Statistic(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs fine-grained diagnostics: unresolved names, skipped modules,
// and other cases that should never escalate past debug verbosity.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		elapsed := time.Since(l.startTime)
		fmt.Fprintf(l.writer, "[%s] %s\n", formatDuration(elapsed), fmt.Sprintf(format, args...))
	}
}

// Info logs best-effort skips (unparseable source) — always visible at
// VerbosityDefault and above.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDefault {
		fmt.Fprintf(l.writer, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Warning logs warnings (always shown).
func (l *Logger) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.isTTY {
		fmt.Fprintln(l.writer, color.YellowString("Warning: %s", msg))
		return
	}
	fmt.Fprintf(l.writer, "Warning: %s\n", msg)
}

// Error logs errors (always shown).
func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.isTTY {
		fmt.Fprintln(l.writer, color.RedString("Error: %s", msg))
		return
	}
	fmt.Fprintf(l.writer, "Error: %s\n", msg)
}

// StartTiming begins timing a named operation; call the returned func to stop.
func (l *Logger) StartTiming(name string) func() {
	start := time.Now()
	return func() {
		l.timings[name] = time.Since(start)
	}
}

// GetAllTimings returns all recorded timings.
func (l *Logger) GetAllTimings() map[string]time.Duration {
	result := make(map[string]time.Duration, len(l.timings))
	for k, v := range l.timings {
		result[k] = v
	}
	return result
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// Verbosity returns the current verbosity level.
func (l *Logger) Verbosity() VerbosityLevel { return l.verbosity }

// IsDebug returns true if debug mode is enabled.
func (l *Logger) IsDebug() bool { return l.verbosity >= VerbosityDebug }

// IsTTY returns true if the logger's output is connected to a terminal.
func (l *Logger) IsTTY() bool { return l.isTTY }

// GetWriter returns the logger's output writer.
func (l *Logger) GetWriter() io.Writer { return l.writer }

// StartProgress displays a progress bar over the routes being compiled.
// total < 0 renders an indeterminate spinner.
func (l *Logger) StartProgress(description string, total int) {
	if !l.showProgress || !l.isTTY {
		l.Progress("%s...", description)
		return
	}
	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}
	l.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintf(l.writer, "\n") }),
	)
}

// UpdateProgress increments the progress bar by delta.
func (l *Logger) UpdateProgress(delta int) {
	if !l.showProgress || !l.isTTY || l.progressBar == nil {
		return
	}
	_ = l.progressBar.Add(delta)
}

// FinishProgress completes and clears the progress bar.
func (l *Logger) FinishProgress() {
	if !l.showProgress || !l.isTTY || l.progressBar == nil {
		return
	}
	_ = l.progressBar.Finish()
	l.progressBar = nil
}
