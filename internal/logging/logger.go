// Package logging provides structured, colorful logging for gfnprobe.
//
// Every log line goes to the diagnostic channel (stderr by default). The result
// channel is reserved for banner, usage and candidate results, so a managed run
// can capture results without log noise mixed in. Levels are color-coded with
// lipgloss: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green).
//
// Third-party libraries that expect an io.Writer (gin) or a printf logger (resty)
// are bridged through NewLevelWriter and RestyLogger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	logger = newLogger(os.Stderr)

	// Current destination, kept so Success can build its styled logger on it
	currentOutput io.Writer = os.Stderr

	// Set once a command has explicitly configured logging
	cliConfigured = false
)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// setupCustomStyles creates the per-level colors. Chosen to stay readable on
// both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// Info logs progress of the run (device chosen, mode selected, timings).
func Info(format string, v ...any) {
	logger.Info(fmt.Sprintf(format, v...))
}

// Warn logs conditions the operator should notice but that do not fail the run.
func Warn(format string, v ...any) {
	logger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures.
func Error(format string, v ...any) {
	logger.Error(fmt.Sprintf(format, v...))
}

// Debug logs detailed tracing for troubleshooting.
func Debug(format string, v ...any) {
	logger.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed step in green. It is an INFO message with a
// SUCCESS label, so it is filtered exactly like Info.
func Success(format string, v ...any) {
	if logger.GetLevel() > log.InfoLevel {
		return
	}

	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	tmp := log.NewWithOptions(currentOutput, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tmp.SetStyles(styles)
	tmp.Info(fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum level. Unknown strings fall back to INFO.
func SetLevel(level string) {
	logger.SetLevel(parseLevel(level))
}

// GetLevel returns the current minimum level as one of the ValidLogLevels keys.
func GetLevel() string {
	switch logger.GetLevel() {
	case log.DebugLevel:
		return "DEBUG"
	case log.WarnLevel:
		return "WARN"
	case log.ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetOutput redirects all log output to w while keeping the current level.
// A nil writer suppresses output entirely.
func SetOutput(w io.Writer) {
	level := logger.GetLevel()
	if w == nil {
		logger = newLogger(io.Discard)
		logger.SetLevel(log.FatalLevel + 1)
		currentOutput = io.Discard
		return
	}
	logger = newLogger(w)
	logger.SetLevel(level)
	currentOutput = w
	cliConfigured = true
}

// IsConfiguredByCLI returns true once a command has configured logging.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// LevelWriter forwards each written line to a fixed log level with an optional prefix.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write splits p into lines and logs each non-empty one.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RestyLogger implements resty.Logger and routes client logs through this package.
type RestyLogger struct{}

// Errorf routes resty errors.
func (RestyLogger) Errorf(format string, v ...any) {
	Error(format, v...)
}

// Warnf routes resty warnings.
func (RestyLogger) Warnf(format string, v ...any) {
	Warn(format, v...)
}

// Debugf routes resty debug output.
func (RestyLogger) Debugf(format string, v ...any) {
	Debug(format, v...)
}

// RedirectStandardLog sends the standard library logger to w. nil discards it.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
