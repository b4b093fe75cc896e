// Package debug provides the process-wide diagnostic logger enabled by --debug.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	out     io.Writer = os.Stderr
	logger            = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, noColor bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "[DEBUG]",
	})
	if noColor {
		l.SetColorProfile(termenv.Ascii)
	}
	return l
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	logger = newLogger(out, noColor)
}

// SetOutput redirects debug output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
	logger = newLogger(out, noColor)
}

func current() (*log.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Debug prints a formatted debug message with timestamp
func Debug(format string, args ...interface{}) {
	l, on := current()
	if !on {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	l, on := current()
	if !on {
		return
	}
	l.Debug(fmt.Sprintf("=== %s ===", section))
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	l, on := current()
	if !on {
		return
	}
	l.Debug(key, "value", value)
}

// Elapsed logs how long an operation took. Use with defer:
//
//	defer debug.Elapsed("[catalog] list", time.Now())
func Elapsed(what string, start time.Time) {
	l, on := current()
	if !on {
		return
	}
	l.Debug(what, "elapsed", time.Since(start).Round(time.Millisecond))
}
