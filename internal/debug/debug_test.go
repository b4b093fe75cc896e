package debug

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetNoColor(true)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetDebug(false)
		SetOutput(nil)
	})
	return &buf
}

func TestSetDebug(t *testing.T) {
	SetDebug(false)
	assert.False(t, IsEnabled())

	SetDebug(true)
	assert.True(t, IsEnabled())

	SetDebug(false)
	assert.False(t, IsEnabled())
}

func TestDebugOutput(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	Debug("test message %s", "arg")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "test message arg")
}

func TestDebugDisabled(t *testing.T) {
	buf := capture(t)
	SetDebug(false)

	Debug("this should not appear")
	DebugSection("nor this")
	DebugValue("key", 1)

	assert.Empty(t, buf.String())
}

func TestDebugSectionAndValue(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	DebugSection("fetch")
	DebugValue("[app] Destination", "/tmp/x")
	Elapsed("[catalog] list", time.Now())

	out := buf.String()
	assert.Contains(t, out, "=== fetch ===")
	assert.Contains(t, out, "[app] Destination")
	assert.Contains(t, out, "/tmp/x")
	assert.Contains(t, out, "elapsed")
}
