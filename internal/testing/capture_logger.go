package testing

import (
	"fmt"
	"strings"
	"sync"
)

// Notice is one line emitted through pgcsv.Logger.
type Notice struct {
	Level   string // verbose, info, success, error
	Message string
}

// CaptureLogger records every notice in order. It implements pgcsv.Logger.
// Thread-safe for concurrent use.
type CaptureLogger struct {
	notices []Notice
	mu      sync.Mutex
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) record(level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: msg})
}

func (c *CaptureLogger) Verbose(format string, args ...interface{}) {
	c.record("verbose", format, args)
}
func (c *CaptureLogger) Info(format string, args ...interface{}) { c.record("info", format, args) }
func (c *CaptureLogger) Success(format string, args ...interface{}) {
	c.record("success", format, args)
}
func (c *CaptureLogger) Error(format string, args ...interface{}) { c.record("error", format, args) }

// Notices returns a copy of all captured notices.
func (c *CaptureLogger) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Notice, len(c.notices))
	copy(result, c.notices)
	return result
}

// Messages returns the non-verbose messages in order, which is what a user
// sees without -v.
func (c *CaptureLogger) Messages() []string {
	var out []string
	for _, n := range c.Notices() {
		if n.Level != "verbose" {
			out = append(out, n.Message)
		}
	}
	return out
}

// MessagesWithPrefix returns the non-verbose messages starting with prefix.
func (c *CaptureLogger) MessagesWithPrefix(prefix string) []string {
	var out []string
	for _, m := range c.Messages() {
		if strings.HasPrefix(m, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// Errors returns the error-level messages.
func (c *CaptureLogger) Errors() []string {
	var out []string
	for _, n := range c.Notices() {
		if n.Level == "error" {
			out = append(out, n.Message)
		}
	}
	return out
}

// Reset discards captured notices.
func (c *CaptureLogger) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}
