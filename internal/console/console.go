// Package console is the message surface of the panel. Every report is logged
// and kept as a line the overlay can show; errors pop the console open.
package console

import (
	"log/slog"
	"sync"
)

// DefaultMaxLines bounds the history when New is given a non-positive limit.
const DefaultMaxLines = 64

// Line is one reported message.
type Line struct {
	Text    string
	IsError bool
}

// Console keeps the most recent messages. It is safe for concurrent use; the
// headless runner reports from the loop goroutine while main reads.
type Console struct {
	logger *slog.Logger

	mu       sync.Mutex
	lines    []Line
	maxLines int
	open     bool
	errors   int
}

// New builds a closed console. A nil logger discards log output.
func New(logger *slog.Logger, maxLines int) *Console {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Console{logger: logger, maxLines: maxLines}
}

// Report appends a message. Error messages open the console.
func (c *Console) Report(text string, isError bool) {
	if isError {
		c.logger.Error(text)
	} else {
		c.logger.Info(text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, Line{Text: text, IsError: isError})
	if over := len(c.lines) - c.maxLines; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	if isError {
		c.errors++
		c.open = true
	}
}

// Lines returns a copy of the retained messages, oldest first.
func (c *Console) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Last returns the newest message.
func (c *Console) Last() (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return Line{}, false
	}
	return c.lines[len(c.lines)-1], true
}

// Errors counts the error messages reported so far, including dropped ones.
func (c *Console) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Open reports whether the console is shown.
func (c *Console) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetOpen shows or hides the console.
func (c *Console) SetOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

// Toggle flips visibility and returns the new state.
func (c *Console) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

// Clear drops every retained line and closes the console.
func (c *Console) Clear() {
	c.mu.Lock()
	c.lines = c.lines[:0]
	c.open = false
	c.mu.Unlock()
}
