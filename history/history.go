// Package history implements a bounded undo/redo engine for reified edit
// operations.
//
// A Manager applies commands as they are executed and keeps them on an
// undo stack. Executing a new command discards everything that was undone
// before it; there is no redo tree. When the undo stack grows past its
// bound the oldest entries are dropped without being undone.
package history

import (
	"fmt"

	"github.com/gogpu/canvas"
)

// DefaultMaxDepth is the undo bound used when none is configured.
const DefaultMaxDepth = 20

// Command is an invertible edit.
//
// Do performs the edit the first time. Undo reverts it. Redo re-applies it
// after an Undo; it must reuse whatever Do captured rather than recompute
// state that was only knowable at Do time.
type Command interface {
	Do()
	Undo()
	Redo()
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	maxDepth int
}

func defaultOptions() options {
	return options{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the undo bound. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxDepth = n
		}
	}
}

// Manager owns the undo and redo stacks of one document.
// Both stacks are ordered most-recent-last.
type Manager struct {
	undo     []Command
	redo     []Command
	maxDepth int
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{maxDepth: o.maxDepth}
}

// MaxDepth returns the undo bound.
func (m *Manager) MaxDepth() int { return m.maxDepth }

// Execute runs c.Do, records it for undo and clears the redo stack.
// If the undo stack exceeds the bound the oldest entries are evicted.
func (m *Manager) Execute(c Command) {
	if c == nil {
		return
	}
	c.Do()
	m.undo = append(m.undo, c)
	clear(m.redo)
	m.redo = m.redo[:0]

	if over := len(m.undo) - m.maxDepth; over > 0 {
		clear(m.undo[:over])
		m.undo = append(m.undo[:0], m.undo[over:]...)
		canvas.Logger().Debug("history: evicted oldest commands", "count", over)
	}
	canvas.Logger().Debug("history: executed", "command", name(c), "undo", len(m.undo))
}

// Undo reverts the most recent command. It returns false if there is
// nothing to undo.
func (m *Manager) Undo() bool {
	n := len(m.undo)
	if n == 0 {
		return false
	}
	c := m.undo[n-1]
	m.undo[n-1] = nil
	m.undo = m.undo[:n-1]

	c.Undo()
	m.redo = append(m.redo, c)
	canvas.Logger().Debug("history: undo", "command", name(c))
	return true
}

// Redo re-applies the most recently undone command. It returns false if
// there is nothing to redo.
func (m *Manager) Redo() bool {
	n := len(m.redo)
	if n == 0 {
		return false
	}
	c := m.redo[n-1]
	m.redo[n-1] = nil
	m.redo = m.redo[:n-1]

	c.Redo()
	m.undo = append(m.undo, c)
	canvas.Logger().Debug("history: redo", "command", name(c))
	return true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoLen returns the number of undoable commands.
func (m *Manager) UndoLen() int { return len(m.undo) }

// RedoLen returns the number of redoable commands.
func (m *Manager) RedoLen() int { return len(m.redo) }

// Clear empties both stacks without calling any command.
func (m *Manager) Clear() {
	clear(m.undo)
	clear(m.redo)
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
}

func name(c Command) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}
