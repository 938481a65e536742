package command

import (
	"fmt"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/history"
)

var (
	_ history.Command = (*Rename)(nil)
	_ history.Command = (*ToggleVisibility)(nil)
	_ history.Command = (*ChangeOpacity)(nil)
)

// Rename changes a layer's name. The previous name is captured at Do.
type Rename struct {
	stack   *canvas.Stack
	index   canvas.StackIndex
	newName string
	oldName string
}

// NewRename returns a command that renames the layer at i.
func NewRename(st *canvas.Stack, i canvas.StackIndex, name string) *Rename {
	return &Rename{stack: st, index: i, newName: name}
}

func (c *Rename) Do() {
	l := c.stack.Layer(c.index)
	if l == nil {
		return
	}
	c.oldName = l.Name()
	c.set(c.newName)
}

func (c *Rename) Undo() { c.set(c.oldName) }
func (c *Rename) Redo() { c.set(c.newName) }

func (c *Rename) set(name string) {
	if l := c.stack.Layer(c.index); l != nil {
		l.SetName(name)
		c.stack.NotifyChanged()
	}
}

func (c *Rename) String() string { return fmt.Sprintf("Rename(%d, %q)", c.index, c.newName) }

// ToggleVisibility flips a layer's visibility.
type ToggleVisibility struct {
	stack *canvas.Stack
	index canvas.StackIndex
	old   bool
}

// NewToggleVisibility returns a command that shows or hides the layer at i.
func NewToggleVisibility(st *canvas.Stack, i canvas.StackIndex) *ToggleVisibility {
	return &ToggleVisibility{stack: st, index: i}
}

func (c *ToggleVisibility) Do() {
	l := c.stack.Layer(c.index)
	if l == nil {
		return
	}
	c.old = l.Visible()
	c.set(!c.old)
}

func (c *ToggleVisibility) Undo() { c.set(c.old) }
func (c *ToggleVisibility) Redo() { c.set(!c.old) }

func (c *ToggleVisibility) set(v bool) {
	if l := c.stack.Layer(c.index); l != nil {
		l.SetVisible(v)
		c.stack.NotifyChanged()
	}
}

func (c *ToggleVisibility) String() string { return fmt.Sprintf("ToggleVisibility(%d)", c.index) }

// ChangeOpacity sets a layer's opacity. Both values are supplied by the
// caller because an interactive slider has already moved the live value
// by the time the command is built.
type ChangeOpacity struct {
	stack    *canvas.Stack
	index    canvas.StackIndex
	from, to float64
}

// NewChangeOpacity returns a command that changes the opacity of the layer
// at i from one value to another.
func NewChangeOpacity(st *canvas.Stack, i canvas.StackIndex, from, to float64) *ChangeOpacity {
	return &ChangeOpacity{stack: st, index: i, from: from, to: to}
}

func (c *ChangeOpacity) Do()   { c.set(c.to) }
func (c *ChangeOpacity) Undo() { c.set(c.from) }
func (c *ChangeOpacity) Redo() { c.set(c.to) }

func (c *ChangeOpacity) set(v float64) {
	if l := c.stack.Layer(c.index); l != nil {
		l.SetOpacity(v)
		c.stack.NotifyChanged()
	}
}

func (c *ChangeOpacity) String() string {
	return fmt.Sprintf("ChangeOpacity(%d, %.3f→%.3f)", c.index, c.from, c.to)
}
