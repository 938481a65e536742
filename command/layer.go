package command

import (
	"fmt"
	"image"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/history"
)

var (
	_ history.Command = (*AddLayer)(nil)
	_ history.Command = (*DeleteLayer)(nil)
	_ history.Command = (*MoveLayer)(nil)
	_ history.Command = (*DuplicateLayer)(nil)
)

// AddLayer appends a new transparent layer and makes it active.
type AddLayer struct {
	stack *canvas.Stack
	size  image.Point
	name  string

	layer      *canvas.Layer
	index      canvas.StackIndex
	prevActive *canvas.Layer
}

// NewAddLayer returns a command that adds a layer of the given size.
func NewAddLayer(st *canvas.Stack, size image.Point, name string) *AddLayer {
	return &AddLayer{stack: st, size: size, name: name, index: canvas.NoLayer}
}

// Layer returns the created layer, or nil before Do.
func (c *AddLayer) Layer() *canvas.Layer { return c.layer }

func (c *AddLayer) Do() {
	c.prevActive = c.stack.ActiveLayer()
	c.layer = c.stack.CreateNewLayer(c.size, c.name)
	c.index = c.stack.IndexOfLayer(c.layer)
	c.stack.SetActiveLayer(c.index)
}

func (c *AddLayer) Undo() {
	if c.layer == nil {
		return
	}
	c.stack.RemoveLayer(c.stack.IndexOfLayer(c.layer))
	if i := c.stack.IndexOfLayer(c.prevActive); i != canvas.NoLayer {
		c.stack.SetActiveLayer(i)
	}
}

func (c *AddLayer) Redo() {
	if c.layer == nil {
		return
	}
	c.prevActive = c.stack.ActiveLayer()
	c.stack.InsertLayer(c.index, c.layer)
	c.stack.SetActiveLayer(c.index)
}

func (c *AddLayer) String() string { return fmt.Sprintf("AddLayer(%q)", c.name) }

// DeleteLayer removes the layer at an index. The removed layer stays owned
// by the command until it is reinserted by Undo.
type DeleteLayer struct {
	stack *canvas.Stack
	index canvas.StackIndex

	layer     *canvas.Layer
	wasActive bool
}

// NewDeleteLayer returns a command that deletes the layer at i.
func NewDeleteLayer(st *canvas.Stack, i canvas.StackIndex) *DeleteLayer {
	return &DeleteLayer{stack: st, index: i}
}

func (c *DeleteLayer) Do() {
	l := c.stack.Layer(c.index)
	if l == nil {
		canvas.Logger().Debug("command: delete of missing layer", "index", int(c.index))
		return
	}
	c.layer = l
	c.wasActive = c.stack.ActiveLayer() == l
	c.stack.RemoveLayer(c.index)
}

func (c *DeleteLayer) Undo() {
	if c.layer == nil {
		return
	}
	c.stack.InsertLayer(c.index, c.layer)
	if c.wasActive {
		c.stack.SetActiveLayer(c.index)
	}
}

func (c *DeleteLayer) Redo() {
	if c.layer == nil {
		return
	}
	c.stack.RemoveLayer(c.stack.IndexOfLayer(c.layer))
}

func (c *DeleteLayer) String() string { return fmt.Sprintf("DeleteLayer(%d)", c.index) }

// MoveLayer moves a layer from one storage index to another.
type MoveLayer struct {
	stack    *canvas.Stack
	from, to canvas.StackIndex
}

// NewMoveLayer returns a command that moves the layer at from to to.
func NewMoveLayer(st *canvas.Stack, from, to canvas.StackIndex) *MoveLayer {
	return &MoveLayer{stack: st, from: from, to: to}
}

func (c *MoveLayer) Do()   { c.stack.MoveLayer(c.from, c.to) }
func (c *MoveLayer) Undo() { c.stack.MoveLayer(c.to, c.from) }
func (c *MoveLayer) Redo() { c.Do() }

func (c *MoveLayer) String() string { return fmt.Sprintf("MoveLayer(%d→%d)", c.from, c.to) }

// DuplicateLayer appends a copy of a layer at the top of the stack.
// Redo reinserts the very same copy.
type DuplicateLayer struct {
	stack *canvas.Stack
	index canvas.StackIndex

	dup      *canvas.Layer
	dupIndex canvas.StackIndex
}

// NewDuplicateLayer returns a command that duplicates the layer at i.
func NewDuplicateLayer(st *canvas.Stack, i canvas.StackIndex) *DuplicateLayer {
	return &DuplicateLayer{stack: st, index: i, dupIndex: canvas.NoLayer}
}

// Layer returns the copy, or nil before Do.
func (c *DuplicateLayer) Layer() *canvas.Layer { return c.dup }

func (c *DuplicateLayer) Do() {
	c.dup = c.stack.DuplicateLayer(c.index)
	c.dupIndex = c.stack.IndexOfLayer(c.dup)
}

func (c *DuplicateLayer) Undo() {
	if c.dup == nil {
		return
	}
	c.stack.RemoveLayer(c.stack.IndexOfLayer(c.dup))
}

func (c *DuplicateLayer) Redo() {
	if c.dup == nil {
		return
	}
	c.stack.InsertLayer(c.dupIndex, c.dup)
}

func (c *DuplicateLayer) String() string { return fmt.Sprintf("DuplicateLayer(%d)", c.index) }
