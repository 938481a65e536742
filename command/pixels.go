package command

import (
	"fmt"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/history"
)

var (
	_ history.Command = (*Draw)(nil)
	_ history.Command = (*MergeWithNext)(nil)
)

// Draw swaps a layer's buffer between before and after snapshots.
// Tools have usually applied the stroke already, so Do installing after is
// a no-op visually. The snapshots are private: every application installs
// a fresh clone so later drawing into the live buffer cannot alter them.
type Draw struct {
	stack  *canvas.Stack
	index  canvas.StackIndex
	before *canvas.Pixmap
	after  *canvas.Pixmap
}

// NewDraw returns a command for a finished stroke on the layer at i.
// before and after are cloned.
func NewDraw(st *canvas.Stack, i canvas.StackIndex, before, after *canvas.Pixmap) *Draw {
	return &Draw{stack: st, index: i, before: before.Clone(), after: after.Clone()}
}

func (c *Draw) Do()   { c.apply(c.after) }
func (c *Draw) Undo() { c.apply(c.before) }
func (c *Draw) Redo() { c.apply(c.after) }

func (c *Draw) apply(pm *canvas.Pixmap) {
	l := c.stack.Layer(c.index)
	if l == nil {
		canvas.Logger().Debug("command: draw target missing", "index", int(c.index))
		return
	}
	l.SetImage(pm.Clone())
	c.stack.NotifyChanged()
}

func (c *Draw) String() string { return fmt.Sprintf("Draw(%d)", c.index) }

// MergeWithNext composites the layer directly above index onto the layer
// at index, respecting the upper layer's opacity and visibility, and then
// removes the upper layer. The merged layer becomes active.
type MergeWithNext struct {
	stack *canvas.Stack
	index canvas.StackIndex

	lower, upper *canvas.Layer
	lowerBackup  *canvas.Pixmap
	merged       *canvas.Pixmap
	prevActive   *canvas.Layer
}

// NewMergeWithNext returns a command that merges layer i+1 down into i.
func NewMergeWithNext(st *canvas.Stack, i canvas.StackIndex) *MergeWithNext {
	return &MergeWithNext{stack: st, index: i}
}

func (c *MergeWithNext) Do() {
	lower, upper := c.stack.Layer(c.index), c.stack.Layer(c.index+1)
	if lower == nil || upper == nil {
		canvas.Logger().Debug("command: merge needs a layer above", "index", int(c.index))
		return
	}
	c.lower, c.upper = lower, upper
	c.prevActive = c.stack.ActiveLayer()
	c.lowerBackup = lower.Pixmap().Clone()

	merged := lower.Pixmap().Clone()
	upper.Paint(merged, merged.Bounds())
	c.merged = merged
	c.apply()
}

func (c *MergeWithNext) Undo() {
	if c.lower == nil {
		return
	}
	c.lower.SetImage(c.lowerBackup.Clone())
	c.stack.InsertLayer(c.index+1, c.upper)
	if i := c.stack.IndexOfLayer(c.prevActive); i != canvas.NoLayer {
		c.stack.SetActiveLayer(i)
	}
	c.stack.NotifyChanged()
}

func (c *MergeWithNext) Redo() {
	if c.lower == nil {
		return
	}
	c.prevActive = c.stack.ActiveLayer()
	c.apply()
}

func (c *MergeWithNext) apply() {
	c.lower.SetImage(c.merged.Clone())
	c.stack.RemoveLayer(c.stack.IndexOfLayer(c.upper))
	c.stack.SetActiveLayer(c.stack.IndexOfLayer(c.lower))
	c.stack.NotifyChanged()
}

func (c *MergeWithNext) String() string { return fmt.Sprintf("MergeWithNext(%d)", c.index) }
