package tool

import (
	"image"

	"github.com/gogpu/canvas"
)

// Controller owns one instance of every tool and routes pointer events to
// the selected one.
type Controller struct {
	tools    map[Kind]Tool
	settings *Settings
}

// NewController creates all tools for st, drawing with the values in
// settings and submitting commands to exec. The initially selected tool
// is settings.Tool; settings is repaired with Validate first.
func NewController(st *canvas.Stack, exec Executor, settings *Settings) *Controller {
	settings.Validate()
	return &Controller{
		settings: settings,
		tools: map[Kind]Tool{
			Pencil:     NewPencil(st, exec, settings, settings),
			Brush:      NewBrush(st, exec, settings, settings),
			Eraser:     NewEraser(st, exec, settings),
			Fill:       NewFill(st, exec, settings, settings),
			Eyedropper: NewEyedropper(st, settings),
			Line:       NewLine(st, exec, settings, settings),
			Rectangle:  NewRect(st, exec, settings, settings),
			Ellipse:    NewEllipse(st, exec, settings, settings),
		},
	}
}

// Selected returns the kind of the current tool.
func (c *Controller) Selected() Kind { return c.Current().Kind() }

// Current returns the selected tool. An unknown settings.Tool, set after
// construction, falls back to the pencil.
func (c *Controller) Current() Tool {
	if t, ok := c.tools[c.settings.Tool]; ok {
		return t
	}
	return c.tools[Pencil]
}

// Tool returns the instance for k, or nil for an unknown kind.
func (c *Controller) Tool(k Kind) Tool { return c.tools[k] }

// Select switches to k. A gesture in progress on the old tool is cancelled
// first. Unknown kinds are ignored.
func (c *Controller) Select(k Kind) {
	if _, ok := c.tools[k]; !ok || k == c.Selected() {
		return
	}
	if cur := c.Current(); cur.Active() {
		canvas.Logger().Debug("tool: switching mid-gesture, cancelling", "from", cur.Kind(), "to", k)
		cur.Cancel()
	}
	c.settings.Tool = k
}

// Press forwards to the selected tool.
func (c *Controller) Press(pt image.Point, mods Modifiers) { c.Current().Press(pt, mods) }

// Move forwards to the selected tool.
func (c *Controller) Move(pt image.Point, mods Modifiers) { c.Current().Move(pt, mods) }

// Release forwards to the selected tool.
func (c *Controller) Release(pt image.Point, mods Modifiers) { c.Current().Release(pt, mods) }

// Cancel abandons the selected tool's gesture, if any.
func (c *Controller) Cancel() { c.Current().Cancel() }

// Active reports whether the selected tool is mid-gesture.
func (c *Controller) Active() bool { return c.Current().Active() }
