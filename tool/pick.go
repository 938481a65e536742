package tool

import (
	"image"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/fill"
)

// FillTool flood-fills the clicked region with the primary colour. The
// fill happens on Press; Release records it.
type FillTool struct {
	gesture
	cfg     BrushConfig
	palette Palette
}

// NewFill creates a fill tool.
func NewFill(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *FillTool {
	return &FillTool{
		gesture: gesture{kind: Fill, stack: st, exec: exec},
		cfg:     cfg,
		palette: pal,
	}
}

func (t *FillTool) Press(pt image.Point, _ Modifiers) {
	if !t.begin(pt) {
		return
	}
	if fill.Flood(t.layer.Pixmap(), pt, t.palette.PrimaryColor(), t.cfg.FillTolerance()) > 0 {
		t.stack.NotifyChanged()
	}
}

func (t *FillTool) Move(image.Point, Modifiers) {}

func (t *FillTool) Release(image.Point, Modifiers) {
	t.commit()
}

// EyedropperTool copies the colour under the pointer on the active layer
// into the primary colour. It never changes pixels or history.
type EyedropperTool struct {
	stack   *canvas.Stack
	palette Palette
}

// NewEyedropper creates an eyedropper.
func NewEyedropper(st *canvas.Stack, pal Palette) *EyedropperTool {
	return &EyedropperTool{stack: st, palette: pal}
}

func (t *EyedropperTool) Kind() Kind { return Eyedropper }

func (t *EyedropperTool) Press(pt image.Point, _ Modifiers) {
	l := t.stack.ActiveLayer()
	if l == nil || !pt.In(l.Pixmap().Bounds()) {
		return
	}
	t.palette.SetPrimaryColor(l.Pixmap().GetPixel(pt.X, pt.Y))
}

func (t *EyedropperTool) Move(image.Point, Modifiers)    {}
func (t *EyedropperTool) Release(image.Point, Modifiers) {}
func (t *EyedropperTool) Cancel()                        {}
func (t *EyedropperTool) Active() bool                   { return false }
