package tool

import (
	"image"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/raster"
)

// ConstrainRect returns the rectangle with corner pixels a and b, both
// inclusive, as a canonical image.Rectangle whose Max is the far corner
// pixel. With square set, the longer side is shrunk to the shorter one;
// the corner at a stays put and the opposite corner moves towards it.
func ConstrainRect(a, b image.Point, square bool) image.Rectangle {
	if square {
		d := b.Sub(a)
		s := min(abs(d.X), abs(d.Y))
		if abs(d.X) > s {
			b.X = a.X + sign(d.X)*s
		}
		if abs(d.Y) > s {
			b.Y = a.Y + sign(d.Y)*s
		}
	}
	return image.Rectangle{Min: a, Max: b}.Canon()
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

// shape is the common shape of the Line, Rectangle and Ellipse tools:
// every update re-renders from a fresh copy of the pre-gesture snapshot so
// only the current shape is visible.
type shape struct {
	gesture
	render func(pm *canvas.Pixmap, from, to image.Point, mods Modifiers)
}

func (s *shape) Press(pt image.Point, _ Modifiers) {
	s.begin(pt)
}

func (s *shape) Move(pt image.Point, mods Modifiers) {
	s.update(pt, mods)
}

func (s *shape) Release(pt image.Point, mods Modifiers) {
	s.update(pt, mods)
	s.commit()
}

func (s *shape) update(pt image.Point, mods Modifiers) {
	l := s.target()
	if l == nil {
		return
	}
	pm := s.before.Clone()
	s.render(pm, s.start, pt, mods)
	l.SetImage(pm)
	s.last = pt
	s.stack.NotifyChanged()
}

// LineTool draws one anti-aliased, round-capped line in the primary colour.
type LineTool struct {
	shape
}

// NewLine creates a line tool.
func NewLine(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *LineTool {
	t := &LineTool{}
	t.shape = shape{gesture: gesture{kind: Line, stack: st, exec: exec}}
	t.render = func(pm *canvas.Pixmap, from, to image.Point, _ Modifiers) {
		m := raster.Capsule(from, to, float64(cfg.BrushWidth()), pm.Bounds())
		paint(pm, m, pal.PrimaryColor())
	}
	return t
}

// RectTool draws a rectangle filled with the primary colour and outlined
// with the secondary colour at the brush width. The outline lies inside
// the dragged bounds rather than centred on them.
type RectTool struct {
	shape
}

// NewRect creates a rectangle tool.
func NewRect(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *RectTool {
	t := &RectTool{}
	t.shape = shape{gesture: gesture{kind: Rectangle, stack: st, exec: exec}}
	t.render = func(pm *canvas.Pixmap, from, to image.Point, mods Modifiers) {
		r := ConstrainRect(from, to, mods&Shift != 0)
		paint(pm, raster.Rect(r, pm.Bounds()), pal.PrimaryColor())
		paint(pm, raster.RectOutline(r, float64(cfg.BrushWidth()), pm.Bounds()), pal.SecondaryColor())
	}
	return t
}

// EllipseTool draws an ellipse inscribed in the dragged rectangle, filled
// with the primary colour and outlined with the secondary colour. As with
// RectTool the outline stays inside the bounds.
type EllipseTool struct {
	shape
}

// NewEllipse creates an ellipse tool.
func NewEllipse(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *EllipseTool {
	t := &EllipseTool{}
	t.shape = shape{gesture: gesture{kind: Ellipse, stack: st, exec: exec}}
	t.render = func(pm *canvas.Pixmap, from, to image.Point, mods Modifiers) {
		r := ConstrainRect(from, to, mods&Shift != 0)
		paint(pm, raster.Ellipse(r, pm.Bounds()), pal.PrimaryColor())
		paint(pm, raster.EllipseOutline(r, float64(cfg.BrushWidth()), pm.Bounds()), pal.SecondaryColor())
	}
	return t
}
