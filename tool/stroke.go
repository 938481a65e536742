package tool

import (
	"image"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/raster"
)

// hardEdge is the coverage level at which aliased strokes switch a pixel on.
const hardEdge = 128

// freehand is the common shape of the stroke tools: every Move draws a
// segment from the previous position to the new one.
type freehand struct {
	gesture
	cfg     BrushConfig
	segment func(pm *canvas.Pixmap, from, to image.Point)
}

func (f *freehand) Press(pt image.Point, _ Modifiers) {
	f.begin(pt)
}

func (f *freehand) Move(pt image.Point, _ Modifiers) {
	l := f.target()
	if l == nil {
		return
	}
	f.segment(l.Pixmap(), f.last, pt)
	f.last = pt
	f.stack.NotifyChanged()
}

func (f *freehand) Release(image.Point, Modifiers) {
	f.commit()
}

// PencilTool draws hard-edged, round-capped lines in the primary colour.
type PencilTool struct {
	freehand
	palette Palette
}

// NewPencil creates a pencil.
func NewPencil(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *PencilTool {
	t := &PencilTool{palette: pal}
	t.freehand = freehand{gesture: gesture{kind: Pencil, stack: st, exec: exec}, cfg: cfg}
	t.segment = func(pm *canvas.Pixmap, from, to image.Point) {
		m := raster.Capsule(from, to, float64(t.cfg.BrushWidth()), pm.Bounds())
		m.Threshold(hardEdge)
		paint(pm, m, t.palette.PrimaryColor())
	}
	return t
}

// EraserTool has the pencil's geometry but makes pixels transparent.
type EraserTool struct {
	freehand
}

// NewEraser creates an eraser.
func NewEraser(st *canvas.Stack, exec Executor, cfg BrushConfig) *EraserTool {
	t := &EraserTool{}
	t.freehand = freehand{gesture: gesture{kind: Eraser, stack: st, exec: exec}, cfg: cfg}
	t.segment = func(pm *canvas.Pixmap, from, to image.Point) {
		m := raster.Capsule(from, to, float64(t.cfg.BrushWidth()), pm.Bounds())
		m.Threshold(hardEdge)
		erase(pm, m)
	}
	return t
}

// BrushTool stamps soft round dabs along the pointer path. The number of
// dabs per segment is a quarter of the Manhattan distance travelled, at
// least one, counting both ends.
type BrushTool struct {
	freehand
	palette Palette
}

// NewBrush creates a soft brush.
func NewBrush(st *canvas.Stack, exec Executor, cfg BrushConfig, pal Palette) *BrushTool {
	t := &BrushTool{palette: pal}
	t.freehand = freehand{gesture: gesture{kind: Brush, stack: st, exec: exec}, cfg: cfg}
	t.segment = t.dabs
	return t
}

// BrushSteps returns the number of interpolation intervals between two
// pointer positions.
func BrushSteps(from, to image.Point) int {
	d := to.Sub(from)
	manhattan := abs(d.X) + abs(d.Y)
	return max(1, manhattan/4)
}

func (t *BrushTool) dabs(pm *canvas.Pixmap, from, to image.Point) {
	radius := float64(t.cfg.BrushWidth()) / 2
	c := t.palette.PrimaryColor()
	steps := BrushSteps(from, to)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := float64(from.X)*(1-f) + float64(to.X)*f
		y := float64(from.Y)*(1-f) + float64(to.Y)*f
		paint(pm, raster.Dab(x, y, radius, pm.Bounds()), c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
