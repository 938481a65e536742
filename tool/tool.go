// Package tool implements the pointer-driven drawing tools.
//
// A tool receives one gesture at a time: Press, any number of Moves, then
// Release. While the gesture runs the tool draws straight into the active
// layer's buffer for live feedback; on Release it submits a single Draw
// command carrying the pre-gesture snapshot and the final pixels. Cancel
// abandons a gesture and restores the snapshot without touching history.
//
// Tools receive their collaborators explicitly: the layer stack, the
// command executor, a BrushConfig and a Palette. Settings implements both
// of the latter.
package tool

import (
	"fmt"
	"image"
	"strings"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/command"
	"github.com/gogpu/canvas/history"
	"github.com/gogpu/canvas/internal/blend"
	"github.com/gogpu/canvas/internal/raster"
)

// Kind identifies a tool.
type Kind int

// Available tools.
const (
	Pencil Kind = iota
	Brush
	Eraser
	Fill
	Eyedropper
	Line
	Rectangle
	Ellipse
)

var kindNames = [...]string{
	Pencil:     "pencil",
	Brush:      "brush",
	Eraser:     "eraser",
	Fill:       "fill",
	Eyedropper: "eyedropper",
	Line:       "line",
	Rectangle:  "rectangle",
	Ellipse:    "ellipse",
}

// Kinds lists every tool kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// String returns the lowercase tool name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind named s (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return Pencil, fmt.Errorf("tool: unknown tool %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Modifiers is the set of keyboard modifiers held during a pointer event.
type Modifiers uint8

// Modifier bits.
const (
	// Shift constrains rectangles and ellipses to squares and circles.
	Shift Modifiers = 1 << iota
)

// Tool is one drawing tool.
type Tool interface {
	Kind() Kind
	Press(pt image.Point, mods Modifiers)
	Move(pt image.Point, mods Modifiers)
	Release(pt image.Point, mods Modifiers)
	// Cancel abandons the gesture in progress, if any, restoring the
	// layer to its pre-gesture pixels. No command is produced.
	Cancel()
	// Active reports whether a gesture is in progress.
	Active() bool
}

// Executor runs commands. *history.Manager implements it.
type Executor interface {
	Execute(c history.Command)
}

// BrushConfig is read by tools when they draw.
type BrushConfig interface {
	BrushWidth() int
	FillTolerance() int
}

// Palette supplies drawing colours and receives picked ones.
type Palette interface {
	PrimaryColor() canvas.RGBA
	SecondaryColor() canvas.RGBA
	SetPrimaryColor(c canvas.RGBA)
}

// gesture is the per-gesture scratch state shared by all drawing tools.
type gesture struct {
	kind  Kind
	stack *canvas.Stack
	exec  Executor

	drawing     bool
	layer       *canvas.Layer
	before      *canvas.Pixmap
	start, last image.Point
}

// begin snapshots the active layer. It returns false when there is no
// active layer to draw on.
func (g *gesture) begin(pt image.Point) bool {
	if g.drawing {
		canvas.Logger().Warn("tool: press during gesture, cancelling previous gesture", "tool", g.kind)
		g.cancel()
	}
	l := g.stack.ActiveLayer()
	if l == nil {
		return false
	}
	g.layer = l
	g.before = l.Pixmap().Clone()
	g.start, g.last = pt, pt
	g.drawing = true
	canvas.Logger().Debug("tool: gesture begin", "tool", g.kind, "at", pt)
	return true
}

// target returns the layer being drawn on, or nil when the gesture is idle
// or the layer has left the stack.
func (g *gesture) target() *canvas.Layer {
	if !g.drawing || g.stack.IndexOfLayer(g.layer) == canvas.NoLayer {
		return nil
	}
	return g.layer
}

// commit ends the gesture and submits a Draw command if pixels changed.
func (g *gesture) commit() {
	if !g.drawing {
		return
	}
	g.drawing = false
	defer g.reset()

	idx := g.stack.IndexOfLayer(g.layer)
	if idx == canvas.NoLayer {
		return
	}
	after := g.layer.Pixmap()
	if after.Equal(g.before) {
		canvas.Logger().Debug("tool: gesture left no change", "tool", g.kind)
		return
	}
	g.exec.Execute(command.NewDraw(g.stack, idx, g.before, after))
	canvas.Logger().Debug("tool: gesture committed", "tool", g.kind, "layer", int(idx))
}

// cancel ends the gesture and restores the snapshot.
func (g *gesture) cancel() {
	if !g.drawing {
		return
	}
	g.drawing = false
	if g.stack.IndexOfLayer(g.layer) != canvas.NoLayer {
		g.layer.SetImage(g.before)
		g.stack.NotifyChanged()
	}
	canvas.Logger().Debug("tool: gesture cancelled", "tool", g.kind)
	g.reset()
}

func (g *gesture) reset() {
	g.layer = nil
	g.before = nil
}

func (g *gesture) Kind() Kind   { return g.kind }
func (g *gesture) Active() bool { return g.drawing }
func (g *gesture) Cancel()      { g.cancel() }

// paint composites c over pm, weighted by m.
func paint(pm *canvas.Pixmap, m *raster.Mask, c canvas.RGBA) {
	r, g, b, a := c.Premul8()
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		row := m.Row(y)
		off := y*pm.Stride() + m.Rect.Min.X*4
		blend.SourceOverMask(pm.Data()[off:off+len(row)*4], r, g, b, a, row)
	}
}

// erase clears pm where m is set.
func erase(pm *canvas.Pixmap, m *raster.Mask) {
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		row := m.Row(y)
		off := y*pm.Stride() + m.Rect.Min.X*4
		blend.DestinationOutMask(pm.Data()[off:off+len(row)*4], row)
	}
}
