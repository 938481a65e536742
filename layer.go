package canvas

import (
	"image"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/gogpu/canvas/internal/blend"
)

// DefaultLayerName is used when a layer is created without a name.
const DefaultLayerName = "Layer"

// Layer is one pixel buffer plus the metadata that controls how it takes
// part in composition: name, visibility and opacity.
//
// A Layer is owned by exactly one Stack while it is part of it. Commands
// that remove a layer keep the detached *Layer and hand the same value back
// on undo, so a layer's ID survives delete/undo round trips.
//
// Thread safety: Layer is not safe for concurrent access.
type Layer struct {
	id      uuid.UUID
	name    string
	visible bool
	opacity float64
	pixmap  *Pixmap
}

// NewLayer creates a visible, fully opaque layer with a transparent buffer.
func NewLayer(size image.Point, name string) *Layer {
	return NewLayerFromPixmap(NewPixmap(size.X, size.Y), name)
}

// NewLayerFromPixmap creates a layer that takes ownership of pm.
func NewLayerFromPixmap(pm *Pixmap, name string) *Layer {
	if name == "" {
		name = DefaultLayerName
	}
	if pm == nil {
		pm = NewPixmap(0, 0)
	}
	return &Layer{
		id:      uuid.New(),
		name:    name,
		visible: true,
		opacity: 1,
		pixmap:  pm,
	}
}

// ID returns the identity of the layer. It never changes.
func (l *Layer) ID() uuid.UUID { return l.id }

// Name returns the display name.
func (l *Layer) Name() string { return l.name }

// SetName sets the display name.
func (l *Layer) SetName(name string) { l.name = name }

// Visible reports whether the layer takes part in composition.
func (l *Layer) Visible() bool { return l.visible }

// SetVisible shows or hides the layer.
func (l *Layer) SetVisible(v bool) { l.visible = v }

// Opacity returns the layer's opacity (0.0 to 1.0).
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity sets the layer's opacity, clamped to [0.0, 1.0].
func (l *Layer) SetOpacity(opacity float64) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	l.opacity = opacity
}

// Pixmap returns the live pixel buffer. Tools draw into it directly.
func (l *Layer) Pixmap() *Pixmap { return l.pixmap }

// Size returns the buffer dimensions.
func (l *Layer) Size() image.Point { return l.pixmap.Size() }

// SetImage replaces the whole buffer. Dimensions are not checked against
// the previous buffer; keeping a consistent canvas size is up to the caller.
func (l *Layer) SetImage(pm *Pixmap) {
	if pm == nil {
		return
	}
	l.pixmap = pm
}

// Clone returns a deep copy with a fresh ID.
func (l *Layer) Clone() *Layer {
	return &Layer{
		id:      uuid.New(),
		name:    l.name,
		visible: l.visible,
		opacity: l.opacity,
		pixmap:  l.pixmap.Clone(),
	}
}

// Paint blends the layer into dst inside destRect using source-over and
// the layer's opacity. Hidden layers and layers with zero opacity paint
// nothing. If the buffer size differs from destRect the buffer is scaled
// to fit.
func (l *Layer) Paint(dst *Pixmap, destRect image.Rectangle) {
	if !l.visible || l.opacity <= 0 {
		return
	}
	r := destRect.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	src := l.pixmap
	if src.Size() != destRect.Size() {
		scaled := NewPixmap(destRect.Dx(), destRect.Dy())
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
		src = scaled
	}

	opacity := byte(255)
	if l.opacity < 1 {
		opacity = blend.Opacity(l.opacity)
	}

	sx := r.Min.X - destRect.Min.X
	sy := r.Min.Y - destRect.Min.Y
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		di := (r.Min.Y+y)*dst.Stride() + r.Min.X*4
		si := (sy+y)*src.Stride() + sx*4
		blend.SourceOver(dst.data[di:di+n], src.data[si:si+n], opacity)
	}
}

// Thumbnail renders the buffer scaled to fit inside w×h, preserving the
// aspect ratio. Opacity and visibility are not applied.
func (l *Layer) Thumbnail(w, h int) *image.RGBA {
	sw, sh := l.pixmap.Width(), l.pixmap.Height()
	if w <= 0 || h <= 0 || sw == 0 || sh == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	tw, th := w, sh*w/sw
	if th > h {
		tw, th = sw*h/sh, h
	}
	tw, th = max(tw, 1), max(th, 1)

	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), l.pixmap, l.pixmap.Bounds(), draw.Src, nil)
	return thumb
}
