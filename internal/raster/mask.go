// Package raster produces 8-bit coverage masks for the shapes drawn by the
// editing tools: round-capped strokes, rectangles, ellipses and soft
// radial dabs.
//
// Coordinates address pixels; the centre of pixel (x, y) is (x+0.5, y+0.5).
// Every mask is clipped to the rectangle passed in, normally the bounds of
// the target buffer.
package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Mask is coverage for the pixels of Rect. Alpha is origin based: its pixel
// (0, 0) corresponds to Rect.Min.
type Mask struct {
	Rect  image.Rectangle
	Alpha *image.Alpha
}

func newMask(r image.Rectangle) *Mask {
	return &Mask{Rect: r, Alpha: image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))}
}

// Empty reports whether the mask covers no pixels at all.
func (m *Mask) Empty() bool {
	if m == nil || m.Rect.Empty() {
		return true
	}
	for _, a := range m.Alpha.Pix {
		if a != 0 {
			return false
		}
	}
	return true
}

// At returns the coverage of target pixel (x, y).
func (m *Mask) At(x, y int) uint8 {
	if m == nil || !image.Pt(x, y).In(m.Rect) {
		return 0
	}
	return m.Alpha.Pix[(y-m.Rect.Min.Y)*m.Alpha.Stride+x-m.Rect.Min.X]
}

// Row returns the coverage of target row y, one byte per pixel starting at
// Rect.Min.X. It returns nil for rows outside the mask.
func (m *Mask) Row(y int) []uint8 {
	if m == nil || y < m.Rect.Min.Y || y >= m.Rect.Max.Y {
		return nil
	}
	off := (y - m.Rect.Min.Y) * m.Alpha.Stride
	return m.Alpha.Pix[off : off+m.Rect.Dx()]
}

// Threshold turns partial coverage into hard edges: values at or above
// level become 255, the rest 0.
func (m *Mask) Threshold(level uint8) {
	if m == nil {
		return
	}
	for i, a := range m.Alpha.Pix {
		if a >= level {
			m.Alpha.Pix[i] = 255
		} else {
			m.Alpha.Pix[i] = 0
		}
	}
}

// Subtract removes o's coverage from m where they overlap.
func (m *Mask) Subtract(o *Mask) {
	if m == nil || o == nil {
		return
	}
	r := m.Rect.Intersect(o.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst := m.Row(y)[r.Min.X-m.Rect.Min.X : r.Max.X-m.Rect.Min.X]
		src := o.Row(y)[r.Min.X-o.Rect.Min.X : r.Max.X-o.Rect.Min.X]
		for i, a := range src {
			if a >= dst[i] {
				dst[i] = 0
			} else {
				dst[i] -= a
			}
		}
	}
}

// bounds converts a float bounding box to the covered pixel rectangle.
func bounds(x0, y0, x1, y1 float64, clip image.Rectangle) image.Rectangle {
	r := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	)
	return r.Intersect(clip)
}

// pen feeds a vector.Rasterizer in target coordinates, translating by the
// mask origin.
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
}

func newPen(r image.Rectangle) pen {
	return pen{
		z:  vector.NewRasterizer(r.Dx(), r.Dy()),
		ox: float64(r.Min.X),
		oy: float64(r.Min.Y),
	}
}

func (p pen) moveTo(x, y float64) { p.z.MoveTo(float32(x-p.ox), float32(y-p.oy)) }
func (p pen) lineTo(x, y float64) { p.z.LineTo(float32(x-p.ox), float32(y-p.oy)) }

func (p pen) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	p.z.CubeTo(
		float32(x1-p.ox), float32(y1-p.oy),
		float32(x2-p.ox), float32(y2-p.oy),
		float32(x3-p.ox), float32(y3-p.oy),
	)
}

func (p pen) closePath() { p.z.ClosePath() }

// mask renders the accumulated path into a new mask for r.
func (p pen) mask(r image.Rectangle) *Mask {
	m := newMask(r)
	p.z.DrawOp = draw.Src
	p.z.Draw(m.Alpha, m.Alpha.Bounds(), image.Opaque, image.Point{})
	return m
}
