package canvas

import (
	"bytes"
	"image"
	"image/color"
)

// Pixmap is a rectangular buffer of premultiplied RGBA pixels,
// 4 bytes per pixel, rows packed without padding.
//
// Pixmap implements draw.Image so it can be handed to the standard
// and golang.org/x/image drawing routines directly.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a transparent pixmap with the given dimensions.
// Negative dimensions are treated as zero.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Size returns the dimensions as a point.
func (p *Pixmap) Size() image.Point {
	return image.Pt(p.width, p.height)
}

// Data returns the raw premultiplied pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int {
	return p.width * 4
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// Equal reports whether q has the same dimensions and pixel content.
func (p *Pixmap) Equal(q *Pixmap) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.width == q.width && p.height == q.height && bytes.Equal(p.data, q.data)
}

func (p *Pixmap) inBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// SetPixel sets a single pixel from a straight-alpha color.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	r, g, b, a := c.Premul8()
	p.SetPixelPremul(x, y, r, g, b, a)
}

// SetPixelPremul writes already premultiplied channels.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixelPremul(x, y int, r, g, b, a uint8) {
	if !p.inBounds(x, y) {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// GetPixel returns the straight-alpha color of a pixel, or Transparent
// outside the pixmap.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	return FromNRGBA(p.NRGBAAt(x, y))
}

// NRGBAAt returns the 8-bit straight-alpha color of a pixel.
func (p *Pixmap) NRGBAAt(x, y int) color.NRGBA {
	if !p.inBounds(x, y) {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	a := p.data[i+3]
	return color.NRGBA{
		R: unpremul(p.data[i+0], a),
		G: unpremul(p.data[i+1], a),
		B: unpremul(p.data[i+2], a),
		A: a,
	}
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c RGBA) {
	r, g, b, a := c.Premul8()
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clear makes every pixel transparent.
func (p *Pixmap) Clear() {
	clear(p.data)
}

// RGBA returns an *image.RGBA that shares the pixmap's memory.
// Writes through the returned image are visible in the pixmap.
func (p *Pixmap) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.Stride(),
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if !p.inBounds(x, y) {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Set implements the draw.Image interface.
func (p *Pixmap) Set(x, y int, c color.Color) {
	v := color.RGBAModel.Convert(c).(color.RGBA)
	p.SetPixelPremul(x, y, v.R, v.G, v.B, v.A)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
