package raster

import (
	"image"
	"math"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// arc appends quarter-circle cubics around (cx, cy) from angle a0, turning
// by quarters*π/2 (negative turns clockwise in screen space). The pen must
// already be at the arc's start point.
func (p pen) arc(cx, cy, rx, ry, a0 float64, quarters int) {
	step, sign := math.Pi/2, 1.0
	if quarters < 0 {
		step, sign, quarters = -step, -1, -quarters
	}
	for range quarters {
		a1 := a0 + step
		s0, c0 := math.Sincos(a0)
		s1, c1 := math.Sincos(a1)
		p.cubeTo(
			cx+rx*(c0-sign*kappa*s0), cy+ry*(s0+sign*kappa*c0),
			cx+rx*(c1+sign*kappa*s1), cy+ry*(s1-sign*kappa*c1),
			cx+rx*c1, cy+ry*s1,
		)
		a0 = a1
	}
}

func (p pen) ellipse(cx, cy, rx, ry float64) {
	p.moveTo(cx+rx, cy)
	p.arc(cx, cy, rx, ry, 0, 4)
	p.closePath()
}

// Capsule covers the round-capped segment from pixel a to pixel b with the
// given stroke width. When a == b the result is a disc.
func Capsule(a, b image.Point, width float64, clip image.Rectangle) *Mask {
	r := math.Max(width, 1) / 2
	ax, ay := float64(a.X)+0.5, float64(a.Y)+0.5
	bx, by := float64(b.X)+0.5, float64(b.Y)+0.5

	box := bounds(math.Min(ax, bx)-r, math.Min(ay, by)-r, math.Max(ax, bx)+r, math.Max(ay, by)+r, clip)
	if box.Empty() {
		return newMask(image.Rectangle{})
	}
	p := newPen(box)

	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		p.ellipse(ax, ay, r, r)
		return p.mask(box)
	}

	// Normal angle; the outline runs a+n, b+n, cap around b, b-n, a-n, cap around a.
	theta := math.Atan2(dx, -dy)
	nx, ny := -dy/length*r, dx/length*r
	p.moveTo(ax+nx, ay+ny)
	p.lineTo(bx+nx, by+ny)
	p.arc(bx, by, r, r, theta, -2)
	p.lineTo(ax-nx, ay-ny)
	p.arc(ax, ay, r, r, theta+math.Pi, -2)
	p.closePath()
	return p.mask(box)
}

// extent returns the float extent covered by the inclusive pixel rectangle
// spanned by r.Min and r.Max.
func extent(r image.Rectangle) (x0, y0, x1, y1 float64) {
	r = r.Canon()
	return float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X + 1), float64(r.Max.Y + 1)
}

// Rect covers every pixel between the corner pixels r.Min and r.Max,
// inclusive.
func Rect(r image.Rectangle, clip image.Rectangle) *Mask {
	x0, y0, x1, y1 := extent(r)
	box := bounds(x0, y0, x1, y1, clip)
	if box.Empty() {
		return newMask(image.Rectangle{})
	}
	p := newPen(box)
	p.moveTo(x0, y0)
	p.lineTo(x1, y0)
	p.lineTo(x1, y1)
	p.lineTo(x0, y1)
	p.closePath()
	return p.mask(box)
}

// RectOutline covers a border of the given width running along the inside
// of the rectangle that Rect would cover. A border wider than half the
// rectangle covers all of it.
func RectOutline(r image.Rectangle, width float64, clip image.Rectangle) *Mask {
	outer := Rect(r, clip)
	x0, y0, x1, y1 := extent(r)
	w := math.Max(width, 1)
	if x1-x0 <= 2*w || y1-y0 <= 2*w {
		return outer
	}
	box := bounds(x0+w, y0+w, x1-w, y1-w, clip)
	if box.Empty() {
		return outer
	}
	p := newPen(box)
	p.moveTo(x0+w, y0+w)
	p.lineTo(x1-w, y0+w)
	p.lineTo(x1-w, y1-w)
	p.lineTo(x0+w, y1-w)
	p.closePath()
	outer.Subtract(p.mask(box))
	return outer
}

// Ellipse covers the ellipse inscribed in the rectangle Rect would cover.
func Ellipse(r image.Rectangle, clip image.Rectangle) *Mask {
	x0, y0, x1, y1 := extent(r)
	return ellipseIn(x0, y0, x1, y1, clip)
}

func ellipseIn(x0, y0, x1, y1 float64, clip image.Rectangle) *Mask {
	box := bounds(x0, y0, x1, y1, clip)
	if box.Empty() {
		return newMask(image.Rectangle{})
	}
	p := newPen(box)
	p.ellipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
	return p.mask(box)
}

// EllipseOutline covers a ring of the given width along the inside of the
// ellipse that Ellipse would cover.
func EllipseOutline(r image.Rectangle, width float64, clip image.Rectangle) *Mask {
	x0, y0, x1, y1 := extent(r)
	outer := ellipseIn(x0, y0, x1, y1, clip)
	w := math.Max(width, 1)
	if x1-x0 <= 2*w || y1-y0 <= 2*w {
		return outer
	}
	outer.Subtract(ellipseIn(x0+w, y0+w, x1-w, y1-w, clip))
	return outer
}

// Dab covers a soft disc of the given radius centred on the pixel position
// (x, y), which may be fractional. Coverage falls off as (1 - d/radius)²
// from full at the centre to zero at the rim.
func Dab(x, y, radius float64, clip image.Rectangle) *Mask {
	cx, cy := x+0.5, y+0.5
	box := bounds(cx-radius, cy-radius, cx+radius, cy+radius, clip)
	if box.Empty() || radius <= 0 {
		return newMask(image.Rectangle{})
	}
	m := newMask(box)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		row := m.Row(py)
		for px := box.Min.X; px < box.Max.X; px++ {
			d := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			if d >= radius {
				continue
			}
			f := 1 - d/radius
			row[px-box.Min.X] = uint8(f*f*255 + 0.5)
		}
	}
	return m
}
