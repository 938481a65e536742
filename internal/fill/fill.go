// Package fill implements tolerance-bounded flood fill on pixel buffers.
package fill

import (
	"image"
	"image/color"

	"github.com/gogpu/canvas"
)

// MaxTolerance is the largest meaningful per-channel tolerance.
const MaxTolerance = 255

// within reports whether the straight red, green and blue channels of a
// and b each differ by at most tol. Alpha is not compared.
func within(a, b color.NRGBA, tol int) bool {
	return absDiff(a.R, b.R) <= tol &&
		absDiff(a.G, b.G) <= tol &&
		absDiff(a.B, b.B) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Flood replaces the 4-connected region around start whose pixels match
// the start pixel within tol with c, and returns the number of pixels
// written.
//
// It does nothing when start is outside pm or when the start pixel already
// matches c within tol. The region is grown with an explicit stack and a
// visited set, so memory is bounded by the buffer size regardless of the
// region's shape.
func Flood(pm *canvas.Pixmap, start image.Point, c canvas.RGBA, tol int) int {
	w, h := pm.Width(), pm.Height()
	if !start.In(image.Rect(0, 0, w, h)) {
		return 0
	}
	tol = max(0, min(tol, MaxTolerance))

	target := pm.NRGBAAt(start.X, start.Y)
	if within(target, c.NRGBA(), tol) {
		return 0
	}

	r, g, b, a := c.Premul8()
	visited := make([]uint64, (w*h+63)/64)
	mark := func(i int) bool {
		word, bit := i/64, uint64(1)<<(i%64)
		if visited[word]&bit != 0 {
			return false
		}
		visited[word] |= bit
		return true
	}

	stack := []image.Point{start}
	mark(start.Y*w + start.X)
	touched := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !within(pm.NRGBAAt(p.X, p.Y), target, tol) {
			continue
		}
		pm.SetPixelPremul(p.X, p.Y, r, g, b, a)
		touched++

		for _, n := range [4]image.Point{
			{p.X + 1, p.Y}, {p.X - 1, p.Y}, {p.X, p.Y + 1}, {p.X, p.Y - 1},
		} {
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			if mark(n.Y*w + n.X) {
				stack = append(stack, n)
			}
		}
	}
	canvas.Logger().Debug("fill: flood", "start", start, "tolerance", tol, "touched", touched)
	return touched
}
