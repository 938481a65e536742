package canvas

import (
	"fmt"
	"image/color"
)

// RGBA represents a straight (non-premultiplied) color with red, green,
// blue, and alpha components. Each component is in the range [0, 1].
//
// RGBA is the color type exchanged with tools and the color state.
// Pixel buffers store premultiplied 8-bit values; use Premul8 and
// FromNRGBA to cross that boundary.
type RGBA struct {
	R, G, B, A float64
}

// RGBA implements color.Color. The returned values are alpha-premultiplied
// as the interface requires.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to an 8-bit straight-alpha color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Premul8 returns the premultiplied 8-bit channels of c, ready to be
// written into a Pixmap.
func (c RGBA) Premul8() (r, g, b, a uint8) {
	n := c.NRGBA()
	return premul(n.R, n.A), premul(n.G, n.A), premul(n.B, n.A), n.A
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Hex formats c as "#RRGGBBAA".
func (c RGBA) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// MarshalText encodes c as "#rrggbbaa".
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses any form accepted by ParseHex.
func (c *RGBA) UnmarshalText(text []byte) error {
	v, ok := ParseHex(string(text))
	if !ok {
		return fmt.Errorf("canvas: invalid color %q", text)
	}
	*c = v
	return nil
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	return FromNRGBA(color.NRGBAModel.Convert(c).(color.NRGBA))
}

// FromNRGBA converts an 8-bit straight-alpha color to RGBA.
func FromNRGBA(n color.NRGBA) RGBA {
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without
// a leading '#'. Malformed input yields opaque black.
func Hex(hex string) RGBA {
	c, ok := ParseHex(hex)
	if !ok {
		return Black
	}
	return c
}

// ParseHex is like Hex but reports whether hex was well formed.
func ParseHex(hex string) (RGBA, bool) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		ok = false
	}
	if !ok {
		return RGBA{}, false
	}

	return FromNRGBA(color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}), true
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// to8 maps [0, 1] to [0, 255] with rounding and clamping.
func to8(x float64) uint8 {
	v := x*255 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// premul multiplies a straight channel by alpha with rounding.
func premul(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}

// unpremul recovers a straight channel from a premultiplied one.
func unpremul(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	if a == 255 {
		return c
	}
	v := (uint16(c)*255 + uint16(a)/2) / uint16(a)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)
