// Package blend implements premultiplied-alpha compositing over pixel spans.
//
// All operators work on packed RGBA rows where every color channel is
// already multiplied by alpha, 0-255 per channel, 4 bytes per pixel.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// Valid for every product of two bytes (0 to 255*255).
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255Round multiplies two bytes and divides by 255 with rounding.
func mulDiv255Round(a, b byte) byte {
	return byte(div255(uint32(a)*uint32(b) + 127))
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// Opacity converts a [0, 1] opacity to a byte weight.
func Opacity(o float64) byte {
	v := o*255 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
