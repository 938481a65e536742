package blend

// SourceOver composites the src span over the dst span.
// Formula: S*o + D*(1 - Sa*o), with o the opacity weight.
//
// When opacity is 255 the source is used as-is; the extra multiply is skipped.
// Both spans must have the same length, a multiple of 4.
func SourceOver(dst, src []byte, opacity byte) {
	if opacity == 0 {
		return
	}
	n := min(len(dst), len(src))
	if opacity == 255 {
		for i := 0; i+3 < n; i += 4 {
			sa := src[i+3]
			switch sa {
			case 0:
				continue
			case 255:
				copy(dst[i:i+4], src[i:i+4])
				continue
			}
			inv := 255 - sa
			dst[i+0] = addClamp(src[i+0], mulDiv255Round(dst[i+0], inv))
			dst[i+1] = addClamp(src[i+1], mulDiv255Round(dst[i+1], inv))
			dst[i+2] = addClamp(src[i+2], mulDiv255Round(dst[i+2], inv))
			dst[i+3] = addClamp(sa, mulDiv255Round(dst[i+3], inv))
		}
		return
	}
	for i := 0; i+3 < n; i += 4 {
		if src[i+3] == 0 {
			continue
		}
		sa := mulDiv255Round(src[i+3], opacity)
		inv := 255 - sa
		dst[i+0] = addClamp(mulDiv255Round(src[i+0], opacity), mulDiv255Round(dst[i+0], inv))
		dst[i+1] = addClamp(mulDiv255Round(src[i+1], opacity), mulDiv255Round(dst[i+1], inv))
		dst[i+2] = addClamp(mulDiv255Round(src[i+2], opacity), mulDiv255Round(dst[i+2], inv))
		dst[i+3] = addClamp(sa, mulDiv255Round(dst[i+3], inv))
	}
}

// SourceOverMask composites a solid premultiplied color over dst, weighted
// per pixel by an 8-bit coverage mask (one byte per pixel).
func SourceOverMask(dst []byte, r, g, b, a byte, mask []byte) {
	for j, m := range mask {
		i := j * 4
		if m == 0 || i+3 >= len(dst) {
			continue
		}
		sr, sg, sb, sa := r, g, b, a
		if m != 255 {
			sr = mulDiv255Round(r, m)
			sg = mulDiv255Round(g, m)
			sb = mulDiv255Round(b, m)
			sa = mulDiv255Round(a, m)
		}
		if sa == 255 {
			dst[i+0], dst[i+1], dst[i+2], dst[i+3] = sr, sg, sb, sa
			continue
		}
		inv := 255 - sa
		dst[i+0] = addClamp(sr, mulDiv255Round(dst[i+0], inv))
		dst[i+1] = addClamp(sg, mulDiv255Round(dst[i+1], inv))
		dst[i+2] = addClamp(sb, mulDiv255Round(dst[i+2], inv))
		dst[i+3] = addClamp(sa, mulDiv255Round(dst[i+3], inv))
	}
}

// DestinationOutMask removes destination coverage where the mask is set.
// Formula: D*(1 - m). A full mask clears the pixel to transparent black.
func DestinationOutMask(dst []byte, mask []byte) {
	for j, m := range mask {
		i := j * 4
		if m == 0 || i+3 >= len(dst) {
			continue
		}
		if m == 255 {
			dst[i+0], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
			continue
		}
		inv := 255 - m
		dst[i+0] = mulDiv255Round(dst[i+0], inv)
		dst[i+1] = mulDiv255Round(dst[i+1], inv)
		dst[i+2] = mulDiv255Round(dst[i+2], inv)
		dst[i+3] = mulDiv255Round(dst[i+3], inv)
	}
}
