package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var _ draw.Image = (*Pixmap)(nil)

func TestNewPixmap(t *testing.T) {
	tests := []struct {
		name          string
		w, h          int
		wantW, wantH  int
		wantDataBytes int
	}{
		{"regular", 4, 3, 4, 3, 48},
		{"empty", 0, 0, 0, 0, 0},
		{"negative", -2, 5, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPixmap(tt.w, tt.h)
			if pm.Width() != tt.wantW || pm.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", pm.Width(), pm.Height(), tt.wantW, tt.wantH)
			}
			if len(pm.Data()) != tt.wantDataBytes {
				t.Errorf("len(Data()) = %d, want %d", len(pm.Data()), tt.wantDataBytes)
			}
		})
	}
}

func TestPixmap_SetGetPixel(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.SetPixel(1, 2, RGB(1, 0, 0))
	pm.SetPixel(5, 5, White) // ignored

	if got := pm.NRGBAAt(1, 2); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("NRGBAAt(1, 2) = %v, want opaque red", got)
	}
	if got := pm.GetPixel(0, 0); got != Transparent {
		t.Errorf("GetPixel(0, 0) = %v, want Transparent", got)
	}
	if got := pm.GetPixel(-1, 0); got != Transparent {
		t.Errorf("GetPixel(-1, 0) = %v, want Transparent", got)
	}
}

func TestPixmap_StoresPremultiplied(t *testing.T) {
	pm := NewPixmap(1, 1)
	pm.SetPixel(0, 0, White.WithAlpha(0.5))

	d := pm.Data()
	if d[0] != 128 || d[3] != 128 {
		t.Errorf("data = %v, want premultiplied [128 128 128 128]", d)
	}
	if got := pm.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 128}) {
		t.Errorf("NRGBAAt() = %v, want straight white at 128", got)
	}
}

func TestPixmap_CloneIsDeep(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Fill(Blue)
	c := pm.Clone()
	if !c.Equal(pm) {
		t.Fatal("Clone() not equal to source")
	}

	c.SetPixel(0, 0, Red)
	if c.Equal(pm) {
		t.Error("modifying clone changed the source")
	}
}

func TestPixmap_Equal(t *testing.T) {
	a := NewPixmap(2, 1)
	b := NewPixmap(1, 2)
	if a.Equal(b) {
		t.Error("pixmaps of different shape compare equal")
	}
	var nilPm *Pixmap
	if a.Equal(nil) || !nilPm.Equal(nil) {
		t.Error("nil handling in Equal is wrong")
	}
}

func TestPixmap_FillClear(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Fill(Green)
	for y := range 2 {
		for x := range 2 {
			if got := pm.GetPixel(x, y); got != Green {
				t.Fatalf("GetPixel(%d, %d) = %v after Fill(Green)", x, y, got)
			}
		}
	}
	pm.Clear()
	if !pm.Equal(NewPixmap(2, 2)) {
		t.Error("Clear() did not make every pixel transparent")
	}
}

func TestPixmap_RGBASharesMemory(t *testing.T) {
	pm := NewPixmap(2, 2)
	img := pm.RGBA()
	img.Set(1, 1, color.RGBA{0, 0, 255, 255})

	if got := pm.GetPixel(1, 1); got != Blue {
		t.Errorf("GetPixel(1, 1) = %v, want Blue after writing via RGBA()", got)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("RGBA().Bounds() = %v", img.Bounds())
	}
}

func TestPixmap_DrawImage(t *testing.T) {
	pm := NewPixmap(2, 2)
	draw.Draw(pm, pm.Bounds(), image.NewUniform(color.RGBA{255, 0, 0, 255}), image.Point{}, draw.Src)
	if got := pm.At(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("At(1, 0) = %v, want red", got)
	}
}
