package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder for LoadImage
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder for LoadImage
)

// Image I/O errors.
var (
	// ErrUnsupportedFormat is returned when no encoder matches a file extension.
	ErrUnsupportedFormat = errors.New("canvas: unsupported image format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("canvas: empty image data")
)

// Format identifies a raster encoding supported for export.
type Format int

// Supported export formats.
const (
	FormatPNG Format = iota
	FormatJPEG
	FormatBMP
	FormatTIFF
)

// String returns the conventional lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks the export format from the file extension.
// The second result is false for unknown extensions.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, true
	case ".jpg", ".jpeg":
		return FormatJPEG, true
	case ".bmp":
		return FormatBMP, true
	case ".tif", ".tiff":
		return FormatTIFF, true
	default:
		return FormatPNG, false
	}
}

// FromImage converts any image to a premultiplied Pixmap whose origin is
// the image's top-left corner.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	draw.Draw(pm.RGBA(), pm.Bounds(), img, b.Min, draw.Src)
	return pm
}

// DecodeImage decodes any registered raster format (PNG, JPEG, GIF, BMP,
// TIFF, WebP). It also returns the detected format name.
func DecodeImage(r io.Reader) (*Pixmap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("canvas: decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// LoadImage reads and decodes an image file.
func LoadImage(path string) (*Pixmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("canvas: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	pm, _, err := DecodeImage(f)
	return pm, err
}

// EncodePNG writes pm as PNG.
func EncodePNG(w io.Writer, pm *Pixmap) error {
	if err := png.Encode(w, pm.RGBA()); err != nil {
		return fmt.Errorf("canvas: encode PNG: %w", err)
	}
	return nil
}

// DecodePNG decodes a PNG blob into a Pixmap.
func DecodePNG(data []byte) (*Pixmap, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canvas: decode PNG: %w", err)
	}
	return FromImage(img), nil
}

// EncodeImage writes pm in the given format. quality applies to JPEG only
// (1-100); values <= 0 select the encoder default.
func EncodeImage(w io.Writer, pm *Pixmap, f Format, quality int) error {
	var err error
	switch f {
	case FormatPNG:
		return EncodePNG(w, pm)
	case FormatJPEG:
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(w, pm.RGBA(), &jpeg.Options{Quality: min(quality, 100)})
	case FormatBMP:
		err = bmp.Encode(w, pm.RGBA())
	case FormatTIFF:
		err = tiff.Encode(w, pm.RGBA(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("canvas: encode %s: %w", f, err)
	}
	return nil
}

// SaveImage writes pm to path, choosing the format from the extension.
// Unknown extensions return ErrUnsupportedFormat.
func SaveImage(path string, pm *Pixmap, quality int) error {
	f, ok := FormatForPath(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	var buf bytes.Buffer
	if err := EncodeImage(&buf, pm, f, quality); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("canvas: write file: %w", err)
	}
	return nil
}
