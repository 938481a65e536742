package canvas

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/canvas/internal/datastream"
)

const (
	// ProjectMagic is the header string of every project file.
	ProjectMagic = "LAYER_PROJECT"

	// ProjectExt is the conventional project file extension.
	ProjectExt = ".ptr"
)

// Project file errors.
var (
	// ErrBadHeader is returned when a stream does not start with ProjectMagic.
	ErrBadHeader = errors.New("canvas: not a project file")

	// ErrNegativeCount is returned when the layer count in the header is negative.
	ErrNegativeCount = errors.New("canvas: negative layer count")

	// ErrTruncated is returned when the stream ends or fails mid-record.
	ErrTruncated = errors.New("canvas: truncated project stream")

	// ErrEmptyStack is returned by operations that need at least one layer.
	ErrEmptyStack = errors.New("canvas: stack has no layers")
)

// WriteProject serializes every layer of st, bottom first.
func WriteProject(w io.Writer, st *Stack) error {
	ds := datastream.NewWriter(w)
	ds.String(ProjectMagic)
	ds.Int32(int32(st.Len()))

	var blob bytes.Buffer
	for _, l := range st.layers {
		blob.Reset()
		if err := EncodePNG(&blob, l.pixmap); err != nil {
			return fmt.Errorf("canvas: layer %q: %w", l.name, err)
		}
		ds.String(l.name)
		ds.Bool(l.visible)
		ds.Float64(l.opacity)
		ds.Bytes(blob.Bytes())
	}
	if err := ds.Err(); err != nil {
		return fmt.Errorf("canvas: write project: %w", err)
	}
	return nil
}

// ReadProject parses a project stream and, only if the whole stream is
// well formed, replaces the contents of st with its layers. Layer 0 becomes
// active. On error st is left untouched.
//
// A layer whose image blob cannot be decoded is skipped and logged; the rest
// of the project still loads.
func ReadProject(r io.Reader, st *Stack) error {
	ds := datastream.NewReader(r)
	magic := ds.String()
	count := ds.Int32()
	if err := ds.Err(); err != nil {
		return fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	if magic != ProjectMagic {
		return ErrBadHeader
	}
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}

	layers := make([]*Layer, 0, min(int(count), 64))
	for i := range int(count) {
		name := ds.String()
		visible := ds.Bool()
		opacity := ds.Float64()
		blob := ds.Bytes()
		if err := ds.Err(); err != nil {
			return fmt.Errorf("%w: layer %d: %w", ErrTruncated, i, err)
		}

		pm, err := DecodePNG(blob)
		if err != nil {
			Logger().Warn("canvas: skipping layer with corrupt image",
				"index", i, "name", name, "err", err)
			continue
		}
		l := NewLayerFromPixmap(pm, "")
		l.name = name
		l.visible = visible
		if math.IsNaN(opacity) {
			opacity = 1
		}
		l.SetOpacity(opacity)
		layers = append(layers, l)
	}

	st.replace(layers, 0)
	return nil
}

// SaveProject writes st to path. The file is only created once the whole
// project has been encoded.
func SaveProject(path string, st *Stack) error {
	var buf bytes.Buffer
	if err := WriteProject(&buf, st); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("canvas: write file: %w", err)
	}
	Logger().Info("canvas: project saved", "path", path, "layers", st.Len())
	return nil
}

// LoadProject reads the project at path into st. See ReadProject.
func LoadProject(path string, st *Stack) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("canvas: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := ReadProject(bufio.NewReader(f), st); err != nil {
		return err
	}
	Logger().Info("canvas: project loaded", "path", path, "layers", st.Len())
	return nil
}
