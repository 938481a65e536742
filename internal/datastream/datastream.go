// Package datastream reads and writes the big-endian binary primitives of
// Qt's QDataStream (version Qt_5_15), the encoding used by project files.
//
// Both Reader and Writer keep the first error and turn every later call
// into a no-op, so a sequence of fields can be processed and checked once
// with Err.
package datastream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// nullLength marks a null QString or QByteArray.
const nullLength = 0xFFFFFFFF

// ErrMalformed is returned for values that cannot be valid in the stream.
var ErrMalformed = errors.New("datastream: malformed value")

// utf16 is QString's wire encoding: UTF-16 code units, big-endian, no BOM.
var utf16 encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Writer encodes primitives to an io.Writer.
type Writer struct {
	w   io.Writer
	err error
	buf [8]byte
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

// Uint32 writes a quint32.
func (w *Writer) Uint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

// Int32 writes a qint32.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Bool writes a bool as one byte.
func (w *Writer) Bool(v bool) {
	w.buf[0] = 0
	if v {
		w.buf[0] = 1
	}
	w.write(w.buf[:1])
}

// Float64 writes a qreal (IEEE-754 double).
func (w *Writer) Float64(v float64) {
	binary.BigEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.write(w.buf[:8])
}

// String writes a QString: byte length followed by UTF-16BE code units.
func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	enc, err := utf16.NewEncoder().String(s)
	if err != nil {
		w.err = fmt.Errorf("datastream: encode string: %w", err)
		return
	}
	w.Uint32(uint32(len(enc)))
	w.write([]byte(enc))
}

// Bytes writes a QByteArray: length followed by the raw bytes.
// A nil slice is written as a null array.
func (w *Writer) Bytes(p []byte) {
	if p == nil {
		w.Uint32(nullLength)
		return
	}
	w.Uint32(uint32(len(p)))
	w.write(p)
}

// Reader decodes primitives from an io.Reader.
type Reader struct {
	r   io.Reader
	err error
	buf [8]byte
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered. A stream that ends inside a
// value reports io.ErrUnexpectedEOF.
func (r *Reader) Err() error { return r.err }

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	return r.buf[:n]
}

// Uint32 reads a quint32.
func (r *Reader) Uint32() uint32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Int32 reads a qint32.
func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

// Bool reads a one-byte bool.
func (r *Reader) Bool() bool {
	b := r.read(1)
	return b != nil && b[0] != 0
}

// Float64 reads a qreal.
func (r *Reader) Float64() float64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// blob reads n bytes without trusting n for the allocation size; the
// buffer grows only as data actually arrives.
func (r *Reader) blob(n uint32) []byte {
	if r.err != nil {
		return nil
	}
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r.r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) || got < int64(n) {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	return buf.Bytes()
}

// String reads a QString. A null string reads as "".
func (r *Reader) String() string {
	n := r.Uint32()
	if r.err != nil || n == nullLength || n == 0 {
		return ""
	}
	if n%2 != 0 {
		r.err = fmt.Errorf("%w: odd string length %d", ErrMalformed, n)
		return ""
	}
	raw := r.blob(n)
	if raw == nil {
		return ""
	}
	dec, err := utf16.NewDecoder().Bytes(raw)
	if err != nil {
		r.err = fmt.Errorf("datastream: decode string: %w", err)
		return ""
	}
	return string(dec)
}

// Bytes reads a QByteArray. A null array reads as nil, an empty one as a
// non-nil empty slice.
func (r *Reader) Bytes() []byte {
	n := r.Uint32()
	if r.err != nil || n == nullLength {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	return r.blob(n)
}
