package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when a buffer ends before the field being read.
var ErrInsufficientData = errors.New("insufficient data")

// Encoded sizes of the fixed-width primitives.
const (
	Float32Size   = 4
	BoolSize      = 1
	CountSize     = 8
	ColorSize     = 4
	VectorSize    = 2 * Float32Size
	RectangleSize = 4 * Float32Size
	CircleSize    = 3 * Float32Size
	TransformSize = 9 * Float32Size
)

// AppendFloat32 appends v as 4 big-endian bytes.
func AppendFloat32(b []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(v))
}

// AppendBool appends v as a single 0/1 byte.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

// AppendCount appends a list length as a big-endian uint64.
func AppendCount(b []byte, n int) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(n))
}

// Decoder reads fields sequentially from a buffer. The first failure is
// sticky: later reads return zero values and Err reports the original error.
type Decoder struct {
	data  []byte
	start int
	off   int
	err   error
}

// NewDecoder starts decoding data at offset.
func NewDecoder(data []byte, offset int) *Decoder {
	d := &Decoder{data: data, start: offset, off: offset}
	if offset < 0 || offset > len(data) {
		d.err = fmt.Errorf("offset %d outside buffer of %d bytes: %w", offset, len(data), ErrInsufficientData)
	}
	return d
}

// Err returns the first error encountered.
func (d *Decoder) Err() error { return d.err }

// Fail records err unless an error is already set.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Offset returns the absolute position of the next read.
func (d *Decoder) Offset() int { return d.off }

// Consumed returns the number of bytes read since NewDecoder.
func (d *Decoder) Consumed() int { return d.off - d.start }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	if d.err != nil {
		return 0
	}
	return len(d.data) - d.off
}

// Data returns the underlying buffer for composite decoders.
func (d *Decoder) Data() []byte { return d.data }

// Advance moves the read position forward by n bytes already decoded elsewhere.
func (d *Decoder) Advance(n int) {
	if d.err == nil {
		d.off += n
	}
}

func (d *Decoder) take(n int, what string) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.data)-d.off < n {
		d.err = fmt.Errorf("%s at offset %d needs %d bytes, have %d: %w",
			what, d.off, n, len(d.data)-d.off, ErrInsufficientData)
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

// Bytes reads n raw bytes.
func (d *Decoder) Bytes(n int) []byte {
	return d.take(n, "bytes")
}

// Byte reads one raw byte.
func (d *Decoder) Byte() byte {
	b := d.take(1, "byte")
	if b == nil {
		return 0
	}
	return b[0]
}

// Float32 reads a big-endian float32.
func (d *Decoder) Float32() float32 {
	b := d.take(Float32Size, "float32")
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

// Bool reads a one-byte boolean. Any non-zero byte is true.
func (d *Decoder) Bool() bool {
	b := d.take(BoolSize, "bool")
	if b == nil {
		return false
	}
	return b[0] != 0
}

// Count reads a list length. Every element occupies at least one byte, so a
// count larger than the remaining buffer is reported as truncation.
func (d *Decoder) Count() int {
	b := d.take(CountSize, "count")
	if b == nil {
		return 0
	}
	n := binary.BigEndian.Uint64(b)
	if n > uint64(len(d.data)-d.off) {
		d.err = fmt.Errorf("count %d exceeds %d remaining bytes: %w", n, len(d.data)-d.off, ErrInsufficientData)
		return 0
	}
	return int(n)
}

// Decode runs a (data, offset) -> (value, consumed, error) decoder at the
// current position and advances past what it consumed.
func Decode[T any](d *Decoder, fn func([]byte, int) (T, int, error)) T {
	var zero T
	if d.err != nil {
		return zero
	}
	v, n, err := fn(d.data, d.off)
	if err != nil {
		d.err = err
		return zero
	}
	d.off += n
	return v
}

// DecodeList reads a count followed by that many elements. An empty list
// decodes as nil.
func DecodeList[T any](d *Decoder, fn func([]byte, int) (T, int, error)) []T {
	n := d.Count()
	if d.err != nil {
		return nil
	}
	var out []T
	for i := 0; i < n; i++ {
		v := Decode(d, fn)
		if d.err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Vector

// MarshalBinary encodes v as x, y.
func (v Vector) MarshalBinary() ([]byte, error) {
	return v.AppendBinary(make([]byte, 0, VectorSize))
}

// AppendBinary appends the encoding of v to b.
func (v Vector) AppendBinary(b []byte) ([]byte, error) {
	b = AppendFloat32(b, v.X)
	return AppendFloat32(b, v.Y), nil
}

// DecodeVector reads a Vector at offset.
func DecodeVector(data []byte, offset int) (Vector, int, error) {
	d := NewDecoder(data, offset)
	v := Vector{X: d.Float32(), Y: d.Float32()}
	if err := d.Err(); err != nil {
		return Vector{}, 0, fmt.Errorf("vector: %w", err)
	}
	return v, d.Consumed(), nil
}

// Rectangle

// MarshalBinary encodes r as x, y, w, h.
func (r Rectangle) MarshalBinary() ([]byte, error) {
	return r.AppendBinary(make([]byte, 0, RectangleSize))
}

// AppendBinary appends the encoding of r to b.
func (r Rectangle) AppendBinary(b []byte) ([]byte, error) {
	b = AppendFloat32(b, r.X)
	b = AppendFloat32(b, r.Y)
	b = AppendFloat32(b, r.W)
	return AppendFloat32(b, r.H), nil
}

// DecodeRectangle reads a Rectangle at offset.
func DecodeRectangle(data []byte, offset int) (Rectangle, int, error) {
	d := NewDecoder(data, offset)
	r := Rectangle{X: d.Float32(), Y: d.Float32(), W: d.Float32(), H: d.Float32()}
	if err := d.Err(); err != nil {
		return Rectangle{}, 0, fmt.Errorf("rectangle: %w", err)
	}
	return r, d.Consumed(), nil
}

// Circle

// MarshalBinary encodes c as x, y, r.
func (c Circle) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, CircleSize))
}

// AppendBinary appends the encoding of c to b.
func (c Circle) AppendBinary(b []byte) ([]byte, error) {
	b = AppendFloat32(b, c.X)
	b = AppendFloat32(b, c.Y)
	return AppendFloat32(b, c.R), nil
}

// DecodeCircle reads a Circle at offset.
func DecodeCircle(data []byte, offset int) (Circle, int, error) {
	d := NewDecoder(data, offset)
	c := Circle{X: d.Float32(), Y: d.Float32(), R: d.Float32()}
	if err := d.Err(); err != nil {
		return Circle{}, 0, fmt.Errorf("circle: %w", err)
	}
	return c, d.Consumed(), nil
}

// Color

// MarshalBinary encodes c as four raw bytes r, g, b, a.
func (c Color) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, ColorSize))
}

// AppendBinary appends the encoding of c to b.
func (c Color) AppendBinary(b []byte) ([]byte, error) {
	return append(b, c.R, c.G, c.B, c.A), nil
}

// DecodeColor reads a Color at offset.
func DecodeColor(data []byte, offset int) (Color, int, error) {
	d := NewDecoder(data, offset)
	b := d.Bytes(ColorSize)
	if err := d.Err(); err != nil {
		return Color{}, 0, fmt.Errorf("color: %w", err)
	}
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}, ColorSize, nil
}

// Transform

// MarshalBinary encodes the nine matrix entries in row-major order.
func (t Transform) MarshalBinary() ([]byte, error) {
	return t.AppendBinary(make([]byte, 0, TransformSize))
}

// AppendBinary appends the encoding of t to b.
func (t Transform) AppendBinary(b []byte) ([]byte, error) {
	for _, v := range t.Mat {
		b = AppendFloat32(b, v)
	}
	return b, nil
}

// DecodeTransform reads a Transform at offset.
func DecodeTransform(data []byte, offset int) (Transform, int, error) {
	d := NewDecoder(data, offset)
	var t Transform
	for i := range t.Mat {
		t.Mat[i] = d.Float32()
	}
	if err := d.Err(); err != nil {
		return Transform{}, 0, fmt.Errorf("transform: %w", err)
	}
	return t, d.Consumed(), nil
}
