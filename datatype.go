package n5

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// DataType is one of the ten element types N5 can store. The tag on disk
// determines the in-memory element type statically; readers must fail if
// the caller's requested Go type does not match (§3, "type safety").
type DataType int

const (
	Uint8 DataType = iota
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

var dataTypeNames = [...]string{
	Uint8: "uint8", Uint16: "uint16", Uint32: "uint32", Uint64: "uint64",
	Int8: "int8", Int16: "int16", Int32: "int32", Int64: "int64",
	Float32: "float32", Float64: "float64",
}

// String returns the lowercase wire form of the tag.
func (d DataType) String() string {
	if int(d) < 0 || int(d) >= len(dataTypeNames) {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dataTypeNames[d]
}

// SizeOf returns the fixed byte width of one element of this type.
func (d DataType) SizeOf() int {
	switch d {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

// ParseDataType maps the lowercase wire name back to a DataType tag.
func ParseDataType(s string) (DataType, error) {
	for i, name := range dataTypeNames {
		if name == s {
			return DataType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized data type %q", ErrInvalidData, s)
}

// MarshalJSON renders the tag in its lowercase wire form.
func (d DataType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses the lowercase wire form.
func (d *DataType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	parsed, err := ParseDataType(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Numeric is the closed set of Go primitive types N5 blocks can hold.
// Implementations in languages without zero-cost generics fold this into
// a vtable indexed by tag; Go generics let the table instead be a single
// type switch over this constraint (see readElements/writeElements below).
type Numeric interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// TypeOf reflects a Go type parameter to its DataType tag.
func TypeOf[T Numeric]() DataType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic(fmt.Sprintf("n5: %T is not a reflected N5 type", zero))
	}
}

// readElements decodes len(data) big-endian elements from r into data.
// For 8-bit types this is a raw byte copy (a big-endian byte is itself);
// signed 8-bit reads the same raw bytes and reinterprets each as int8.
func readElements[T Numeric](r io.Reader, data []T) error {
	switch d := any(data).(type) {
	case []uint8:
		_, err := io.ReadFull(r, d)
		return err
	case []int8:
		buf := make([]byte, len(d))
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		for i, b := range buf {
			d[i] = int8(b)
		}
		return nil
	case []uint16:
		return readBigEndian(r, len(d), 2, func(i int, b []byte) { d[i] = binary.BigEndian.Uint16(b) })
	case []int16:
		return readBigEndian(r, len(d), 2, func(i int, b []byte) { d[i] = int16(binary.BigEndian.Uint16(b)) })
	case []uint32:
		return readBigEndian(r, len(d), 4, func(i int, b []byte) { d[i] = binary.BigEndian.Uint32(b) })
	case []int32:
		return readBigEndian(r, len(d), 4, func(i int, b []byte) { d[i] = int32(binary.BigEndian.Uint32(b)) })
	case []float32:
		return readBigEndian(r, len(d), 4, func(i int, b []byte) { d[i] = math.Float32frombits(binary.BigEndian.Uint32(b)) })
	case []uint64:
		return readBigEndian(r, len(d), 8, func(i int, b []byte) { d[i] = binary.BigEndian.Uint64(b) })
	case []int64:
		return readBigEndian(r, len(d), 8, func(i int, b []byte) { d[i] = int64(binary.BigEndian.Uint64(b)) })
	case []float64:
		return readBigEndian(r, len(d), 8, func(i int, b []byte) { d[i] = math.Float64frombits(binary.BigEndian.Uint64(b)) })
	default:
		return fmt.Errorf("n5: unsupported element type %T", d)
	}
}

// writeElements encodes data as big-endian bytes to w.
func writeElements[T Numeric](w io.Writer, data []T) error {
	switch d := any(data).(type) {
	case []uint8:
		_, err := w.Write(d)
		return err
	case []int8:
		buf := make([]byte, len(d))
		for i, v := range d {
			buf[i] = byte(v)
		}
		_, err := w.Write(buf)
		return err
	case []uint16:
		return writeBigEndian(w, len(d), 2, func(i int, b []byte) { binary.BigEndian.PutUint16(b, d[i]) })
	case []int16:
		return writeBigEndian(w, len(d), 2, func(i int, b []byte) { binary.BigEndian.PutUint16(b, uint16(d[i])) })
	case []uint32:
		return writeBigEndian(w, len(d), 4, func(i int, b []byte) { binary.BigEndian.PutUint32(b, d[i]) })
	case []int32:
		return writeBigEndian(w, len(d), 4, func(i int, b []byte) { binary.BigEndian.PutUint32(b, uint32(d[i])) })
	case []float32:
		return writeBigEndian(w, len(d), 4, func(i int, b []byte) { binary.BigEndian.PutUint32(b, math.Float32bits(d[i])) })
	case []uint64:
		return writeBigEndian(w, len(d), 8, func(i int, b []byte) { binary.BigEndian.PutUint64(b, d[i]) })
	case []int64:
		return writeBigEndian(w, len(d), 8, func(i int, b []byte) { binary.BigEndian.PutUint64(b, uint64(d[i])) })
	case []float64:
		return writeBigEndian(w, len(d), 8, func(i int, b []byte) { binary.BigEndian.PutUint64(b, math.Float64bits(d[i])) })
	default:
		return fmt.Errorf("n5: unsupported element type %T", d)
	}
}

// chunkElements bounds how many elements are converted per intermediate
// buffer, mirroring the fixed-size scratch buffer the reference
// implementation uses rather than allocating one buffer per element.
const chunkElements = 256

func readBigEndian(r io.Reader, n, width int, assign func(i int, b []byte)) error {
	buf := make([]byte, chunkElements*width)
	for i := 0; i < n; {
		c := chunkElements
		if n-i < c {
			c = n - i
		}
		if _, err := io.ReadFull(r, buf[:c*width]); err != nil {
			return err
		}
		for j := 0; j < c; j++ {
			assign(i+j, buf[j*width:(j+1)*width])
		}
		i += c
	}
	return nil
}

func writeBigEndian(w io.Writer, n, width int, fill func(i int, b []byte)) error {
	buf := make([]byte, chunkElements*width)
	for i := 0; i < n; {
		c := chunkElements
		if n-i < c {
			c = n - i
		}
		for j := 0; j < c; j++ {
			fill(i+j, buf[j*width:(j+1)*width])
		}
		if _, err := w.Write(buf[:c*width]); err != nil {
			return err
		}
		i += c
	}
	return nil
}
