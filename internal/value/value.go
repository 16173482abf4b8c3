package value

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/roach88/shaderwalk/internal/ir"
)

// Canonical descriptors for the scalar encodings the interpreter supports.
var (
	I32  = ir.Scalar{Kind: ir.Sint, Width: 4}
	I64  = ir.Scalar{Kind: ir.Sint, Width: 8}
	U32  = ir.Scalar{Kind: ir.Uint, Width: 4}
	U64  = ir.Scalar{Kind: ir.Uint, Width: 8}
	F32  = ir.Scalar{Kind: ir.Float, Width: 4}
	F64  = ir.Scalar{Kind: ir.Float, Width: 8}
	Bool = ir.Scalar{Kind: ir.Bool, Width: 1}
)

// Native is the set of fixed-width Go types a buffer may be reinterpreted as.
// Bools are stored as a uint8 holding 0 or 1.
type Native interface {
	~uint8 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Value is a type descriptor plus the little-endian bytes of the value.
// The zero Value has no descriptor and an empty buffer.
type Value struct {
	ty   ir.TypeInner
	data []byte
}

// FromPOD encodes x as a value of type ty.
// The buffer is exactly the native size of T regardless of ty.
func FromPOD[T Native](ty ir.TypeInner, x T) Value {
	return Value{ty: ty, data: encode(x)}
}

// FromData wraps data without checking its length against ty.
// Length is validated when the value is read or rendered.
func FromData(ty ir.TypeInner, data []byte) Value {
	return Value{ty: ty, data: data}
}

// Type returns the descriptor.
func (v Value) Type() ir.TypeInner {
	return v.ty
}

// Len returns the buffer length in bytes.
func (v Value) Len() int {
	return len(v.data)
}

// Bytes returns a copy of the buffer.
func (v Value) Bytes() []byte {
	return slices.Clone(v.data)
}

// CopyTo copies the buffer into dst and returns the number of bytes copied.
func (v Value) CopyTo(dst []byte) int {
	return copy(dst, v.data)
}

// Clone returns a value with its own copy of the buffer.
func (v Value) Clone() Value {
	return Value{ty: v.ty, data: slices.Clone(v.data)}
}

// Equal reports whether a and b have the same descriptor and bytes.
func Equal(a, b Value) bool {
	return a.ty == b.ty && bytes.Equal(a.data, b.data)
}

// String renders the value, falling back to a diagnostic form when it cannot.
func (v Value) String() string {
	s, err := v.Render()
	if err != nil {
		return fmt.Sprintf("<%s: %d bytes>", TypeName(v.ty), len(v.data))
	}
	return s
}

// Read reinterprets the whole buffer as T.
func Read[T Native](v Value) (T, error) {
	var zero T
	if n := binary.Size(zero); n != len(v.data) {
		return zero, errorf(ErrCodeTypeMismatch,
			"cannot read %T (%d bytes) from %s buffer of %d bytes", zero, n, TypeName(v.ty), len(v.data))
	}
	return decode[T](v.data), nil
}

// ReadAt reinterprets the bytes [offset, offset+sizeof(T)) as T.
func ReadAt[T Native](v Value, offset int) (T, error) {
	var zero T
	n := binary.Size(zero)
	if offset < 0 || offset+n > len(v.data) {
		return zero, errorf(ErrCodeOutOfRange,
			"cannot read %T at offset %d from %d-byte buffer", zero, offset, len(v.data))
	}
	return decode[T](v.data[offset : offset+n]), nil
}

// Write overwrites the whole buffer with x.
func Write[T Native](v *Value, x T) error {
	n := binary.Size(x)
	if n != len(v.data) {
		return errorf(ErrCodeTypeMismatch,
			"cannot write %T (%d bytes) into %s buffer of %d bytes", x, n, TypeName(v.ty), len(v.data))
	}
	put(v.data, x)
	return nil
}

// WriteAt overwrites the bytes [offset, offset+sizeof(T)) with x.
func WriteAt[T Native](v *Value, offset int, x T) error {
	n := binary.Size(x)
	if offset < 0 || offset+n > len(v.data) {
		return errorf(ErrCodeOutOfRange,
			"cannot write %T at offset %d into %d-byte buffer", x, offset, len(v.data))
	}
	put(v.data[offset:offset+n], x)
	return nil
}

// Zero allocates a zeroed value of type ty.
func Zero(ty ir.TypeInner) (Value, error) {
	n, ok := ir.SizeOf(ty)
	if !ok {
		return Value{}, errorf(ErrCodeUnsupportedType, "type %s has no value encoding", TypeName(ty))
	}
	return Value{ty: ty, data: make([]byte, n)}, nil
}

// TypeName returns the display name of a descriptor ("i32", "vec3<f32>").
func TypeName(ty ir.TypeInner) string {
	if ty == nil {
		return "<untyped>"
	}
	return ty.String()
}

func encode[T Native](x T) []byte {
	buf := make([]byte, binary.Size(x))
	put(buf, x)
	return buf
}

// put and decode only see buffers already sized to T, so the binary
// package errors are unreachable.
func put[T Native](buf []byte, x T) {
	if _, err := binary.Encode(buf, binary.LittleEndian, x); err != nil {
		panic(fmt.Sprintf("value: encode %T: %v", x, err))
	}
}

func decode[T Native](buf []byte) T {
	var x T
	if _, err := binary.Decode(buf, binary.LittleEndian, &x); err != nil {
		panic(fmt.Sprintf("value: decode %T: %v", x, err))
	}
	return x
}
