package interp

import (
	"errors"
	"math"
	"strconv"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

var errDivisionByZero = errors.New("integer division by zero")

// laneFunc combines one lane of each operand.
type laneFunc[T value.Native] func(a, b T) (T, error)

type integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

// Binary applies op to two values of identical type. Vectors are combined
// lane by lane with no cross-lane interaction.
//
// Descriptors are compared before buffer lengths, so f32 against f64 is a
// TYPE_MISMATCH; SIZE_MISMATCH means the buffers disagree with each other
// or with their shared descriptor.
func Binary(op ir.BinaryOperator, left, right value.Value) (value.Value, error) {
	lane, lanes, ok := laneLayout(left.Type())
	if !ok {
		return value.Value{}, newError(ErrCodeUnsupportedType, "Binary",
			"operand type %s has no lane layout", value.TypeName(left.Type()))
	}
	if left.Type() != right.Type() {
		return value.Value{}, newError(ErrCodeTypeMismatch, "Binary",
			"%s operands disagree: %s vs %s", op, value.TypeName(left.Type()), value.TypeName(right.Type())).
			with("left", value.TypeName(left.Type()), "right", value.TypeName(right.Type()))
	}
	if left.Len() != right.Len() {
		return value.Value{}, newError(ErrCodeSizeMismatch, "Binary",
			"%s operands have %d and %d bytes", op, left.Len(), right.Len()).
			with("left", strconv.Itoa(left.Len()), "right", strconv.Itoa(right.Len()))
	}
	if want := lanes * int(lane.Width); left.Len() != want {
		return value.Value{}, newError(ErrCodeSizeMismatch, "Binary",
			"%s operands have %d bytes, %s needs %d", op, left.Len(), value.TypeName(left.Type()), want)
	}

	switch lane {
	case value.I32:
		return apply(op, lane, lanes, left, right, integerOp[int32](op, 32))
	case value.I64:
		return apply(op, lane, lanes, left, right, integerOp[int64](op, 64))
	case value.U32:
		return apply(op, lane, lanes, left, right, integerOp[uint32](op, 32))
	case value.U64:
		return apply(op, lane, lanes, left, right, integerOp[uint64](op, 64))
	case value.F32:
		return apply(op, lane, lanes, left, right, floatOp[float32](op))
	case value.F64:
		return apply(op, lane, lanes, left, right, floatOp[float64](op))
	case value.Bool:
		return apply(op, lane, lanes, left, right, boolOp(op))
	}
	return value.Value{}, newError(ErrCodeUnsupportedType, "Binary",
		"no arithmetic for scalar %s (width %d)", lane, lane.Width)
}

// laneLayout returns the lane scalar and lane count of a scalar or vector type.
func laneLayout(t ir.TypeInner) (ir.Scalar, int, bool) {
	switch t := t.(type) {
	case ir.Scalar:
		return t, 1, true
	case ir.Vector:
		return t.Scalar(), int(t.Size), true
	}
	return ir.Scalar{}, 0, false
}

// apply runs f on every lane and writes each result at the lane's offset
// in a fresh buffer tagged with the operands' descriptor.
func apply[T value.Native](op ir.BinaryOperator, lane ir.Scalar, lanes int, left, right value.Value, f laneFunc[T]) (value.Value, error) {
	if f == nil {
		return value.Value{}, newError(ErrCodeUnsupportedOperator, "Binary",
			"operator %s is not defined for %s", op, lane.Kind).
			with("op", op.String(), "kind", lane.Kind.String())
	}

	out := value.FromData(left.Type(), make([]byte, left.Len()))
	width := int(lane.Width)
	for i := range lanes {
		off := i * width
		a, err := value.ReadAt[T](left, off)
		if err != nil {
			return value.Value{}, wrapValueError("Binary", err)
		}
		b, err := value.ReadAt[T](right, off)
		if err != nil {
			return value.Value{}, wrapValueError("Binary", err)
		}
		c, err := f(a, b)
		if errors.Is(err, errDivisionByZero) {
			return value.Value{}, newError(ErrCodeDivisionByZero, "Binary",
				"%s by zero in lane %d", op, i).
				with("op", op.String(), "lane", strconv.Itoa(i))
		}
		if err != nil {
			return value.Value{}, err
		}
		if err := value.WriteAt(&out, off, c); err != nil {
			return value.Value{}, wrapValueError("Binary", err)
		}
	}
	return out, nil
}

// integerOp returns the lane function for op on integers of the given bit
// width, or nil when op is not an integer operator. Arithmetic wraps;
// shift counts are taken modulo the bit width.
func integerOp[T integer](op ir.BinaryOperator, bits uint64) laneFunc[T] {
	mask := bits - 1
	switch op {
	case ir.Add:
		return func(a, b T) (T, error) { return a + b, nil }
	case ir.Subtract:
		return func(a, b T) (T, error) { return a - b, nil }
	case ir.Multiply:
		return func(a, b T) (T, error) { return a * b, nil }
	case ir.Divide:
		return func(a, b T) (T, error) {
			if b == 0 {
				return 0, errDivisionByZero
			}
			return a / b, nil
		}
	case ir.Modulo:
		return func(a, b T) (T, error) {
			if b == 0 {
				return 0, errDivisionByZero
			}
			return a % b, nil
		}
	case ir.And:
		return func(a, b T) (T, error) { return a & b, nil }
	case ir.ExclusiveOr:
		return func(a, b T) (T, error) { return a ^ b, nil }
	case ir.InclusiveOr:
		return func(a, b T) (T, error) { return a | b, nil }
	case ir.ShiftLeft:
		return func(a, b T) (T, error) { return a << (uint64(b) & mask), nil }
	case ir.ShiftRight:
		return func(a, b T) (T, error) { return a >> (uint64(b) & mask), nil }
	}
	return nil
}

// floatOp returns the lane function for op on floats, or nil.
// Modulo is the truncated remainder (sign follows the dividend).
func floatOp[T float](op ir.BinaryOperator) laneFunc[T] {
	switch op {
	case ir.Add:
		return func(a, b T) (T, error) { return a + b, nil }
	case ir.Subtract:
		return func(a, b T) (T, error) { return a - b, nil }
	case ir.Multiply:
		return func(a, b T) (T, error) { return a * b, nil }
	case ir.Divide:
		return func(a, b T) (T, error) { return a / b, nil }
	case ir.Modulo:
		return func(a, b T) (T, error) { return T(math.Mod(float64(a), float64(b))), nil }
	}
	return nil
}

// boolOp works bitwise on the 0/1 byte encoding.
func boolOp(op ir.BinaryOperator) laneFunc[uint8] {
	switch op {
	case ir.And:
		return func(a, b uint8) (uint8, error) { return a & b, nil }
	case ir.ExclusiveOr:
		return func(a, b uint8) (uint8, error) { return a ^ b, nil }
	case ir.InclusiveOr:
		return func(a, b uint8) (uint8, error) { return a | b, nil }
	case ir.Equal:
		return func(a, b uint8) (uint8, error) { return truth(a == b), nil }
	case ir.NotEqual:
		return func(a, b uint8) (uint8, error) { return truth(a != b), nil }
	}
	return nil
}

func truth(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
