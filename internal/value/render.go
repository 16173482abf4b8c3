package value

import (
	"strconv"
	"strings"

	"github.com/roach88/shaderwalk/internal/ir"
)

// Render formats the value for display: decimal integers, shortest
// round-trip floats without an exponent, 0/1 for bool and "[a, b, c]"
// for vectors.
func (v Value) Render() (string, error) {
	switch t := v.ty.(type) {
	case ir.Scalar:
		if len(v.data) != int(t.Width) {
			return "", errorf(ErrCodeTypeMismatch,
				"%s expects %d bytes, buffer has %d", t, t.Width, len(v.data))
		}
		return renderLane(v, t, 0)
	case ir.Vector:
		lane := t.Scalar()
		if want := int(t.Size) * int(t.Width); len(v.data) != want {
			return "", errorf(ErrCodeTypeMismatch,
				"%s expects %d bytes, buffer has %d", t, want, len(v.data))
		}
		parts := make([]string, t.Size)
		for i := range parts {
			s, err := renderLane(v, lane, i*int(t.Width))
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", errorf(ErrCodeUnsupportedType, "cannot render value of type %s", TypeName(v.ty))
	}
}

func renderLane(v Value, s ir.Scalar, off int) (string, error) {
	switch s {
	case I32:
		x, err := ReadAt[int32](v, off)
		return strconv.FormatInt(int64(x), 10), err
	case I64:
		x, err := ReadAt[int64](v, off)
		return strconv.FormatInt(x, 10), err
	case U32:
		x, err := ReadAt[uint32](v, off)
		return strconv.FormatUint(uint64(x), 10), err
	case U64:
		x, err := ReadAt[uint64](v, off)
		return strconv.FormatUint(x, 10), err
	case F32:
		x, err := ReadAt[float32](v, off)
		return strconv.FormatFloat(float64(x), 'f', -1, 32), err
	case F64:
		x, err := ReadAt[float64](v, off)
		return strconv.FormatFloat(x, 'f', -1, 64), err
	case Bool:
		x, err := ReadAt[uint8](v, off)
		return strconv.FormatUint(uint64(x), 10), err
	}
	return "", errorf(ErrCodeUnsupportedType, "no encoding for scalar %s (width %d)", s, s.Width)
}
