package value

import (
	"strconv"
	"strings"

	"github.com/roach88/shaderwalk/internal/ir"
)

// Parse decodes argument text into a value of type ty.
//
// Scalars take a single token. Vectors take comma-separated tokens, one per
// lane; the buffer is sized by the token count, so a wrong lane count shows
// up as a length mismatch against ir.SizeOf(ty) rather than a parse error.
func Parse(ty ir.TypeInner, text string) (Value, error) {
	switch t := ty.(type) {
	case ir.Scalar:
		buf, err := parseLane(t, strings.TrimSpace(text), nil)
		if err != nil {
			return Value{}, err
		}
		return Value{ty: ty, data: buf}, nil
	case ir.Vector:
		lane := t.Scalar()
		tokens := strings.Split(text, ",")
		buf := make([]byte, 0, len(tokens)*int(t.Width))
		for i, tok := range tokens {
			var err error
			buf, err = parseLane(lane, strings.TrimSpace(tok), buf)
			if err != nil {
				if ve, ok := err.(*Error); ok && ve.Code == ErrCodeParseFailure {
					ve.Message = "lane " + strconv.Itoa(i) + ": " + ve.Message
				}
				return Value{}, err
			}
		}
		return Value{ty: ty, data: buf}, nil
	default:
		return Value{}, errorf(ErrCodeUnsupportedType, "cannot parse a value of type %s", TypeName(ty))
	}
}

// parseLane appends the encoding of tok to buf.
func parseLane(s ir.Scalar, tok string, buf []byte) ([]byte, error) {
	fail := func(err error) ([]byte, error) {
		return nil, &Error{Code: ErrCodeParseFailure, Message: strconv.Quote(tok) + " is not a valid " + s.String(), Err: err}
	}
	switch s {
	case I32:
		x, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(int32(x))...), nil
	case I64:
		x, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(x)...), nil
	case U32:
		x, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(uint32(x))...), nil
	case U64:
		x, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(x)...), nil
	case F32:
		x, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(float32(x))...), nil
	case F64:
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fail(err)
		}
		return append(buf, encode(x)...), nil
	case Bool:
		x, err := strconv.ParseBool(tok)
		if err != nil {
			return fail(err)
		}
		return append(buf, boolByte(x)), nil
	}
	return nil, errorf(ErrCodeUnsupportedType, "no encoding for scalar %s (width %d)", s, s.Width)
}

// FromBool encodes b as a Bool scalar.
func FromBool(b bool) Value {
	return Value{ty: Bool, data: []byte{boolByte(b)}}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
