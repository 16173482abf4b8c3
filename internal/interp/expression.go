package interp

import (
	"fmt"
	"strconv"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

func (in *Interpreter) evalExpression(fr *frame, h ir.ExpressionHandle) (value.Value, error) {
	expr, err := fr.fn.Expression(h)
	if err != nil {
		return value.Value{}, &RuntimeError{
			Code:    ErrCodeInvalidHandle,
			Message: "expression handle does not resolve",
			Details: map[string]string{"handle": strconv.Itoa(int(h)), "function": fr.fn.Name},
			Err:     err,
		}
	}

	if err := in.budget.spend(expr.Kind()); err != nil {
		return value.Value{}, err
	}
	in.observer.BeforeExpression(h, expr)
	v, err := in.evalNode(fr, h, expr)
	if err != nil {
		return value.Value{}, err
	}
	in.observer.AfterExpression(h, expr, v)
	return v, nil
}

func (in *Interpreter) evalNode(fr *frame, self ir.ExpressionHandle, expr ir.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case ir.Literal:
		return literal(e.Value)

	case ir.FunctionArgument:
		args := fr.fn.Arguments
		if int(e.Index) >= len(args) {
			return value.Value{}, newError(ErrCodeInvalidHandle, e.Kind(),
				"argument index %d out of range (%d arguments)", e.Index, len(args))
		}
		name := args[e.Index].Name
		if name == "" {
			return value.Value{}, newError(ErrCodeUnnamedArgument, e.Kind(),
				"argument %d has no name", e.Index)
		}
		v, err := in.scopes.Lookup(name)
		if err != nil {
			if re, ok := err.(*RuntimeError); ok {
				re.Node = e.Kind()
			}
			return value.Value{}, err
		}
		return v, nil

	case ir.Compose:
		return in.evalCompose(fr, self, e)

	case ir.Binary:
		left, err := in.operand(fr, self, e.Left, e.Kind())
		if err != nil {
			return value.Value{}, err
		}
		right, err := in.operand(fr, self, e.Right, e.Kind())
		if err != nil {
			return value.Value{}, err
		}
		// Operands share a descriptor once TYPE_MISMATCH is ruled out, so
		// SIZE_MISMATCH here only comes from buffers built with FromData.
		return Binary(e.Op, left, right)

	case ir.Unary, ir.Splat, ir.AccessIndex, ir.Select:
		return value.Value{}, NewUnimplementedError(e.Kind())

	default:
		return value.Value{}, NewUnimplementedError(fmt.Sprintf("%T", expr))
	}
}

// operand evaluates h as an operand of expression self. Operands must come
// before the expression using them, so a cyclic arena fails instead of
// recursing without bound.
func (in *Interpreter) operand(fr *frame, self, h ir.ExpressionHandle, node string) (value.Value, error) {
	if h >= self {
		return value.Value{}, newError(ErrCodeInvalidHandle, node,
			"expression %d refers to expression %d", self, h).
			with("handle", strconv.Itoa(int(self)), "operand", strconv.Itoa(int(h)), "function", fr.fn.Name)
	}
	return in.evalExpression(fr, h)
}

// literal encodes an IR literal with its canonical descriptor.
func literal(lit ir.LiteralValue) (value.Value, error) {
	switch l := lit.(type) {
	case ir.LiteralBool:
		return value.FromBool(bool(l)), nil
	case ir.LiteralI32:
		return value.FromPOD(value.I32, int32(l)), nil
	case ir.LiteralU32:
		return value.FromPOD(value.U32, uint32(l)), nil
	case ir.LiteralF32:
		return value.FromPOD(value.F32, float32(l)), nil
	case ir.LiteralF64:
		return value.FromPOD(value.F64, float64(l)), nil
	default:
		return value.Value{}, NewUnimplementedError(fmt.Sprintf("literal %T", lit))
	}
}

// evalCompose concatenates the component encodings into a buffer sized for
// the target type. Each component occupies as many bytes as it encodes to.
func (in *Interpreter) evalCompose(fr *frame, self ir.ExpressionHandle, e ir.Compose) (value.Value, error) {
	ty, err := fr.module.Type(e.Type)
	if err != nil {
		return value.Value{}, &RuntimeError{
			Code: ErrCodeInvalidHandle, Message: "compose target type does not resolve", Node: e.Kind(), Err: err,
		}
	}
	size, ok := ir.SizeOf(ty.Inner)
	if !ok {
		return value.Value{}, newError(ErrCodeUnsupportedType, e.Kind(),
			"cannot compose a value of type %s", value.TypeName(ty.Inner))
	}

	buf := make([]byte, size)
	off := 0
	for i, h := range e.Components {
		c, err := in.operand(fr, self, h, e.Kind())
		if err != nil {
			return value.Value{}, err
		}
		if off+c.Len() > size {
			return value.Value{}, newError(ErrCodeSizeMismatch, e.Kind(),
				"component %d (%s, %d bytes) overflows %s at offset %d", i, value.TypeName(c.Type()), c.Len(), ty.Inner, off).
				with("type", ty.Inner.String(), "size", strconv.Itoa(size))
		}
		off += c.CopyTo(buf[off:])
	}
	if off != size {
		return value.Value{}, newError(ErrCodeSizeMismatch, e.Kind(),
			"components fill %d of %d bytes of %s", off, size, ty.Inner).
			with("type", ty.Inner.String(), "size", strconv.Itoa(size))
	}
	return value.FromData(ty.Inner, buf), nil
}
