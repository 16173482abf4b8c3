package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/shaderwalk/internal/ir"
)

// CompileString compiles CUE source text into a module.
// filename is used only for error positions.
func CompileString(src, filename string) (*ir.Module, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileModule(v)
}

// CompileModule converts a CUE value into an IR module.
// Uses the CUE Go API directly:
//
//	types: {
//		f32: scalar: {kind: "float", width: 4}
//		vec3f: vector: {size: 3, kind: "float", width: 4}
//	}
//	entry_points: [{
//		name: "main", stage: "vertex"
//		arguments: [{name: "a", type: "vec3f"}]
//		result: "vec3f"
//		expressions: [{argument: 0}, {literal: f32: 1}, ...]
//		body: [{emit: [2, 3]}, {return: 3}]
//	}]
//
// Types are referenced by name and numbered in declaration order.
// Expressions and statements are single-key structs naming the variant.
func CompileModule(v cue.Value) (*ir.Module, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &moduleCompiler{typeIndex: make(map[string]ir.TypeHandle)}
	m := &ir.Module{}

	if typesVal := v.LookupPath(cue.ParsePath("types")); typesVal.Exists() {
		iter, err := typesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Label()
			inner, err := c.typeInner("types."+name, iter.Value())
			if err != nil {
				return nil, err
			}
			c.typeIndex[name] = ir.TypeHandle(len(m.Types))
			m.Types = append(m.Types, ir.Type{Name: name, Inner: inner})
		}
	}

	if fnsVal := v.LookupPath(cue.ParsePath("functions")); fnsVal.Exists() {
		err := eachElem(fnsVal, "functions", func(field string, fv cue.Value) error {
			fn, err := c.function(field, fv)
			if err != nil {
				return err
			}
			m.Functions = append(m.Functions, *fn)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	epsVal := v.LookupPath(cue.ParsePath("entry_points"))
	if !epsVal.Exists() {
		return nil, &CompileError{
			Field:   "entry_points",
			Message: "entry_points is required",
			Pos:     v.Pos(),
		}
	}
	err := eachElem(epsVal, "entry_points", func(field string, ev cue.Value) error {
		stageStr, err := requireString(ev, field, "stage")
		if err != nil {
			return err
		}
		stage, err := ir.ParseShaderStage(stageStr)
		if err != nil {
			return &CompileError{Field: field + ".stage", Message: err.Error(), Pos: ev.LookupPath(cue.ParsePath("stage")).Pos()}
		}
		fn, err := c.function(field, ev)
		if err != nil {
			return err
		}
		m.EntryPoints = append(m.EntryPoints, ir.EntryPoint{Name: fn.Name, Stage: stage, Function: *fn})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

type moduleCompiler struct {
	typeIndex map[string]ir.TypeHandle
}

func (c *moduleCompiler) typeInner(field string, v cue.Value) (ir.TypeInner, error) {
	label, body, err := variant(field, v)
	if err != nil {
		return nil, err
	}
	field += "." + label

	switch label {
	case "scalar":
		kind, width, err := kindWidth(field, body)
		if err != nil {
			return nil, err
		}
		return ir.Scalar{Kind: kind, Width: width}, nil

	case "vector":
		kind, width, err := kindWidth(field, body)
		if err != nil {
			return nil, err
		}
		size, err := requireInt(body, field, "size", 0, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return ir.Vector{Size: ir.VectorSize(size), Kind: kind, Width: width}, nil

	case "opaque":
		name, err := body.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Opaque{Name: name}, nil
	}
	return nil, &CompileError{Field: field, Message: "type must be one of scalar, vector, opaque", Pos: body.Pos()}
}

func kindWidth(field string, v cue.Value) (ir.ScalarKind, uint8, error) {
	kindStr, err := requireString(v, field, "kind")
	if err != nil {
		return 0, 0, err
	}
	kind, err := ir.ParseScalarKind(kindStr)
	if err != nil {
		return 0, 0, &CompileError{Field: field + ".kind", Message: err.Error(), Pos: v.LookupPath(cue.ParsePath("kind")).Pos()}
	}
	width, err := requireInt(v, field, "width", 1, math.MaxUint8)
	if err != nil {
		return 0, 0, err
	}
	return kind, uint8(width), nil
}

func (c *moduleCompiler) typeRef(field string, v cue.Value) (ir.TypeHandle, error) {
	name, err := v.String()
	if err != nil {
		return 0, formatCUEError(err)
	}
	h, ok := c.typeIndex[name]
	if !ok {
		return 0, &CompileError{Field: field, Message: fmt.Sprintf("unknown type %q", name), Pos: v.Pos()}
	}
	return h, nil
}

func (c *moduleCompiler) function(field string, v cue.Value) (*ir.Function, error) {
	name, err := requireString(v, field, "name")
	if err != nil {
		return nil, err
	}
	fn := &ir.Function{Name: name}

	if argsVal := v.LookupPath(cue.ParsePath("arguments")); argsVal.Exists() {
		err := eachElem(argsVal, field+".arguments", func(af string, av cue.Value) error {
			var arg ir.Argument
			// unnamed arguments are legal IR; binding them fails at run time
			if nv := av.LookupPath(cue.ParsePath("name")); nv.Exists() {
				s, err := nv.String()
				if err != nil {
					return formatCUEError(err)
				}
				arg.Name = s
			}
			tv := av.LookupPath(cue.ParsePath("type"))
			if !tv.Exists() {
				return &CompileError{Field: af + ".type", Message: "type is required", Pos: av.Pos()}
			}
			arg.Type, err = c.typeRef(af+".type", tv)
			if err != nil {
				return err
			}
			fn.Arguments = append(fn.Arguments, arg)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if rv := v.LookupPath(cue.ParsePath("result")); rv.Exists() && rv.Kind() != cue.NullKind {
		h, err := c.typeRef(field+".result", rv)
		if err != nil {
			return nil, err
		}
		fn.Result = &h
	}

	if ev := v.LookupPath(cue.ParsePath("expressions")); ev.Exists() {
		err := eachElem(ev, field+".expressions", func(ef string, xv cue.Value) error {
			expr, err := c.expression(ef, xv)
			if err != nil {
				return err
			}
			fn.Expressions = append(fn.Expressions, expr)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	bv := v.LookupPath(cue.ParsePath("body"))
	if !bv.Exists() {
		return nil, &CompileError{Field: field + ".body", Message: "body is required", Pos: v.Pos()}
	}
	fn.Body, err = c.statements(field+".body", bv)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (c *moduleCompiler) expression(field string, v cue.Value) (ir.Expression, error) {
	label, body, err := variant(field, v)
	if err != nil {
		return nil, err
	}
	field += "." + label

	switch label {
	case "literal":
		return literal(field, body)

	case "argument":
		idx, err := uintValue(field, body, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return ir.FunctionArgument{Index: uint32(idx)}, nil

	case "compose":
		tv := body.LookupPath(cue.ParsePath("type"))
		if !tv.Exists() {
			return nil, &CompileError{Field: field + ".type", Message: "type is required", Pos: body.Pos()}
		}
		ty, err := c.typeRef(field+".type", tv)
		if err != nil {
			return nil, err
		}
		comps, err := handleList(field+".components", body.LookupPath(cue.ParsePath("components")))
		if err != nil {
			return nil, err
		}
		return ir.Compose{Type: ty, Components: comps}, nil

	case "binary":
		opStr, err := requireString(body, field, "op")
		if err != nil {
			return nil, err
		}
		op, err := ir.ParseBinaryOperator(opStr)
		if err != nil {
			return nil, &CompileError{Field: field + ".op", Message: err.Error(), Pos: body.Pos()}
		}
		hs, err := handleFields(field, body, "left", "right")
		if err != nil {
			return nil, err
		}
		return ir.Binary{Op: op, Left: hs[0], Right: hs[1]}, nil

	case "unary":
		opStr, err := requireString(body, field, "op")
		if err != nil {
			return nil, err
		}
		op, err := ir.ParseUnaryOperator(opStr)
		if err != nil {
			return nil, &CompileError{Field: field + ".op", Message: err.Error(), Pos: body.Pos()}
		}
		hs, err := handleFields(field, body, "expr")
		if err != nil {
			return nil, err
		}
		return ir.Unary{Op: op, Expr: hs[0]}, nil

	case "splat":
		size, err := requireInt(body, field, "size", 0, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		hs, err := handleFields(field, body, "value")
		if err != nil {
			return nil, err
		}
		return ir.Splat{Size: ir.VectorSize(size), Value: hs[0]}, nil

	case "access_index":
		hs, err := handleFields(field, body, "base")
		if err != nil {
			return nil, err
		}
		idx, err := requireInt(body, field, "index", 0, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return ir.AccessIndex{Base: hs[0], Index: uint32(idx)}, nil

	case "select":
		hs, err := handleFields(field, body, "condition", "accept", "reject")
		if err != nil {
			return nil, err
		}
		return ir.Select{Condition: hs[0], Accept: hs[1], Reject: hs[2]}, nil
	}
	return nil, &CompileError{Field: field, Message: fmt.Sprintf("unknown expression kind %q", label), Pos: v.Pos()}
}

func literal(field string, v cue.Value) (ir.Expression, error) {
	label, body, err := variant(field, v)
	if err != nil {
		return nil, err
	}
	field += "." + label

	switch label {
	case "bool":
		b, err := body.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Literal{Value: ir.LiteralBool(b)}, nil
	case "i32":
		n, err := body.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, &CompileError{Field: field, Message: fmt.Sprintf("%d does not fit in i32", n), Pos: body.Pos()}
		}
		return ir.Literal{Value: ir.LiteralI32(n)}, nil
	case "u32":
		n, err := uintValue(field, body, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return ir.Literal{Value: ir.LiteralU32(n)}, nil
	case "f32":
		f, err := body.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Literal{Value: ir.LiteralF32(float32(f))}, nil
	case "f64":
		f, err := body.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Literal{Value: ir.LiteralF64(f)}, nil
	}
	return nil, &CompileError{Field: field, Message: "literal must be one of bool, i32, u32, f32, f64", Pos: v.Pos()}
}

func (c *moduleCompiler) statements(field string, v cue.Value) ([]ir.Statement, error) {
	stmts := []ir.Statement{}
	err := eachElem(v, field, func(sf string, sv cue.Value) error {
		stmt, err := c.statement(sf, sv)
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
		return nil
	})
	return stmts, err
}

func (c *moduleCompiler) statement(field string, v cue.Value) (ir.Statement, error) {
	label, body, err := variant(field, v)
	if err != nil {
		return nil, err
	}
	field += "." + label

	switch label {
	case "emit":
		hs, err := handleList(field, body)
		if err != nil {
			return nil, err
		}
		return ir.Emit{Expressions: hs}, nil

	case "block":
		stmts, err := c.statements(field, body)
		if err != nil {
			return nil, err
		}
		return ir.Block{Body: stmts}, nil

	case "return":
		if body.Kind() == cue.NullKind {
			return ir.Return{}, nil
		}
		h, err := uintValue(field, body, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		eh := ir.ExpressionHandle(h)
		return ir.Return{Value: &eh}, nil

	case "if":
		hs, err := handleFields(field, body, "condition")
		if err != nil {
			return nil, err
		}
		accept, err := c.optionalStatements(field+".accept", body.LookupPath(cue.ParsePath("accept")))
		if err != nil {
			return nil, err
		}
		reject, err := c.optionalStatements(field+".reject", body.LookupPath(cue.ParsePath("reject")))
		if err != nil {
			return nil, err
		}
		return ir.If{Condition: hs[0], Accept: accept, Reject: reject}, nil

	case "loop":
		loopBody, err := c.optionalStatements(field+".body", body.LookupPath(cue.ParsePath("body")))
		if err != nil {
			return nil, err
		}
		continuing, err := c.optionalStatements(field+".continuing", body.LookupPath(cue.ParsePath("continuing")))
		if err != nil {
			return nil, err
		}
		return ir.Loop{Body: loopBody, Continuing: continuing}, nil

	case "break":
		return ir.Break{}, nil
	case "continue":
		return ir.Continue{}, nil
	case "kill":
		return ir.Kill{}, nil
	}
	return nil, &CompileError{Field: field, Message: fmt.Sprintf("unknown statement kind %q", label), Pos: v.Pos()}
}

func (c *moduleCompiler) optionalStatements(field string, v cue.Value) ([]ir.Statement, error) {
	if !v.Exists() {
		return nil, nil
	}
	return c.statements(field, v)
}

// variant returns the single label and value of a one-key struct.
func variant(field string, v cue.Value) (string, cue.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return "", cue.Value{}, formatCUEError(err)
	}
	var label string
	var body cue.Value
	n := 0
	for iter.Next() {
		label, body = iter.Label(), iter.Value()
		n++
	}
	if n != 1 {
		return "", cue.Value{}, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("expected exactly one variant key, found %d", n),
			Pos:     v.Pos(),
		}
	}
	return label, body, nil
}

// eachElem calls fn for every element of a CUE list, with the element's field path.
func eachElem(v cue.Value, field string, fn func(field string, elem cue.Value) error) error {
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(fmt.Sprintf("%s[%d]", field, i), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func requireString(v cue.Value, field, name string) (string, error) {
	sv := v.LookupPath(cue.ParsePath(name))
	if !sv.Exists() {
		return "", &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
	}
	s, err := sv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func requireInt(v cue.Value, field, name string, lo, hi int64) (int64, error) {
	iv := v.LookupPath(cue.ParsePath(name))
	if !iv.Exists() {
		return 0, &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
	}
	n, err := iv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if n < lo || n > hi {
		return 0, &CompileError{Field: field + "." + name, Message: fmt.Sprintf("%d is out of range [%d, %d]", n, lo, hi), Pos: iv.Pos()}
	}
	return n, nil
}

func uintValue(field string, v cue.Value, hi uint64) (uint64, error) {
	n, err := v.Uint64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if n > hi {
		return 0, &CompileError{Field: field, Message: fmt.Sprintf("%d is out of range", n), Pos: v.Pos()}
	}
	return n, nil
}

func handleFields(field string, v cue.Value, names ...string) ([]ir.ExpressionHandle, error) {
	hs := make([]ir.ExpressionHandle, len(names))
	for i, name := range names {
		hv := v.LookupPath(cue.ParsePath(name))
		if !hv.Exists() {
			return nil, &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
		}
		n, err := uintValue(field+"."+name, hv, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		hs[i] = ir.ExpressionHandle(n)
	}
	return hs, nil
}

func handleList(field string, v cue.Value) ([]ir.ExpressionHandle, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: field, Message: "handle list is required"}
	}
	var hs []ir.ExpressionHandle
	err := eachElem(v, field, func(ef string, ev cue.Value) error {
		n, err := uintValue(ef, ev, math.MaxUint32)
		if err != nil {
			return err
		}
		hs = append(hs, ir.ExpressionHandle(n))
		return nil
	})
	return hs, err
}

// CompileError is a module compilation failure with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts the first CUE error into a positioned CompileError.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
