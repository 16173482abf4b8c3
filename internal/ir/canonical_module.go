package ir

import (
	"fmt"
	"math"
)

// Canonical returns the module as an IRObject suitable for MarshalCanonical.
// Float literals are encoded as "f32:0x3f800000" style bit patterns so the
// encoding stays exact and float-free.
func (m *Module) Canonical() IRObject {
	types := make(IRArray, len(m.Types))
	for i, t := range m.Types {
		types[i] = IRObject{
			"name":  IRString(t.Name),
			"inner": canonicalTypeInner(t.Inner),
		}
	}

	functions := make(IRArray, len(m.Functions))
	for i := range m.Functions {
		functions[i] = canonicalFunction(&m.Functions[i])
	}

	entryPoints := make(IRArray, len(m.EntryPoints))
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		entryPoints[i] = IRObject{
			"name":     IRString(ep.Name),
			"stage":    IRString(ep.Stage.String()),
			"function": canonicalFunction(&ep.Function),
		}
	}

	return IRObject{
		"types":        types,
		"functions":    functions,
		"entry_points": entryPoints,
		"ir_version":   IRString(IRVersion),
	}
}

func canonicalTypeInner(t TypeInner) IRValue {
	switch t := t.(type) {
	case Scalar:
		return IRObject{"scalar": IRObject{
			"kind":  IRString(t.Kind.String()),
			"width": IRInt(t.Width),
		}}
	case Vector:
		return IRObject{"vector": IRObject{
			"size":  IRInt(t.Size),
			"kind":  IRString(t.Kind.String()),
			"width": IRInt(t.Width),
		}}
	case Opaque:
		return IRObject{"opaque": IRString(t.Name)}
	default:
		return IRObject{"unknown": IRString(fmt.Sprintf("%T", t))}
	}
}

func canonicalFunction(f *Function) IRObject {
	args := make(IRArray, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = IRObject{"name": IRString(a.Name), "type": IRInt(a.Type)}
	}
	exprs := make(IRArray, len(f.Expressions))
	for i, e := range f.Expressions {
		exprs[i] = canonicalExpression(e)
	}
	obj := IRObject{
		"name":        IRString(f.Name),
		"arguments":   args,
		"expressions": exprs,
		"body":        canonicalStatements(f.Body),
	}
	if f.Result != nil {
		obj["result"] = IRInt(*f.Result)
	}
	return obj
}

func handles(hs []ExpressionHandle) IRArray {
	arr := make(IRArray, len(hs))
	for i, h := range hs {
		arr[i] = IRInt(h)
	}
	return arr
}

func canonicalExpression(e Expression) IRValue {
	switch e := e.(type) {
	case Literal:
		return IRObject{"literal": canonicalLiteral(e.Value)}
	case FunctionArgument:
		return IRObject{"argument": IRInt(e.Index)}
	case Compose:
		return IRObject{"compose": IRObject{"type": IRInt(e.Type), "components": handles(e.Components)}}
	case Binary:
		return IRObject{"binary": IRObject{
			"op":    IRString(e.Op.String()),
			"left":  IRInt(e.Left),
			"right": IRInt(e.Right),
		}}
	case Unary:
		return IRObject{"unary": IRObject{"op": IRString(e.Op.String()), "expr": IRInt(e.Expr)}}
	case Splat:
		return IRObject{"splat": IRObject{"size": IRInt(e.Size), "value": IRInt(e.Value)}}
	case AccessIndex:
		return IRObject{"access_index": IRObject{"base": IRInt(e.Base), "index": IRInt(e.Index)}}
	case Select:
		return IRObject{"select": IRObject{
			"condition": IRInt(e.Condition),
			"accept":    IRInt(e.Accept),
			"reject":    IRInt(e.Reject),
		}}
	default:
		return IRObject{"unknown": IRString(fmt.Sprintf("%T", e))}
	}
}

func canonicalLiteral(v LiteralValue) IRValue {
	switch v := v.(type) {
	case LiteralBool:
		return IRObject{"bool": IRBool(v)}
	case LiteralI32:
		return IRObject{"i32": IRInt(v)}
	case LiteralU32:
		return IRObject{"u32": IRInt(v)}
	case LiteralF32:
		return IRObject{"f32": IRString(fmt.Sprintf("f32:0x%08x", math.Float32bits(float32(v))))}
	case LiteralF64:
		return IRObject{"f64": IRString(fmt.Sprintf("f64:0x%016x", math.Float64bits(float64(v))))}
	default:
		return IRObject{"unknown": IRString(fmt.Sprintf("%T", v))}
	}
}

func canonicalStatements(stmts []Statement) IRArray {
	arr := make(IRArray, len(stmts))
	for i, s := range stmts {
		arr[i] = canonicalStatement(s)
	}
	return arr
}

func canonicalStatement(s Statement) IRValue {
	switch s := s.(type) {
	case Emit:
		return IRObject{"emit": handles(s.Expressions)}
	case Block:
		return IRObject{"block": canonicalStatements(s.Body)}
	case Return:
		if s.Value == nil {
			return IRObject{"return": IRBool(false)}
		}
		return IRObject{"return": IRInt(*s.Value)}
	case If:
		return IRObject{"if": IRObject{
			"condition": IRInt(s.Condition),
			"accept":    canonicalStatements(s.Accept),
			"reject":    canonicalStatements(s.Reject),
		}}
	case Loop:
		return IRObject{"loop": IRObject{
			"body":       canonicalStatements(s.Body),
			"continuing": canonicalStatements(s.Continuing),
		}}
	case Break:
		return IRObject{"break": IRBool(true)}
	case Continue:
		return IRObject{"continue": IRBool(true)}
	case Kill:
		return IRObject{"kill": IRBool(true)}
	default:
		return IRObject{"unknown": IRString(fmt.Sprintf("%T", s))}
	}
}
