package ir

import "fmt"

// Module is a parsed shader program. It is read-only during interpretation.
type Module struct {
	Types       []Type
	Functions   []Function
	EntryPoints []EntryPoint
}

// Argument describes a declared parameter.
// Name is empty when the front-end could not attach one.
type Argument struct {
	Name string
	Type TypeHandle
}

// Function owns an expression arena and a statement body.
type Function struct {
	Name        string
	Arguments   []Argument
	Result      *TypeHandle
	Expressions []Expression
	Body        []Statement
}

// EntryPoint is a function tagged with the pipeline stage it runs in.
type EntryPoint struct {
	Name     string
	Stage    ShaderStage
	Function Function
}

// Type resolves a type handle.
func (m *Module) Type(h TypeHandle) (Type, error) {
	if int(h) >= len(m.Types) {
		return Type{}, fmt.Errorf("type handle %d out of range (%d types)", h, len(m.Types))
	}
	return m.Types[h], nil
}

// TypeByName returns the handle of the first type named name.
func (m *Module) TypeByName(name string) (TypeHandle, bool) {
	for i, t := range m.Types {
		if t.Name == name {
			return TypeHandle(i), true
		}
	}
	return 0, false
}

// Expression resolves an expression handle within f.
func (f *Function) Expression(h ExpressionHandle) (Expression, error) {
	if int(h) >= len(f.Expressions) {
		return nil, fmt.Errorf("expression handle %d out of range in function %q (%d expressions)",
			h, f.Name, len(f.Expressions))
	}
	return f.Expressions[h], nil
}
