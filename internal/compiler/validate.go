package compiler

import (
	"fmt"

	"github.com/roach88/shaderwalk/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrNoEntryPoints       = "E100" // module declares no entry points
	ErrInvalidScalarWidth  = "E101" // width not supported for the scalar kind
	ErrInvalidVectorSize   = "E102" // vector size outside 2..4
	ErrTypeHandleRange     = "E103" // type handle out of range
	ErrExprHandleRange     = "E104" // expression handle out of range
	ErrForwardReference    = "E105" // expression refers to itself or a later handle
	ErrArgumentIndexRange  = "E106" // FunctionArgument index out of range
	ErrDuplicateName       = "E107" // duplicate type or function name
	ErrDuplicateEntryPoint = "E108" // duplicate entry point name within a stage
)

// ValidationError represents a module validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks structural rules the interpreter relies on: handle
// ranges, type references, vector sizes and scalar widths.
// Returns all errors found (does not fail-fast).
func Validate(m *ir.Module) []ValidationError {
	var errs []ValidationError

	if len(m.EntryPoints) == 0 {
		errs = append(errs, ValidationError{
			Field:   "entry_points",
			Message: "at least one entry point is required",
			Code:    ErrNoEntryPoints,
		})
	}

	typeNames := make(map[string]bool)
	for i, t := range m.Types {
		field := fmt.Sprintf("types[%d]", i)
		if typeNames[t.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate type name %q", t.Name),
				Code:    ErrDuplicateName,
			})
		}
		typeNames[t.Name] = true
		errs = append(errs, validateTypeInner(field, t.Inner)...)
	}

	fnNames := make(map[string]bool)
	for i := range m.Functions {
		fn := &m.Functions[i]
		if fnNames[fn.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("functions[%d].name", i),
				Message: fmt.Sprintf("duplicate function name %q", fn.Name),
				Code:    ErrDuplicateName,
			})
		}
		fnNames[fn.Name] = true
		errs = append(errs, validateFunction(m, fmt.Sprintf("functions[%d]", i), fn)...)
	}

	type stageName struct {
		stage ir.ShaderStage
		name  string
	}
	seen := make(map[stageName]bool)
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		key := stageName{ep.Stage, ep.Name}
		if seen[key] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("entry_points[%d].name", i),
				Message: fmt.Sprintf("duplicate %s entry point %q", ep.Stage, ep.Name),
				Code:    ErrDuplicateEntryPoint,
			})
		}
		seen[key] = true
		errs = append(errs, validateFunction(m, fmt.Sprintf("entry_points[%d]", i), &ep.Function)...)
	}

	return errs
}

func validateTypeInner(field string, t ir.TypeInner) []ValidationError {
	var errs []ValidationError
	switch t := t.(type) {
	case ir.Scalar:
		if !ir.ValidWidth(t.Kind, t.Width) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("width %d is not supported for %s", t.Width, t.Kind),
				Code:    ErrInvalidScalarWidth,
			})
		}
	case ir.Vector:
		if !t.Size.Valid() {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("vector size %d must be 2, 3 or 4", t.Size),
				Code:    ErrInvalidVectorSize,
			})
		}
		if !ir.ValidWidth(t.Kind, t.Width) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("width %d is not supported for %s", t.Width, t.Kind),
				Code:    ErrInvalidScalarWidth,
			})
		}
	}
	return errs
}

// functionValidator collects errors for one function.
type functionValidator struct {
	m     *ir.Module
	fn    *ir.Function
	field string
	errs  []ValidationError
}

func validateFunction(m *ir.Module, field string, fn *ir.Function) []ValidationError {
	v := &functionValidator{m: m, fn: fn, field: field}

	for i, arg := range fn.Arguments {
		v.typeRef(fmt.Sprintf("%s.arguments[%d].type", field, i), arg.Type)
	}
	if fn.Result != nil {
		v.typeRef(field+".result", *fn.Result)
	}

	for i, expr := range fn.Expressions {
		ef := fmt.Sprintf("%s.expressions[%d]", field, i)
		self := ir.ExpressionHandle(i)
		switch e := expr.(type) {
		case ir.FunctionArgument:
			if int(e.Index) >= len(fn.Arguments) {
				v.add(ef, ErrArgumentIndexRange,
					fmt.Sprintf("argument index %d out of range (%d arguments)", e.Index, len(fn.Arguments)))
			}
		case ir.Compose:
			v.typeRef(ef+".type", e.Type)
			for _, c := range e.Components {
				v.operand(ef, self, c)
			}
		case ir.Binary:
			v.operand(ef, self, e.Left)
			v.operand(ef, self, e.Right)
		case ir.Unary:
			v.operand(ef, self, e.Expr)
		case ir.Splat:
			if !e.Size.Valid() {
				v.add(ef, ErrInvalidVectorSize, fmt.Sprintf("splat size %d must be 2, 3 or 4", e.Size))
			}
			v.operand(ef, self, e.Value)
		case ir.AccessIndex:
			v.operand(ef, self, e.Base)
		case ir.Select:
			v.operand(ef, self, e.Condition)
			v.operand(ef, self, e.Accept)
			v.operand(ef, self, e.Reject)
		}
	}

	v.statements(field+".body", fn.Body)
	return v.errs
}

func (v *functionValidator) add(field, code, msg string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: msg, Code: code})
}

func (v *functionValidator) typeRef(field string, h ir.TypeHandle) {
	if int(h) >= len(v.m.Types) {
		v.add(field, ErrTypeHandleRange, fmt.Sprintf("type handle %d out of range (%d types)", h, len(v.m.Types)))
	}
}

func (v *functionValidator) handle(field string, h ir.ExpressionHandle) bool {
	if int(h) >= len(v.fn.Expressions) {
		v.add(field, ErrExprHandleRange,
			fmt.Sprintf("expression handle %d out of range (%d expressions)", h, len(v.fn.Expressions)))
		return false
	}
	return true
}

// operand checks a handle used by expression self; operands must precede it.
func (v *functionValidator) operand(field string, self, h ir.ExpressionHandle) {
	if v.handle(field, h) && h >= self {
		v.add(field, ErrForwardReference, fmt.Sprintf("expression %d refers to expression %d", self, h))
	}
}

func (v *functionValidator) statements(field string, stmts []ir.Statement) {
	for i, stmt := range stmts {
		sf := fmt.Sprintf("%s[%d]", field, i)
		switch s := stmt.(type) {
		case ir.Emit:
			for _, h := range s.Expressions {
				v.handle(sf+".emit", h)
			}
		case ir.Block:
			v.statements(sf+".block", s.Body)
		case ir.Return:
			if s.Value != nil {
				v.handle(sf+".return", *s.Value)
			}
		case ir.If:
			v.handle(sf+".if.condition", s.Condition)
			v.statements(sf+".if.accept", s.Accept)
			v.statements(sf+".if.reject", s.Reject)
		case ir.Loop:
			v.statements(sf+".loop.body", s.Body)
			v.statements(sf+".loop.continuing", s.Continuing)
		}
	}
}
