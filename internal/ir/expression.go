package ir

import "fmt"

// ExpressionHandle indexes Function.Expressions.
// A handle names a value; it does not imply a side effect.
type ExpressionHandle uint32

// Expression is a sealed set of expression variants.
type Expression interface {
	expression()
	// Kind is the variant name used in diagnostics.
	Kind() string
}

// LiteralValue is a sealed set of literal encodings.
type LiteralValue interface {
	literal()
}

type (
	LiteralBool bool
	LiteralI32  int32
	LiteralU32  uint32
	LiteralF32  float32
	LiteralF64  float64
)

func (LiteralBool) literal() {}
func (LiteralI32) literal()  {}
func (LiteralU32) literal()  {}
func (LiteralF32) literal()  {}
func (LiteralF64) literal()  {}

// Literal is a constant scalar.
type Literal struct {
	Value LiteralValue
}

// FunctionArgument reads the function's Index-th argument.
type FunctionArgument struct {
	Index uint32
}

// Compose builds a vector from its components, in order.
type Compose struct {
	Type       TypeHandle
	Components []ExpressionHandle
}

// Binary applies Op lane-wise to two operands of identical type.
type Binary struct {
	Op    BinaryOperator
	Left  ExpressionHandle
	Right ExpressionHandle
}

// Unary applies Op to a single operand.
type Unary struct {
	Op   UnaryOperator
	Expr ExpressionHandle
}

// Splat broadcasts a scalar into every lane of a vector.
type Splat struct {
	Size  VectorSize
	Value ExpressionHandle
}

// AccessIndex selects a lane by constant index.
type AccessIndex struct {
	Base  ExpressionHandle
	Index uint32
}

// Select picks Accept or Reject according to Condition.
type Select struct {
	Condition ExpressionHandle
	Accept    ExpressionHandle
	Reject    ExpressionHandle
}

func (Literal) expression()          {}
func (FunctionArgument) expression() {}
func (Compose) expression()          {}
func (Binary) expression()           {}
func (Unary) expression()            {}
func (Splat) expression()            {}
func (AccessIndex) expression()      {}
func (Select) expression()           {}

func (Literal) Kind() string          { return "Literal" }
func (FunctionArgument) Kind() string { return "FunctionArgument" }
func (Compose) Kind() string          { return "Compose" }
func (Binary) Kind() string           { return "Binary" }
func (Unary) Kind() string            { return "Unary" }
func (Splat) Kind() string            { return "Splat" }
func (AccessIndex) Kind() string      { return "AccessIndex" }
func (Select) Kind() string           { return "Select" }

// BinaryOperator enumerates naga binary operators.
type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Modulo
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	ExclusiveOr
	InclusiveOr
	LogicalAnd
	LogicalOr
	ShiftLeft
	ShiftRight
)

var binaryOperatorNames = [...]string{
	Add:          "add",
	Subtract:     "subtract",
	Multiply:     "multiply",
	Divide:       "divide",
	Modulo:       "modulo",
	Equal:        "equal",
	NotEqual:     "not_equal",
	Less:         "less",
	LessEqual:    "less_equal",
	Greater:      "greater",
	GreaterEqual: "greater_equal",
	And:          "and",
	ExclusiveOr:  "exclusive_or",
	InclusiveOr:  "inclusive_or",
	LogicalAnd:   "logical_and",
	LogicalOr:    "logical_or",
	ShiftLeft:    "shift_left",
	ShiftRight:   "shift_right",
}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOperatorNames) {
		return binaryOperatorNames[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", uint8(op))
}

// ParseBinaryOperator maps a snake_case operator name to a BinaryOperator.
func ParseBinaryOperator(s string) (BinaryOperator, error) {
	for i, name := range binaryOperatorNames {
		if name == s {
			return BinaryOperator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}

// UnaryOperator enumerates naga unary operators.
type UnaryOperator uint8

const (
	Negate UnaryOperator = iota
	LogicalNot
	BitwiseNot
)

var unaryOperatorNames = [...]string{
	Negate:     "negate",
	LogicalNot: "logical_not",
	BitwiseNot: "bitwise_not",
}

func (op UnaryOperator) String() string {
	if int(op) < len(unaryOperatorNames) {
		return unaryOperatorNames[op]
	}
	return fmt.Sprintf("UnaryOperator(%d)", uint8(op))
}

// ParseUnaryOperator maps a snake_case operator name to a UnaryOperator.
func ParseUnaryOperator(s string) (UnaryOperator, error) {
	for i, name := range unaryOperatorNames {
		if name == s {
			return UnaryOperator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unary operator %q", s)
}
