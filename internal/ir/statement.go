package ir

// Statement is a sealed set of statement variants.
type Statement interface {
	statement()
	// Kind is the variant name used in diagnostics.
	Kind() string
}

// Emit marks expressions as evaluated, in order.
type Emit struct {
	Expressions []ExpressionHandle
}

// Block runs Body in a nested scope.
type Block struct {
	Body []Statement
}

// Return yields Value, or nothing when Value is nil.
type Return struct {
	Value *ExpressionHandle
}

// If runs Accept or Reject according to Condition.
type If struct {
	Condition ExpressionHandle
	Accept    []Statement
	Reject    []Statement
}

// Loop runs Body then Continuing until a Break.
type Loop struct {
	Body       []Statement
	Continuing []Statement
}

// Break leaves the innermost Loop.
type Break struct{}

// Continue jumps to the Continuing block of the innermost Loop.
type Continue struct{}

// Kill discards the current fragment.
type Kill struct{}

func (Emit) statement()     {}
func (Block) statement()    {}
func (Return) statement()   {}
func (If) statement()       {}
func (Loop) statement()     {}
func (Break) statement()    {}
func (Continue) statement() {}
func (Kill) statement()     {}

func (Emit) Kind() string     { return "Emit" }
func (Block) Kind() string    { return "Block" }
func (Return) Kind() string   { return "Return" }
func (If) Kind() string       { return "If" }
func (Loop) Kind() string     { return "Loop" }
func (Break) Kind() string    { return "Break" }
func (Continue) Kind() string { return "Continue" }
func (Kill) Kind() string     { return "Kill" }
