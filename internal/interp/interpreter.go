package interp

import (
	"context"
	"fmt"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// Interpreter walks the IR of one entry point.
// An Interpreter runs one module at a time; it is not safe for concurrent use.
type Interpreter struct {
	stage    ir.ShaderStage
	observer Observer
	legacy   bool
	budget   stepBudget
	scopes   ScopeStack
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithObserver installs an observer that is called before each statement
// and around each expression.
func WithObserver(o Observer) Option {
	return func(in *Interpreter) {
		if o != nil {
			in.observer = o
		}
	}
}

// WithLegacySequencing makes a statement list yield the value of its last
// statement instead of stopping at the first Return.
// It exists to reproduce results from older interpreters.
func WithLegacySequencing() Option {
	return func(in *Interpreter) {
		in.legacy = true
	}
}

// WithMaxSteps limits the number of expression evaluations in one run.
// n <= 0 removes the limit.
func WithMaxSteps(n int) Option {
	return func(in *Interpreter) {
		in.budget.max = max(n, 0)
	}
}

// New creates an interpreter for the given pipeline stage.
func New(stage ir.ShaderStage, opts ...Option) *Interpreter {
	in := &Interpreter{
		stage:    stage,
		observer: NopObserver{},
		budget:   stepBudget{max: DefaultMaxSteps},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Stage returns the pipeline stage this interpreter selects entry points for.
func (in *Interpreter) Stage() ir.ShaderStage {
	return in.stage
}

// Run selects the entry point for the interpreter's stage, binds its
// arguments from src and executes the body.
// The result is nil when the body returns no value.
func (in *Interpreter) Run(ctx context.Context, m *ir.Module, src ValueSource) (*value.Value, error) {
	ep, err := SelectEntryPoint(m, in.stage)
	if err != nil {
		return nil, err
	}
	in.observer.EntryPoint(ep)

	args, err := BindArguments(ctx, m, ep, src)
	if err != nil {
		return nil, err
	}
	return in.RunEntryPoint(ctx, m, ep, args)
}

// RunEntryPoint executes ep with already bound arguments.
func (in *Interpreter) RunEntryPoint(ctx context.Context, m *ir.Module, ep *ir.EntryPoint, args map[string]value.Value) (*value.Value, error) {
	in.scopes = ScopeStack{}
	in.scopes.Push(args)
	in.budget.reset()
	defer in.scopes.Pop()

	fr := &frame{module: m, fn: &ep.Function}
	out, err := in.execList(ctx, fr, ep.Function.Body)
	if err != nil {
		return nil, fmt.Errorf("entry point %q: %w", ep.Name, err)
	}
	return out.value, nil
}

// frame is the function being evaluated and the module that owns it.
type frame struct {
	module *ir.Module
	fn     *ir.Function
}
