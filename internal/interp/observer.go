package interp

import (
	"context"
	"log/slog"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// Observer receives trace events while an entry point runs.
// Implementations must not retain the Scope past the call.
type Observer interface {
	EntryPoint(ep *ir.EntryPoint)
	BeforeStatement(depth int, stmt ir.Statement, scope *Scope)
	BeforeExpression(h ir.ExpressionHandle, expr ir.Expression)
	AfterExpression(h ir.ExpressionHandle, expr ir.Expression, v value.Value)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) EntryPoint(*ir.EntryPoint)                                       {}
func (NopObserver) BeforeStatement(int, ir.Statement, *Scope)                       {}
func (NopObserver) BeforeExpression(ir.ExpressionHandle, ir.Expression)             {}
func (NopObserver) AfterExpression(ir.ExpressionHandle, ir.Expression, value.Value) {}

// SlogObserver logs trace events at Debug level.
// Verbosity 1 logs the entry point and each statement with the visible
// variables; verbosity 2 adds every expression and its result.
type SlogObserver struct {
	Logger    *slog.Logger
	Verbosity int
}

func (o SlogObserver) enabled(level int) bool {
	return o.Logger != nil && o.Verbosity >= level
}

func (o SlogObserver) EntryPoint(ep *ir.EntryPoint) {
	if !o.enabled(1) {
		return
	}
	o.Logger.Debug("entry point",
		"name", ep.Name,
		"stage", ep.Stage.String(),
		"arguments", len(ep.Function.Arguments))
}

func (o SlogObserver) BeforeStatement(depth int, stmt ir.Statement, scope *Scope) {
	if !o.enabled(1) {
		return
	}
	attrs := []slog.Attr{
		slog.String("kind", stmt.Kind()),
		slog.Int("depth", depth),
	}
	if scope != nil {
		vars := make([]any, 0, scope.Len())
		for _, name := range scope.Names() {
			v, _ := scope.Get(name)
			vars = append(vars, slog.String(name, v.String()))
		}
		attrs = append(attrs, slog.Group("vars", vars...))
	}
	o.Logger.LogAttrs(context.Background(), slog.LevelDebug, "statement", attrs...)
}

func (o SlogObserver) BeforeExpression(h ir.ExpressionHandle, expr ir.Expression) {
	if !o.enabled(2) {
		return
	}
	o.Logger.Debug("expression", "handle", uint32(h), "kind", expr.Kind())
}

func (o SlogObserver) AfterExpression(h ir.ExpressionHandle, expr ir.Expression, v value.Value) {
	if !o.enabled(2) {
		return
	}
	o.Logger.Debug("expression result",
		"handle", uint32(h),
		"kind", expr.Kind(),
		"type", value.TypeName(v.Type()),
		"value", v.String())
}

// Tee returns an Observer that forwards every event to each of observers in order.
// Nil observers are skipped.
func Tee(observers ...Observer) Observer {
	var out teeObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type teeObserver []Observer

func (t teeObserver) EntryPoint(ep *ir.EntryPoint) {
	for _, o := range t {
		o.EntryPoint(ep)
	}
}

func (t teeObserver) BeforeStatement(depth int, stmt ir.Statement, scope *Scope) {
	for _, o := range t {
		o.BeforeStatement(depth, stmt, scope)
	}
}

func (t teeObserver) BeforeExpression(h ir.ExpressionHandle, expr ir.Expression) {
	for _, o := range t {
		o.BeforeExpression(h, expr)
	}
}

func (t teeObserver) AfterExpression(h ir.ExpressionHandle, expr ir.Expression, v value.Value) {
	for _, o := range t {
		o.AfterExpression(h, expr, v)
	}
}
