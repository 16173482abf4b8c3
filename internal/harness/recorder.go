package harness

import (
	"github.com/roach88/shaderwalk/internal/interp"
	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// recorder is an interp.Observer that appends trace events to a Result.
// Only completed expressions are recorded, so a failing expression leaves
// no event of its own.
type recorder struct {
	result *Result
}

var _ interp.Observer = (*recorder)(nil)

func (r *recorder) EntryPoint(ep *ir.EntryPoint) {
	r.result.Trace = append(r.result.Trace, TraceEvent{
		Type:  EventEntryPoint,
		Name:  ep.Name,
		Stage: ep.Stage.String(),
	})
}

func (r *recorder) BeforeStatement(depth int, stmt ir.Statement, scope *interp.Scope) {
	vars := make(map[string]string, scope.Len())
	for _, name := range scope.Names() {
		v, _ := scope.Get(name)
		vars[name] = v.String()
	}
	r.result.Trace = append(r.result.Trace, TraceEvent{
		Type:  EventStatement,
		Kind:  stmt.Kind(),
		Depth: depth,
		Scope: vars,
	})
}

func (r *recorder) BeforeExpression(ir.ExpressionHandle, ir.Expression) {}

func (r *recorder) AfterExpression(h ir.ExpressionHandle, expr ir.Expression, v value.Value) {
	r.result.Trace = append(r.result.Trace, TraceEvent{
		Type:   EventExpression,
		Kind:   expr.Kind(),
		Handle: uint32(h),
		Value:  v.String(),
	})
}
