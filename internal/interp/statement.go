package interp

import (
	"context"
	"fmt"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// outcome is what a statement yields: an optional value, and whether a
// Return produced it.
type outcome struct {
	value    *value.Value
	returned bool
}

// execList runs stmts in order. A Return stops the list unless legacy
// sequencing is enabled, in which case the last statement's outcome wins.
func (in *Interpreter) execList(ctx context.Context, fr *frame, stmts []ir.Statement) (outcome, error) {
	var last outcome
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return outcome{}, fmt.Errorf("context cancelled: %w", err)
		}
		out, err := in.execStatement(ctx, fr, stmt)
		if err != nil {
			return outcome{}, err
		}
		last = out
		if out.returned && !in.legacy {
			return out, nil
		}
	}
	return last, nil
}

func (in *Interpreter) execStatement(ctx context.Context, fr *frame, stmt ir.Statement) (outcome, error) {
	if top, err := in.scopes.Top(); err == nil {
		in.observer.BeforeStatement(in.scopes.Depth(), stmt, top)
	}

	switch s := stmt.(type) {
	case ir.Emit:
		for _, h := range s.Expressions {
			if _, err := in.evalExpression(fr, h); err != nil {
				return outcome{}, err
			}
		}
		return outcome{}, nil

	case ir.Block:
		return in.execBlock(ctx, fr, s)

	case ir.Return:
		if s.Value == nil {
			return outcome{returned: true}, nil
		}
		v, err := in.evalExpression(fr, *s.Value)
		if err != nil {
			return outcome{}, err
		}
		return outcome{value: &v, returned: true}, nil

	case ir.If, ir.Loop, ir.Break, ir.Continue, ir.Kill:
		return outcome{}, NewUnimplementedError(s.Kind())

	default:
		return outcome{}, NewUnimplementedError(fmt.Sprintf("%T", stmt))
	}
}

// execBlock runs a nested block in its own scope. The scope is popped on
// every exit path.
func (in *Interpreter) execBlock(ctx context.Context, fr *frame, b ir.Block) (outcome, error) {
	in.scopes.Push(nil)
	defer in.scopes.Pop()
	return in.execList(ctx, fr, b.Body)
}
