package cli

import (
	"context"
	"fmt"

	"github.com/roach88/shaderwalk/internal/interp"
	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/store"
	"github.com/roach88/shaderwalk/internal/value"
)

// execution is one interpreter run and how it ended.
type execution struct {
	Stage      ir.ShaderStage
	EntryPoint string
	Legacy     bool
	Args       []string
	Value      *value.Value
	Err        error
}

// execute runs the stage's entry point, recording the argument lines it consumed.
// Runtime failures are kept in Err; only a cancelled context is returned.
func execute(ctx context.Context, m *ir.Module, stage ir.ShaderStage, src interp.ValueSource, legacy bool, obs interp.Observer) (*execution, error) {
	rec := &interp.RecordingSource{Source: src}
	opts := []interp.Option{interp.WithObserver(obs)}
	if legacy {
		opts = append(opts, interp.WithLegacySequencing())
	}

	ex := &execution{Stage: stage, Legacy: legacy}
	if ep, err := interp.SelectEntryPoint(m, stage); err == nil {
		ex.EntryPoint = ep.Name
	}

	ex.Value, ex.Err = interp.New(stage, opts...).Run(ctx, m, rec)
	ex.Args = rec.Lines
	if ex.Args == nil {
		ex.Args = []string{}
	}
	if ex.Err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}
	return ex, nil
}

// Code returns the runtime error code, or "" for a successful run.
func (ex *execution) Code() string {
	if ex.Err == nil {
		return ""
	}
	if code := interp.CodeOf(ex.Err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}

// runRecord builds the run-log row for ex.
func (ex *execution) runRecord(id, modulePath, moduleHash string) (store.Run, error) {
	run := store.Run{
		ID:               id,
		ModulePath:       modulePath,
		ModuleHash:       moduleHash,
		Stage:            ex.Stage.String(),
		EntryPoint:       ex.EntryPoint,
		Args:             ex.Args,
		LegacySequencing: ex.Legacy,
		EngineVersion:    ir.EngineVersion,
		IRVersion:        ir.IRVersion,
	}
	switch {
	case ex.Err != nil:
		run.ErrorCode = ex.Code()
		run.ErrorMessage = ex.Err.Error()
	case ex.Value != nil:
		text, err := ex.Value.Render()
		if err != nil {
			return store.Run{}, fmt.Errorf("render result: %w", err)
		}
		run.Result = &store.RunResult{
			Text:  text,
			Type:  value.TypeName(ex.Value.Type()),
			Bytes: ex.Value.Bytes(),
		}
	}
	return run, nil
}
