package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/shaderwalk/internal/compiler"
	"github.com/roach88/shaderwalk/internal/interp"
	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// Harness runs scenarios against the interpreter.
type Harness struct {
	logger    *slog.Logger
	verbosity int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger routes interpreter trace logging to logger.
func WithLogger(logger *slog.Logger, verbosity int) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
			h.verbosity = verbosity
		}
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run compiles the scenario's module, runs the selected entry point with
// the scenario inputs and checks the outcome and assertions.
//
// Runtime failures are outcomes, not errors: a scenario may expect one.
// The returned error is reserved for scenarios that cannot run at all
// (module does not compile or validate, unknown stage, cancelled context).
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	m, err := compiler.LoadModule(scenario.Module)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	if verrs := compiler.Validate(m); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("invalid module: %w", errors.Join(errs...))
	}

	stage, err := ir.ParseShaderStage(scenario.Stage)
	if err != nil {
		return nil, fmt.Errorf("invalid stage: %w", err)
	}

	result := NewResult()
	observer := interp.Tee(&recorder{result: result}, interp.SlogObserver{Logger: h.logger, Verbosity: h.verbosity})
	opts := []interp.Option{interp.WithObserver(observer)}
	if scenario.LegacySequencing {
		opts = append(opts, interp.WithLegacySequencing())
	}
	if scenario.MaxSteps > 0 {
		opts = append(opts, interp.WithMaxSteps(scenario.MaxSteps))
	}

	h.logger.Debug("running scenario", "name", scenario.Name, "module", scenario.Module, "stage", scenario.Stage)

	v, runErr := interp.New(stage, opts...).Run(ctx, m, interp.NewStaticSource(scenario.Inputs...))
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("context cancelled: %w", ctxErr)
		}
		result.Outcome = Outcome{
			ErrorCode:    string(interp.CodeOf(runErr)),
			ErrorMessage: runErr.Error(),
		}
	} else if v == nil {
		result.Outcome = Outcome{Void: true}
	} else {
		text, err := v.Render()
		if err != nil {
			return nil, fmt.Errorf("render result: %w", err)
		}
		result.Outcome = Outcome{Result: &text, ResultType: value.TypeName(v.Type())}
	}

	checkExpect(scenario.Expect, result)
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass)
	return result, nil
}

// checkExpect compares the actual outcome with the expected one.
func checkExpect(want Expect, result *Result) {
	got := result.Outcome
	switch {
	case want.Result != nil:
		switch {
		case got.ErrorCode != "":
			result.AddError(fmt.Sprintf("expected result %q, got error %s: %s", *want.Result, got.ErrorCode, got.ErrorMessage))
		case got.Void:
			result.AddError(fmt.Sprintf("expected result %q, got no value", *want.Result))
		case *got.Result != *want.Result:
			result.AddError(fmt.Sprintf("expected result %q, got %q", *want.Result, *got.Result))
		}

	case want.Error != "":
		switch {
		case got.ErrorCode == "":
			result.AddError(fmt.Sprintf("expected error %s, run succeeded", want.Error))
		case got.ErrorCode != want.Error:
			result.AddError(fmt.Sprintf("expected error %s, got %s: %s", want.Error, got.ErrorCode, got.ErrorMessage))
		}

	case want.Void:
		switch {
		case got.ErrorCode != "":
			result.AddError(fmt.Sprintf("expected no value, got error %s: %s", got.ErrorCode, got.ErrorMessage))
		case !got.Void:
			result.AddError(fmt.Sprintf("expected no value, got %q", *got.Result))
		}
	}
}
