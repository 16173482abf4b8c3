package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/shaderwalk/internal/ir"
)

// Snapshot serialises a scenario's outcome and trace as canonical JSON.
// It is the content of the scenario's golden file.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		trace[i] = eventMap(event)
	}

	outcome := map[string]any{}
	switch {
	case result.Outcome.ErrorCode != "":
		outcome["error"] = result.Outcome.ErrorCode
	case result.Outcome.Void:
		outcome["void"] = true
	case result.Outcome.Result != nil:
		outcome["result"] = *result.Outcome.Result
		outcome["type"] = result.Outcome.ResultType
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario": name,
		"outcome":  outcome,
		"trace":    trace,
	})
}

// eventMap keeps only the fields that belong to the event's type.
func eventMap(e TraceEvent) map[string]any {
	m := map[string]any{"type": e.Type}
	switch e.Type {
	case EventEntryPoint:
		m["name"] = e.Name
		m["stage"] = e.Stage
	case EventStatement:
		scope := make(map[string]any, len(e.Scope))
		for k, v := range e.Scope {
			scope[k] = v
		}
		m["kind"] = e.Kind
		m["depth"] = e.Depth
		m["scope"] = scope
	case EventExpression:
		m["kind"] = e.Kind
		m["handle"] = int64(e.Handle)
		m["value"] = e.Value
	}
	return m
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run. A mismatch fails t via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
