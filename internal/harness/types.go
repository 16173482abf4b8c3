package harness

// Trace event types.
const (
	EventEntryPoint = "entry_point"
	EventStatement  = "statement"
	EventExpression = "expression"
)

// TraceEvent is one observation recorded while a scenario runs.
// Which fields are set depends on Type.
type TraceEvent struct {
	Type string `json:"type"`

	// entry_point
	Name  string `json:"name,omitempty"`
	Stage string `json:"stage,omitempty"`

	// statement and expression
	Kind string `json:"kind,omitempty"`

	// statement: scope depth and the visible variables, rendered
	Depth int               `json:"depth,omitempty"`
	Scope map[string]string `json:"scope,omitempty"`

	// expression: handle and rendered result
	Handle uint32 `json:"handle,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Outcome is how the entry point finished.
type Outcome struct {
	Result       *string `json:"result,omitempty"` // rendered value
	ResultType   string  `json:"result_type,omitempty"`
	ErrorCode    string  `json:"error_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Void         bool    `json:"void,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when the outcome matches Expect and every assertion holds.
	Pass bool `json:"pass"`

	// Outcome is what actually happened.
	Outcome Outcome `json:"outcome"`

	// Trace contains the recorded events in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
