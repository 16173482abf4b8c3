package store

import "errors"

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one logged interpreter run.
//
// Exactly one of Result and ErrorCode is set for runs that produced a value or
// failed. A void run has neither.
type Run struct {
	ID               string
	Seq              int64 // assigned by WriteRun
	ModulePath       string
	ModuleHash       string
	Stage            string
	EntryPoint       string
	Args             []string // raw argument lines, in declaration order
	LegacySequencing bool
	Result           *RunResult
	ErrorCode        string
	ErrorMessage     string
	EngineVersion    string
	IRVersion        string
}

// RunResult is the value a run returned.
type RunResult struct {
	Text  string // Value.Render()
	Type  string // value.TypeName
	Bytes []byte // little-endian lanes
}

// Failed reports whether the run ended in an error.
func (r Run) Failed() bool {
	return r.ErrorCode != ""
}

// Void reports whether the run completed without a value.
func (r Run) Void() bool {
	return r.Result == nil && !r.Failed()
}
