package interp

import (
	"errors"
	"fmt"

	"github.com/roach88/shaderwalk/internal/value"
)

// RuntimeError is a failure detected while binding arguments or walking the IR.
// Every RuntimeError is terminal for the run that produced it.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the IR node kind being evaluated ("Binary", "Emit"), if any.
	Node string

	// Details carries the types, sizes and names involved.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	ErrCodeNoEntryPoint         RuntimeErrorCode = "NO_ENTRY_POINT"
	ErrCodeUnnamedArgument      RuntimeErrorCode = "UNNAMED_ARGUMENT"
	ErrCodeArgumentParse        RuntimeErrorCode = "ARGUMENT_PARSE_FAILURE"
	ErrCodeArgumentSizeMismatch RuntimeErrorCode = "ARGUMENT_SIZE_MISMATCH"
	ErrCodeUnboundVariable      RuntimeErrorCode = "UNBOUND_VARIABLE"
	ErrCodeMissingScope         RuntimeErrorCode = "MISSING_SCOPE"
	ErrCodeSizeMismatch         RuntimeErrorCode = "SIZE_MISMATCH"
	ErrCodeTypeMismatch         RuntimeErrorCode = "TYPE_MISMATCH"
	ErrCodeOutOfRange           RuntimeErrorCode = "OUT_OF_RANGE"
	ErrCodeUnsupportedOperator  RuntimeErrorCode = "UNSUPPORTED_OPERATOR"
	ErrCodeUnimplemented        RuntimeErrorCode = "UNIMPLEMENTED"
	ErrCodeDivisionByZero       RuntimeErrorCode = "DIVISION_BY_ZERO"
	ErrCodeInvalidHandle        RuntimeErrorCode = "INVALID_HANDLE"
	ErrCodeUnsupportedType      RuntimeErrorCode = "UNSUPPORTED_TYPE"
	ErrCodeSourceExhausted      RuntimeErrorCode = "SOURCE_EXHAUSTED"
	ErrCodeStepsExceeded        RuntimeErrorCode = "STEPS_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Node != "" {
		msg += fmt.Sprintf(" (node=%s)", e.Node)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// CodeOf returns the error code carried by err.
// Value-level errors surface with their own code; unknown errors return "".
func CodeOf(err error) RuntimeErrorCode {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code
	}
	if code := value.CodeOf(err); code != "" {
		return RuntimeErrorCode(code)
	}
	return ""
}

// IsUnimplemented reports whether err marks an IR node kind the
// interpreter does not evaluate yet.
func IsUnimplemented(err error) bool {
	return CodeOf(err) == ErrCodeUnimplemented
}

func newError(code RuntimeErrorCode, node string, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// NewUnimplementedError reports an expression or statement kind with no evaluation rule.
func NewUnimplementedError(kind string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnimplemented,
		Message: fmt.Sprintf("%s is not implemented", kind),
		Node:    kind,
	}
}

// with returns e with the key/value pairs added to Details.
func (e *RuntimeError) with(kv ...string) *RuntimeError {
	if e.Details == nil {
		e.Details = make(map[string]string, len(kv)/2)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Details[kv[i]] = kv[i+1]
	}
	return e
}

// wrapValueError lifts a value-level error into a RuntimeError for node.
func wrapValueError(node string, err error) error {
	code := value.CodeOf(err)
	if code == "" {
		return err
	}
	return &RuntimeError{
		Code:    RuntimeErrorCode(code),
		Message: "value operation failed",
		Node:    node,
		Err:     err,
	}
}
