package value

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes value-level failures.
type ErrorCode string

const (
	// ErrCodeTypeMismatch indicates a reinterpretation whose size differs from the buffer.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeOutOfRange indicates an offset read or write past the end of the buffer.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// ErrCodeUnsupportedType indicates a descriptor the value model cannot encode.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeParseFailure indicates argument text that does not parse as the declared type.
	ErrCodeParseFailure ErrorCode = "ARGUMENT_PARSE_FAILURE"
)

// Error is returned by every failing operation in this package.
type Error struct {
	Code    ErrorCode
	Message string

	// Err is the underlying cause (strconv errors for parse failures).
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
