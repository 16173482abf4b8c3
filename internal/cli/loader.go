package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/shaderwalk/internal/compiler"
	"github.com/roach88/shaderwalk/internal/ir"
)

// LoadError represents an error that occurred while loading a module.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
// Validation errors use the compiler's E1xx codes and runtime failures
// use the interpreter's codes (SIZE_MISMATCH, ...).
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeCompileFailed = "E004" // CUE did not compile into a module
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeInvalidModule = "E006" // Module failed validation
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeStore         = "E008" // Run log error
)

// loadModule compiles the module at path without validating it.
func loadModule(path string) (*ir.Module, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("module not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing module: %v", err)}
	}

	m, err := compiler.LoadModule(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return m, nil
}

// loadValidModule compiles and validates the module at path.
// Validation failures come back as a *ModuleError listing every problem.
func loadValidModule(path string) (*ir.Module, error) {
	m, err := loadModule(path)
	if err != nil {
		return nil, err
	}
	if verrs := compiler.Validate(m); len(verrs) > 0 {
		return nil, &ModuleError{Path: path, Errors: verrs}
	}
	return m, nil
}

// ModuleError reports a module that compiled but failed validation.
type ModuleError struct {
	Path   string
	Errors []compiler.ValidationError
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("%s: %d validation error(s), first: %v", e.Path, len(e.Errors), e.Errors[0])
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompileFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeCompileFailed, Message: err.Error()}
}

// reportLoadError writes a load or validation failure and returns the exit error.
func reportLoadError(f *OutputFormatter, err error) error {
	var modErr *ModuleError
	if errors.As(err, &modErr) {
		if err := outputValidationErrors(f, modErr.Errors); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(modErr.Errors)))
	}

	code, msg := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, msg = loadErr.Code, loadErr.Message
		if loadErr.Pos.IsValid() {
			msg = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), msg)
		}
	}
	if err := f.Error(code, msg, nil); err != nil {
		return err
	}
	return WrapExitError(ExitCommandError, "failed to load module", err)
}
