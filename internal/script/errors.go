package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Errors for script execution.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrPanic is returned when the interpreter panics.
	ErrPanic = errors.New("lua panic")
)

// ScriptError reports a script that failed to load or run.
type ScriptError struct {
	// Script is the chunk name, usually the file path.
	Script string
	// Syntax is true when the script failed to compile.
	Syntax bool
	// Message is the Lua error message.
	Message string
	// Err is the Go error behind the failure: a builder error raised by a
	// buf method, a context error, or the interpreter error itself.
	Err error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %s", e.Script, e.Message)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

func newScriptError(name string, err, cause error) *ScriptError {
	se := &ScriptError{Script: name, Message: err.Error(), Err: err}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		se.Syntax = apiErr.Type == lua.ApiErrorSyntax
		if apiErr.Object != nil {
			se.Message = apiErr.Object.String()
		}
	}
	if cause != nil {
		se.Err = cause
	}
	return se
}
