package core

import (
	"errors"
	"fmt"
	"maps"
)

const (
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeToolNotFound       = "TOOL_NOT_FOUND"
	CodeEndpointNotFound   = "ENDPOINT_NOT_FOUND"
	CodeToolNotAllowed     = "TOOL_NOT_ALLOWED"
	CodeMissingParameter   = "MISSING_PARAMETER"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeUnsupportedChain   = "UNSUPPORTED_CHAIN"
	CodeExecutionError     = "EXECUTION_ERROR"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Error is the domain error carried through resolution, normalization and
// dispatch. Field and Reason are set for parameter failures.
type Error struct {
	Code    string
	Message string
	Field   string
	Reason  string
	Context map[string]any
	Err     error
}

func (e *Error) Error() string     { return e.Message }
func (e *Error) ErrorCode() string { return e.Code }
func (e *Error) Unwrap() error     { return e.Err }

// With returns a copy of e with key set in its context.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	maps.Copy(cp.Context, e.Context)
	cp.Context[key] = value
	return &cp
}

func (e *Error) fields() map[string]any {
	out := make(map[string]any, len(e.Context)+2)
	maps.Copy(out, e.Context)
	if e.Field != "" {
		out["field"] = e.Field
	}
	if e.Reason != "" {
		out["reason"] = e.Reason
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AsError unwraps err into *Error when possible.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code string) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

func AuthRequired(header string) *Error {
	return &Error{
		Code:    CodeAuthRequired,
		Message: fmt.Sprintf("API key required in %s header", header),
	}
}

func ToolNotFound(name string) *Error {
	return &Error{Code: CodeToolNotFound, Message: fmt.Sprintf("Tool '%s' not found", name)}
}

func MissingParameter(field string) *Error {
	return &Error{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("%s is required", field),
		Field:   field,
		Reason:  "required",
	}
}

func InvalidParameter(field, reason string) *Error {
	return &Error{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Field:   field,
		Reason:  reason,
	}
}

func InvalidFormat(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidFormat, Message: fmt.Sprintf(format, args...)}
}

func UnsupportedChain(chainID int) *Error {
	return &Error{
		Code:    CodeUnsupportedChain,
		Message: fmt.Sprintf("Unsupported chain: %d", chainID),
		Context: map[string]any{"chainId": chainID},
	}
}

func ExecutionError(err error) *Error {
	return &Error{Code: CodeExecutionError, Message: err.Error(), Err: err}
}

func Internal(format string, args ...any) *Error {
	return &Error{Code: CodeInternalError, Message: fmt.Sprintf(format, args...)}
}
