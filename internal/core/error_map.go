package core

import (
	"errors"
	"net/http"
	"strings"
)

// CodedError is implemented by domain errors that carry a machine-readable code.
type CodedError interface {
	error
	ErrorCode() string
}

type ErrorInfo struct {
	Code       string
	Message    string
	HTTPStatus int
}

func MapError(err error, fallbackStatus int) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: CodeInternalError, Message: "internal server error", HTTPStatus: fallbackStatus}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	var coded CodedError
	if errors.As(err, &coded) {
		code := coded.ErrorCode()
		if status, ok := statusForCode(code); ok {
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: status}
		}
	}

	switch {
	case strings.Contains(lower, "http: request body too large"):
		return ErrorInfo{Code: CodeInvalidRequest, Message: msg, HTTPStatus: http.StatusRequestEntityTooLarge}
	case strings.Contains(lower, "invalid json"), strings.Contains(lower, "request body must contain a single json object"):
		return ErrorInfo{Code: CodeInvalidRequest, Message: msg, HTTPStatus: http.StatusBadRequest}
	case strings.Contains(lower, "not in allowlist"):
		return ErrorInfo{Code: CodeToolNotAllowed, Message: msg, HTTPStatus: http.StatusForbidden}
	case strings.Contains(lower, "http 401"), strings.Contains(lower, "http 403"),
		strings.Contains(lower, "http 404"), strings.Contains(lower, "http 429"),
		strings.Contains(lower, "timeout"):
		return ErrorInfo{Code: CodeExecutionError, Message: msg, HTTPStatus: http.StatusOK}
	default:
		code := CodeInternalError
		if fallbackStatus >= 400 && fallbackStatus < 500 {
			code = CodeInvalidRequest
		}
		return ErrorInfo{Code: code, Message: msg, HTTPStatus: fallbackStatus}
	}
}

// StatusForResult picks the HTTP status of an executed tool call. Business
// failures stay 200 and only transport-level codes change the status.
func StatusForResult(r ToolResult) int {
	if r.Success || r.Error == nil {
		return http.StatusOK
	}
	if status, ok := statusForCode(r.Error.Code); ok {
		return status
	}
	return http.StatusOK
}

func statusForCode(code string) (int, bool) {
	switch code {
	case CodeAuthRequired:
		return http.StatusUnauthorized, true
	case CodeToolNotFound, CodeEndpointNotFound:
		return http.StatusNotFound, true
	case CodeToolNotAllowed:
		return http.StatusForbidden, true
	case CodeInvalidRequest:
		return http.StatusBadRequest, true
	case CodeInternalError:
		return http.StatusInternalServerError, true
	case CodeMissingParameter, CodeInvalidParameter, CodeInvalidFormat,
		CodeUnsupportedChain, CodeExecutionError, CodeServiceUnavailable:
		return http.StatusOK, true
	}
	return 0, false
}
