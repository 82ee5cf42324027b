package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

type testCodedError struct{ code, msg string }

func (e *testCodedError) Error() string     { return e.msg }
func (e *testCodedError) ErrorCode() string { return e.code }

func TestMapErrorCommonCases(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback int
		wantCode string
		wantHTTP int
	}{
		{name: "invalid json", err: errors.New("invalid json: unexpected EOF"), fallback: 500, wantCode: "INVALID_REQUEST", wantHTTP: 400},
		{name: "body too large", err: errors.New("http: request body too large"), fallback: 400, wantCode: "INVALID_REQUEST", wantHTTP: 413},
		{name: "body too large while decoding", err: errors.New("invalid json: http: request body too large"), fallback: 400, wantCode: "INVALID_REQUEST", wantHTTP: 413},
		{name: "allowlist", err: errors.New("tool \"swapTokens\" not in allowlist"), fallback: 500, wantCode: "TOOL_NOT_ALLOWED", wantHTTP: 403},
		{name: "splitwise 401", err: errors.New("get group HTTP 401: unauthorized"), fallback: 500, wantCode: "EXECUTION_ERROR", wantHTTP: 200},
		{name: "timeout", err: errors.New("Request timeout - Splitwise API not responding"), fallback: 500, wantCode: "EXECUTION_ERROR", wantHTTP: 200},
		{name: "unknown 500", err: errors.New("boom"), fallback: 500, wantCode: "INTERNAL_ERROR", wantHTTP: 500},
		{name: "unknown 400", err: errors.New("boom"), fallback: 400, wantCode: "INVALID_REQUEST", wantHTTP: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err, tt.fallback)
			if got.Code != tt.wantCode {
				t.Fatalf("want code %q, got %q", tt.wantCode, got.Code)
			}
			if got.HTTPStatus != tt.wantHTTP {
				t.Fatalf("want status %d, got %d", tt.wantHTTP, got.HTTPStatus)
			}
		})
	}
}

func TestMapErrorCodedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback int
		wantCode string
		wantHTTP int
	}{
		{name: "auth required", err: AuthRequired("x-api-key"), fallback: 500, wantCode: "AUTH_REQUIRED", wantHTTP: 401},
		{name: "tool not found", err: ToolNotFound("frobnicate"), fallback: 500, wantCode: "TOOL_NOT_FOUND", wantHTTP: 404},
		{name: "invalid parameter", err: InvalidParameter("to", "must be a 0x-prefixed 40 hex character address"), fallback: 500, wantCode: "INVALID_PARAMETER", wantHTTP: 200},
		{name: "unsupported chain", err: UnsupportedChain(10), fallback: 500, wantCode: "UNSUPPORTED_CHAIN", wantHTTP: 200},
		{name: "wrapped internal", err: fmt.Errorf("dispatch: %w", Internal("nil agent")), fallback: 200, wantCode: "INTERNAL_ERROR", wantHTTP: 500},
		{name: "foreign coded error", err: &testCodedError{code: "idempotency_key_conflict", msg: "conflict"}, fallback: 500, wantCode: "INTERNAL_ERROR", wantHTTP: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err, tt.fallback)
			if got.Code != tt.wantCode {
				t.Fatalf("want code %q, got %q", tt.wantCode, got.Code)
			}
			if got.HTTPStatus != tt.wantHTTP {
				t.Fatalf("want status %d, got %d", tt.wantHTTP, got.HTTPStatus)
			}
		})
	}
}

func TestStatusForResult(t *testing.T) {
	if got := StatusForResult(Succeed(nil)); got != 200 {
		t.Fatalf("want 200, got %d", got)
	}
	if got := StatusForResult(Fail(MissingParameter("amount"), nil)); got != 200 {
		t.Fatalf("business failure: want 200, got %d", got)
	}
	if got := StatusForResult(Fail(ToolNotFound("x"), nil)); got != 404 {
		t.Fatalf("tool not found: want 404, got %d", got)
	}
	if got := StatusForResult(Fail(Internal("boom"), nil)); got != 500 {
		t.Fatalf("internal: want 500, got %d", got)
	}
}

func TestToolErrorFlattensContext(t *testing.T) {
	res := Fail(InvalidParameter("amount", "must be greater than 0"), map[string]any{"toolName": "transferTokens"})

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["success"] != false {
		t.Fatalf("want success=false, got %v", got["success"])
	}
	e, _ := got["error"].(map[string]any)
	if e["code"] != "INVALID_PARAMETER" {
		t.Fatalf("want code INVALID_PARAMETER, got %v", e["code"])
	}
	if e["field"] != "amount" {
		t.Fatalf("want field amount, got %v", e["field"])
	}
	if e["toolName"] != "transferTokens" {
		t.Fatalf("want toolName transferTokens, got %v", e["toolName"])
	}
	if _, ok := got["data"]; ok {
		t.Fatal("data must be omitted on failure")
	}
}

func TestFailKeepsErrorContextOverExtra(t *testing.T) {
	res := Fail(UnsupportedChain(10), map[string]any{"chainId": 43114, "executionId": "e1"})
	if res.Error.Context["chainId"] != 10 {
		t.Fatalf("want chainId 10 from error, got %v", res.Error.Context["chainId"])
	}
	if res.Error.Context["executionId"] != "e1" {
		t.Fatalf("want executionId e1, got %v", res.Error.Context["executionId"])
	}
}
