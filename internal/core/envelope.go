package core

import (
	"encoding/json"
	"maps"
)

// ToolResult is the standard response wrapper for every tool invocation.
// Used by both HTTP and MCP transports.
type ToolResult struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *ToolError     `json:"error,omitempty"`
}

// ToolError represents a tool-level error (distinct from transport errors).
// Context keys are flattened next to code and message on the wire.
type ToolError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"-"`
}

func (e ToolError) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Context)+2)
	maps.Copy(out, e.Context)
	out["code"] = e.Code
	out["message"] = e.Message
	return json.Marshal(out)
}

func (e *ToolError) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.Code, _ = raw["code"].(string)
	e.Message, _ = raw["message"].(string)
	delete(raw, "code")
	delete(raw, "message")
	if len(raw) > 0 {
		e.Context = raw
	}
	return nil
}

// Source tags carried in ToolResult.Data["source"].
const (
	SourceDemo      = "demo"
	SourceAgentkit  = "agentkit"
	SourceSplitwise = "splitwise-api"
)

// Succeed wraps data in a successful result.
func Succeed(data map[string]any) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// Fail converts err into a failed result. Coded errors keep their code and
// context; anything else becomes an EXECUTION_ERROR.
func Fail(err error, extra map[string]any) ToolResult {
	te := &ToolError{Code: CodeExecutionError, Message: "unknown error"}
	if err != nil {
		te.Message = err.Error()
	}
	if ce, ok := AsError(err); ok {
		te.Code = ce.Code
		te.Message = ce.Message
		te.Context = ce.fields()
	}
	if len(extra) > 0 {
		if te.Context == nil {
			te.Context = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			if _, exists := te.Context[k]; !exists {
				te.Context[k] = v
			}
		}
	}
	return ToolResult{Success: false, Error: te}
}

// Source returns the data source tag of a result, or "" when absent.
func (r ToolResult) Source() string {
	if r.Data == nil {
		return ""
	}
	s, _ := r.Data["source"].(string)
	return s
}

// Status is a short label for metrics and audit.
func (r ToolResult) Status() string {
	if r.Success {
		return "ok"
	}
	return "fail"
}
