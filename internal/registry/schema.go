package registry

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type compiledSchema struct {
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

func compileSchema(tool string, params map[string]any) (*compiledSchema, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("tool %q: encode parameter schema: %w", tool, err)
	}
	compiled, err := jsonschema.CompileString("", string(raw))
	if err != nil {
		return nil, fmt.Errorf("tool %q: invalid parameter schema: %w", tool, err)
	}
	return &compiledSchema{raw: raw, compiled: compiled}, nil
}

// Schema returns the JSON encoding of a tool's parameter schema.
func (r *Registry) Schema(canonical string) (json.RawMessage, bool) {
	s, ok := r.schemas[canonical]
	if !ok {
		return nil, false
	}
	return s.raw, true
}

// Validate checks args against the published schema of a canonical tool.
// Gateways normalize leniently and do not call this on the request path.
func (r *Registry) Validate(canonical string, args map[string]any) error {
	s, ok := r.schemas[canonical]
	if !ok {
		return fmt.Errorf("unknown tool %q", canonical)
	}
	if args == nil {
		args = map[string]any{}
	}
	// Round-trip so integer and custom types match what a JSON decoder yields.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
