package core

import (
	"fmt"
	"sort"
	"strings"
)

// Policy enforces an optional tool allowlist parsed from a comma-separated
// env var. An empty allowlist permits every registered tool.
type Policy struct {
	allowedTools map[string]bool
}

// NewPolicy creates a Policy from a comma-separated list of canonical tool
// names.
func NewPolicy(toolCSV string) *Policy {
	return &Policy{allowedTools: parseCSV(toolCSV)}
}

// CheckTool returns an error if toolName is excluded by the allowlist.
func (p *Policy) CheckTool(toolName string) error {
	if p == nil || len(p.allowedTools) == 0 {
		return nil
	}
	if !p.allowedTools[toolName] {
		return &Error{
			Code:    CodeToolNotAllowed,
			Message: fmt.Sprintf("tool %q not in allowlist", toolName),
		}
	}
	return nil
}

// Allowed lists the allowlisted tools, or nil when every tool is allowed.
func (p *Policy) Allowed() []string {
	if p == nil || len(p.allowedTools) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.allowedTools))
	for name := range p.allowedTools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func parseCSV(s string) map[string]bool {
	m := make(map[string]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			m[item] = true
		}
	}
	return m
}
