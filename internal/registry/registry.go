package registry

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tools/*.yaml
var builtin embed.FS

// Tool types.
const (
	TypeQuery  = "query"
	TypeAction = "action"
)

// ToolDescriptor is one canonical tool and everything published about it.
type ToolDescriptor struct {
	Name                 string         `yaml:"name" json:"name"`
	DisplayName          string         `yaml:"displayName" json:"displayName"`
	Description          string         `yaml:"description" json:"description"`
	Category             string         `yaml:"category" json:"category"`
	Type                 string         `yaml:"type" json:"type"`
	RequiresConfirmation bool           `yaml:"requiresConfirmation" json:"requiresConfirmation"`
	DownstreamAction     string         `yaml:"downstreamAction" json:"downstreamAction,omitempty"`
	Aliases              []string       `yaml:"aliases" json:"aliases"`
	Parameters           map[string]any `yaml:"parameters" json:"parameters"`
}

// FuzzyRule maps a lowercase keyword to a canonical tool. Rules are tried in
// file order and the first keyword contained in the requested name wins.
type FuzzyRule struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Tool    string `yaml:"tool" json:"tool"`
}

type file struct {
	Gateway string            `yaml:"gateway"`
	Tools   []*ToolDescriptor `yaml:"tools"`
	Fuzzy   []FuzzyRule       `yaml:"fuzzy"`
}

// Registry is immutable after Parse returns and safe for concurrent use.
type Registry struct {
	Gateway string

	tools   []*ToolDescriptor
	byName  map[string]*ToolDescriptor
	aliases map[string]string
	fuzzy   []FuzzyRule
	schemas map[string]*compiledSchema
}

// Load returns the registry embedded for gateway ("wallet" or "expense").
func Load(gateway string) (*Registry, error) {
	data, err := builtin.ReadFile("tools/" + gateway + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown gateway %q: %w", gateway, err)
	}
	return Parse(data)
}

// LoadFile reads a registry override from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return Parse(data)
}

// MustLoad is Load for package-level test fixtures and tools.
func MustLoad(gateway string) *Registry {
	reg, err := Load(gateway)
	if err != nil {
		panic(err)
	}
	return reg
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if len(f.Tools) == 0 {
		return nil, fmt.Errorf("registry %q declares no tools", f.Gateway)
	}

	r := &Registry{
		Gateway: f.Gateway,
		byName:  make(map[string]*ToolDescriptor, len(f.Tools)),
		aliases: make(map[string]string),
		schemas: make(map[string]*compiledSchema, len(f.Tools)),
	}
	for _, t := range f.Tools {
		if t.Name == "" {
			return nil, fmt.Errorf("registry %q: tool without name", f.Gateway)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("registry %q: duplicate tool %q", f.Gateway, t.Name)
		}
		if t.Type != TypeQuery && t.Type != TypeAction {
			return nil, fmt.Errorf("tool %q: type must be %q or %q", t.Name, TypeQuery, TypeAction)
		}
		if t.Parameters == nil {
			t.Parameters = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		schema, err := compileSchema(t.Name, t.Parameters)
		if err != nil {
			return nil, err
		}
		r.schemas[t.Name] = schema
		r.byName[t.Name] = t
		r.tools = append(r.tools, t)
	}

	for _, t := range r.tools {
		for _, a := range t.Aliases {
			if _, clash := r.byName[a]; clash {
				return nil, fmt.Errorf("alias %q of %q shadows a canonical tool", a, t.Name)
			}
			if owner, dup := r.aliases[a]; dup {
				return nil, fmt.Errorf("alias %q claimed by both %q and %q", a, owner, t.Name)
			}
			r.aliases[a] = t.Name
		}
	}

	for _, rule := range f.Fuzzy {
		if rule.Keyword == "" {
			return nil, fmt.Errorf("fuzzy rule for %q has an empty keyword", rule.Tool)
		}
		if _, ok := r.byName[rule.Tool]; !ok {
			return nil, fmt.Errorf("fuzzy rule %q targets unknown tool %q", rule.Keyword, rule.Tool)
		}
		r.fuzzy = append(r.fuzzy, FuzzyRule{Keyword: strings.ToLower(rule.Keyword), Tool: rule.Tool})
	}
	return r, nil
}

// Match reports which resolution step produced a canonical name.
type Match string

const (
	MatchExact Match = "exact"
	MatchAlias Match = "alias"
	MatchFuzzy Match = "fuzzy"
	MatchNone  Match = "none"
)

// Resolve maps a requested name to a canonical tool name. When nothing
// matches the requested name comes back unchanged.
func (r *Registry) Resolve(requested string) string {
	name, _ := r.ResolveMatch(requested)
	return name
}

// ResolveMatch is Resolve that also reports the step that matched.
func (r *Registry) ResolveMatch(requested string) (string, Match) {
	if _, ok := r.byName[requested]; ok {
		return requested, MatchExact
	}
	if canonical, ok := r.aliases[requested]; ok {
		return canonical, MatchAlias
	}
	lower := strings.ToLower(requested)
	for _, rule := range r.fuzzy {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Tool, MatchFuzzy
		}
	}
	return requested, MatchNone
}

// Lookup returns the descriptor for a canonical name.
func (r *Registry) Lookup(canonical string) (*ToolDescriptor, bool) {
	t, ok := r.byName[canonical]
	return t, ok
}

// Tools returns descriptors in declaration order.
func (r *Registry) Tools() []*ToolDescriptor {
	out := make([]*ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns canonical names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Name)
	}
	return out
}

// Aliases returns the alias table as alias → canonical.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for a, c := range r.aliases {
		out[a] = c
	}
	return out
}

// FuzzyRules returns the ordered substring table.
func (r *Registry) FuzzyRules() []FuzzyRule {
	out := make([]FuzzyRule, len(r.fuzzy))
	copy(out, r.fuzzy)
	return out
}

// Categories returns the sorted distinct categories.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.tools {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Suggest lists canonical names that share a lowercase substring of at least
// three characters with requested.
func (r *Registry) Suggest(requested string) []string {
	lower := strings.ToLower(requested)
	out := []string{}
	for _, t := range r.tools {
		if sharesFragment(lower, strings.ToLower(t.Name), 3) {
			out = append(out, t.Name)
			continue
		}
		for _, a := range t.Aliases {
			if sharesFragment(lower, strings.ToLower(a), 3) {
				out = append(out, t.Name)
				break
			}
		}
	}
	return out
}

func sharesFragment(a, b string, n int) bool {
	if len(a) < n || len(b) < n {
		return false
	}
	for i := 0; i+n <= len(a); i++ {
		if strings.Contains(b, a[i:i+n]) {
			return true
		}
	}
	return false
}
