// Package expensegw is the Splitwise expense gateway. Calls without a
// Splitwise token are answered from a demo group.
package expensegw

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/registry"
	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
)

const (
	AgentName    = "Splitwise Voice Payment Agent"
	AgentVersion = "1.0.0"
)

type Options struct {
	Registry *registry.Registry
	// BaseURL overrides the Splitwise API root.
	BaseURL string
	Timeout time.Duration
	// DemoFallback answers tokenless calls with demo data. When false such
	// calls fail with SERVICE_UNAVAILABLE.
	DemoFallback bool
	ExposeDebug  bool
	Version      string
	Logger       *slog.Logger
}

type Gateway struct {
	reg          *registry.Registry
	baseURL      string
	timeout      time.Duration
	demoFallback bool
	exposeDebug  bool
	version      string
	logger       *slog.Logger
}

func New(opts Options) *Gateway {
	if opts.Registry == nil {
		opts.Registry = registry.MustLoad("expense")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = splitwise.DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = splitwise.DefaultTimeout
	}
	if opts.Version == "" {
		opts.Version = AgentVersion
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Gateway{
		reg:          opts.Registry,
		baseURL:      opts.BaseURL,
		timeout:      opts.Timeout,
		demoFallback: opts.DemoFallback,
		exposeDebug:  opts.ExposeDebug,
		version:      opts.Version,
		logger:       opts.Logger,
	}
}

func (g *Gateway) Name() string                 { return "expense" }
func (g *Gateway) Registry() *registry.Registry { return g.reg }

func (g *Gateway) Health(_ context.Context) any {
	return map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   g.version,
	}
}

var (
	readCapabilities = []string{
		"Get group balances and who owes whom",
		"Fetch recent expense history",
		"List all Splitwise groups",
	}
	writeCapabilities = []string{
		"Settle balances with friends after confirmation",
		"Create equally split expenses after confirmation",
	}
	languages = []string{"English", "Hindi", "Hinglish"}
)

func (g *Gateway) Capabilities() any {
	return map[string]any{
		"agent_name":         AgentName,
		"version":            g.version,
		"description":        "Complete Splitwise integration with expense reading AND payment automation",
		"author":             "Bhindi Integration",
		"homepage":           "https://bhindi.io",
		"capabilities":       []string{"READ", "WRITE", "VOICE"},
		"read_capabilities":  readCapabilities,
		"write_capabilities": writeCapabilities,
		"voice_support": map[string]any{
			"enabled":          true,
			"default_language": DefaultLanguage,
			"languages":        languages,
		},
		"languages": languages,
		"tools":     g.reg.Names(),
		"endpoints": map[string]string{
			"health":       "/health",
			"tools":        "/tools",
			"actions":      "/actions",
			"capabilities": "/capabilities",
			"manifest":     "/manifest.json",
		},
	}
}

func (g *Gateway) ToolList(tools []*registry.ToolDescriptor) any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"name":                 t.Name,
			"description":          t.Description,
			"category":             t.Category,
			"requiresConfirmation": t.RequiresConfirmation,
			"parameters":           t.Parameters,
		})
	}
	return map[string]any{
		"success": true,
		"tools":   list,
		"agent_info": map[string]any{
			"name":         AgentName,
			"capabilities": []string{"READ", "WRITE", "VOICE"},
			"description":  "Read expenses and settle balances on Splitwise by voice",
			"version":      g.version,
			"status":       "active",
		},
	}
}

func (g *Gateway) ActionList(tools []*registry.ToolDescriptor) any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"id":          t.Name,
			"name":        t.DisplayName,
			"description": t.Description,
			"parameters":  t.Parameters,
			"type":        t.Type,
		})
	}
	return map[string]any{"success": true, "actions": list}
}

func (g *Gateway) Manifest(tools []*registry.ToolDescriptor) map[string]any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"name":                 t.Name,
			"description":          t.Description,
			"endpoint":             "/tools/" + t.Name,
			"method":               "POST",
			"category":             t.Category,
			"requiresConfirmation": t.RequiresConfirmation,
			"parameters":           t.Parameters,
		})
	}
	return map[string]any{
		"name":         AgentName,
		"version":      g.version,
		"description":  "Complete Splitwise integration with expense reading AND payment automation",
		"author":       "Bhindi Integration",
		"homepage":     "https://bhindi.io",
		"capabilities": []string{"READ", "WRITE", "VOICE"},
		"tools":        list,
		"authentication": map[string]any{
			"required": []string{"x-api-key"},
			"optional": []string{"x-splitwise-key", "Authorization", "x-sarvam-key", "x-default-group-id", "x-default-currency", "x-language"},
		},
		"endpoints": map[string]string{
			"base":         "/tools",
			"actions":      "/actions",
			"health":       "/health",
			"capabilities": "/capabilities",
		},
	}
}
