// Package walletgw is the wallet and DeFi gateway: it maps resolved tool
// calls onto wallet SDK actions and answers with demo data when no wallet
// client can be built.
package walletgw

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/registry"
	"github.com/Adi-21/bhidi0xgasless/internal/wallet"
)

const (
	AgentName    = "0xGasless Avalanche DeFi Voice Agent"
	AgentVersion = "1.0.0"
)

type Options struct {
	Registry       *registry.Registry
	Wallets        *wallet.Cache
	DefaultChainID int
	// DemoFallback answers with mock data when no wallet client is
	// available. When false such calls fail with SERVICE_UNAVAILABLE.
	DemoFallback bool
	ExposeDebug  bool
	Version      string
	Logger       *slog.Logger
}

type Gateway struct {
	reg            *registry.Registry
	wallets        *wallet.Cache
	defaultChainID int
	demoFallback   bool
	exposeDebug    bool
	version        string
	logger         *slog.Logger
}

func New(opts Options) *Gateway {
	if opts.Registry == nil {
		opts.Registry = registry.MustLoad("wallet")
	}
	if opts.Wallets == nil {
		opts.Wallets = wallet.NewCache(nil, 0, opts.Logger)
	}
	if opts.DefaultChainID == 0 {
		opts.DefaultChainID = chains.DefaultChainID
	}
	if opts.Version == "" {
		opts.Version = AgentVersion
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Gateway{
		reg:            opts.Registry,
		wallets:        opts.Wallets,
		defaultChainID: opts.DefaultChainID,
		demoFallback:   opts.DemoFallback,
		exposeDebug:    opts.ExposeDebug,
		version:        opts.Version,
		logger:         opts.Logger,
	}
}

func (g *Gateway) Name() string                 { return "wallet" }
func (g *Gateway) Registry() *registry.Registry { return g.reg }

func (g *Gateway) Health(_ context.Context) any {
	return map[string]any{
		"status":    "healthy",
		"version":   g.version,
		"agent":     AgentName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"agentkit": map[string]any{
			"loaded":      g.wallets.Available(),
			"initialized": g.wallets.Len() > 0,
			"clients":     g.wallets.Len(),
		},
		"chains": map[string]any{
			"default":   g.defaultChainID,
			"supported": chains.SupportedIDs(),
		},
		"tools": map[string]any{
			"total":      len(g.reg.Tools()),
			"categories": g.reg.Categories(),
		},
	}
}

func (g *Gateway) Capabilities() any {
	supported := chains.Supported()
	chainList := make([]map[string]any, 0, len(supported))
	for _, c := range supported {
		chainList = append(chainList, map[string]any{
			"chainId":  c.ChainID,
			"name":     c.Name,
			"symbol":   c.NativeSymbol,
			"rpc":      c.RPCURL,
			"explorer": c.ExplorerURL,
			"primary":  c.ChainID == g.defaultChainID,
		})
	}
	return map[string]any{
		"agent": map[string]any{
			"name":        AgentName,
			"version":     g.version,
			"description": "Production-ready DeFi automation system optimized for Avalanche blockchain",
			"author":      "0xGasless x Bhindi",
			"homepage":    "https://0xgasless.com",
		},
		"capabilities": map[string]any{
			"voice":       true,
			"multichain":  true,
			"gasless":     true,
			"defi":        true,
			"analytics":   true,
			"sxt_queries": true,
		},
		"supported": map[string]any{
			"chains":    chainList,
			"languages": []string{"Hindi", "English", "Bengali", "Tamil", "Telugu"},
			"operations": []string{
				"Wallet address retrieval",
				"Multi-token balance checking",
				"Gasless token transfers",
				"DEX token swaps with optimal rates",
				"Cross-chain token bridging",
				"SQL-based blockchain analytics",
			},
		},
		"authentication": map[string]any{
			"required":    []string{"x-api-key"},
			"optional":    []string{"x-private-key", "x-rpc-url", "x-gasless-api-key", "x-sxt-api-key"},
			"chainConfig": []string{"x-chain-id", "x-default-slippage"},
		},
		"endpoints": map[string]string{
			"health":       "/health",
			"tools":        "/tools",
			"actions":      "/actions",
			"capabilities": "/capabilities",
			"chains":       "/chains",
			"manifest":     "/manifest.json",
		},
	}
}

func (g *Gateway) ToolList(tools []*registry.ToolDescriptor) any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"name":                 t.Name,
			"displayName":          t.DisplayName,
			"description":          t.Description,
			"category":             t.Category,
			"type":                 t.Type,
			"requiresConfirmation": t.RequiresConfirmation,
			"parameters":           t.Parameters,
			"aliases":              nonNil(t.Aliases),
		})
	}
	return map[string]any{
		"success": true,
		"agent": map[string]any{
			"name":         AgentName,
			"version":      g.version,
			"capabilities": []string{"READ", "WRITE", "VOICE", "DEFI", "ANALYTICS"},
			"description":  "Production-ready DeFi automation with voice support",
		},
		"tools": list,
		"metadata": map[string]any{
			"totalTools":     len(tools),
			"categories":     categories(tools),
			"endpoint":       "/tools/:toolName",
			"authentication": "x-api-key header required",
		},
	}
}

func (g *Gateway) ActionList(tools []*registry.ToolDescriptor) any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"id":             t.Name,
			"name":           t.Name,
			"displayName":    t.DisplayName,
			"description":    t.Description,
			"parameters":     t.Parameters,
			"type":           t.Type,
			"category":       t.Category,
			"agentkitAction": t.DownstreamAction,
		})
	}
	return map[string]any{
		"success": true,
		"actions": list,
		"metadata": map[string]any{
			"totalActions": len(tools),
			"endpoint":     "/actions/:actionName",
			"format":       "bhindi-compatible",
		},
	}
}

func (g *Gateway) Manifest(tools []*registry.ToolDescriptor) map[string]any {
	list := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		list = append(list, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"endpoint":    "/tools/" + t.Name,
			"method":      "POST",
			"category":    t.Category,
			"type":        t.Type,
			"parameters":  t.Parameters,
		})
	}
	def := chainFor(g.defaultChainID)
	return map[string]any{
		"name":         AgentName,
		"version":      g.version,
		"description":  "Production-ready DeFi automation system with voice support, optimized for Avalanche blockchain operations",
		"author":       "0xGasless x Bhindi",
		"homepage":     "https://0xgasless.com",
		"capabilities": []string{"READ", "WRITE", "VOICE", "DEFI", "MULTICHAIN"},
		"defaultChain": map[string]any{
			"name":    def.Name,
			"chainId": def.ChainID,
			"symbol":  def.NativeSymbol,
		},
		"tools": list,
		"endpoints": map[string]string{
			"base":         "/tools",
			"actions":      "/actions",
			"health":       "/health",
			"capabilities": "/capabilities",
			"chains":       "/chains",
		},
	}
}

func categories(tools []*registry.ToolDescriptor) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tools {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
