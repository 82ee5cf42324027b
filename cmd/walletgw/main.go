package main

import (
	"os"
	"strings"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/app"
	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	httpsvr "github.com/Adi-21/bhidi0xgasless/internal/http"
	"github.com/Adi-21/bhidi0xgasless/internal/wallet"
	"github.com/Adi-21/bhidi0xgasless/internal/walletgw"
)

var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

func main() {
	profile := app.LoadProfile()
	logger := app.NewLogger(profile)
	logger.Info("profile loaded", "profile", profile.Name)

	reg := app.LoadRegistry("wallet", logger)
	audit, closeAudit := app.OpenAudit("wallet", logger)
	defer closeAudit()
	policy := core.NewPolicy(os.Getenv("TOOL_ALLOWLIST"))

	timeout := time.Duration(app.EnvInt("UPSTREAM_TIMEOUT_SECONDS", profile.UpstreamTimeoutSeconds)) * time.Second
	var sdk wallet.SDK
	bridgeURL := strings.TrimSpace(os.Getenv("AGENTKIT_BRIDGE_URL"))
	if bridgeURL != "" {
		sdk = wallet.NewBridge(bridgeURL, app.RequireEnv("AGENTKIT_BRIDGE_SECRET"), timeout)
	}
	cacheSize := app.EnvInt("WALLET_CLIENT_CACHE_SIZE", profile.WalletClientCacheSize)

	defaultChain := app.EnvInt("DEFAULT_CHAIN_ID", chains.DefaultChainID)
	if _, ok := chains.Lookup(defaultChain); !ok {
		logger.Error("invalid DEFAULT_CHAIN_ID", "value", defaultChain, "supported", chains.SupportedIDs())
		os.Exit(1)
	}

	demo := app.EnvBool("DEMO_FALLBACK", profile.DemoFallback)
	debug := app.EnvBool("EXPOSE_DEBUG", profile.ExposeDebug)
	gw := walletgw.New(walletgw.Options{
		Registry:       reg,
		Wallets:        wallet.NewCache(sdk, cacheSize, logger),
		DefaultChainID: defaultChain,
		DemoFallback:   demo,
		ExposeDebug:    debug,
		Version:        version,
		Logger:         logger,
	})

	logger.Info("effective config",
		"profile", profile.Name,
		"bridge_configured", sdk != nil,
		"default_chain_id", defaultChain,
		"demo_fallback", demo,
		"expose_debug", debug,
		"wallet_client_cache_size", cacheSize,
		"upstream_timeout_seconds", int(timeout/time.Second),
		"tool_allowlist", policy.Allowed(),
	)

	app.Serve(gateway.NewInvoker(gw, policy, audit, logger), app.ServeConfig{
		HTTPAddr:   app.EnvOrDefault("WALLET_HTTP_LISTEN", "0.0.0.0:8080"),
		MCPAddr:    os.Getenv("WALLET_MCP_LISTEN"),
		MCPBaseURL: os.Getenv("WALLET_MCP_BASE_URL"),
		Build:      httpsvr.BuildInfo{Version: version, GitCommit: gitCommit, BuildTime: buildTime},
	}, logger)
}
