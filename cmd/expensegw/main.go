package main

import (
	"os"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/app"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/expensegw"
	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	httpsvr "github.com/Adi-21/bhidi0xgasless/internal/http"
	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
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

	reg := app.LoadRegistry("expense", logger)
	audit, closeAudit := app.OpenAudit("expense", logger)
	defer closeAudit()
	policy := core.NewPolicy(os.Getenv("TOOL_ALLOWLIST"))

	timeout := time.Duration(app.EnvInt("UPSTREAM_TIMEOUT_SECONDS", profile.UpstreamTimeoutSeconds)) * time.Second
	baseURL := app.EnvOrDefault("SPLITWISE_BASE_URL", splitwise.DefaultBaseURL)
	demo := app.EnvBool("DEMO_FALLBACK", profile.DemoFallback)
	debug := app.EnvBool("EXPOSE_DEBUG", profile.ExposeDebug)

	gw := expensegw.New(expensegw.Options{
		Registry:     reg,
		BaseURL:      baseURL,
		Timeout:      timeout,
		DemoFallback: demo,
		ExposeDebug:  debug,
		Version:      version,
		Logger:       logger,
	})

	logger.Info("effective config",
		"profile", profile.Name,
		"splitwise_base_url", baseURL,
		"demo_fallback", demo,
		"expose_debug", debug,
		"upstream_timeout_seconds", int(timeout/time.Second),
		"tool_allowlist", policy.Allowed(),
	)

	app.Serve(gateway.NewInvoker(gw, policy, audit, logger), app.ServeConfig{
		HTTPAddr:   app.EnvOrDefault("EXPENSE_HTTP_LISTEN", "0.0.0.0:3000"),
		MCPAddr:    os.Getenv("EXPENSE_MCP_LISTEN"),
		MCPBaseURL: os.Getenv("EXPENSE_MCP_BASE_URL"),
		Build:      httpsvr.BuildInfo{Version: version, GitCommit: gitCommit, BuildTime: buildTime},
	}, logger)
}
