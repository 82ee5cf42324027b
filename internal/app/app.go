// Package app holds the process wiring shared by the gateway binaries:
// env helpers, logging, the audit sink and the serve loop.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/db"
	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	httpsvr "github.com/Adi-21/bhidi0xgasless/internal/http"
	mcpsvr "github.com/Adi-21/bhidi0xgasless/internal/mcp"
	"github.com/Adi-21/bhidi0xgasless/internal/registry"
)

const shutdownTimeout = 15 * time.Second

func RequireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required env var missing", "key", key)
		os.Exit(1)
	}
	return v
}

func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads a positive integer, exiting on a malformed value.
func EnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Error("invalid env var", "key", key, "value", raw)
		os.Exit(1)
	}
	return v
}

func EnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Error("invalid env var", "key", key, "value", raw)
		os.Exit(1)
	}
	return v
}

func SplitCSV(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewLogger builds the JSON logger at LOG_LEVEL, falling back to the
// profile level.
func NewLogger(profile *core.ProfileDefaults) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(EnvOrDefault("LOG_LEVEL", profile.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// LoadProfile reads GATEWAY_PROFILE and exits on an unknown name.
func LoadProfile() *core.ProfileDefaults {
	name := strings.TrimSpace(os.Getenv("GATEWAY_PROFILE"))
	profile, err := core.LoadProfile(name)
	if err != nil {
		slog.Error("invalid GATEWAY_PROFILE", "value", name, "err", err)
		os.Exit(1)
	}
	return profile
}

// LoadRegistry reads REGISTRY_FILE when set, else the embedded registry.
func LoadRegistry(gatewayName string, logger *slog.Logger) *registry.Registry {
	path := strings.TrimSpace(os.Getenv("REGISTRY_FILE"))
	var (
		reg *registry.Registry
		err error
	)
	if path != "" {
		reg, err = registry.LoadFile(path)
	} else {
		reg, err = registry.Load(gatewayName)
	}
	if err != nil {
		logger.Error("registry load failed", "gateway", gatewayName, "path", path, "err", err)
		os.Exit(1)
	}
	logger.Info("registry loaded", "gateway", gatewayName, "tools", len(reg.Tools()), "path", path)
	return reg
}

// OpenAudit returns the audit service and a close func. Without
// AUDIT_DATABASE_URL events are only logged.
func OpenAudit(gatewayName string, logger *slog.Logger) (*core.AuditService, func()) {
	url := strings.TrimSpace(os.Getenv("AUDIT_DATABASE_URL"))
	if url == "" {
		return core.NewAuditService(gatewayName, nil, logger), func() {}
	}
	database, err := db.New(url)
	if err != nil {
		logger.Error("audit database connection failed", "err", err)
		os.Exit(1)
	}
	return core.NewAuditService(gatewayName, database, logger), func() { database.Close() }
}

type ServeConfig struct {
	HTTPAddr string
	// MCPAddr is optional; empty disables the MCP transport.
	MCPAddr    string
	MCPBaseURL string
	Build      httpsvr.BuildInfo
}

type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Serve runs the HTTP and optional MCP servers until a signal or a server
// error, then shuts both down.
func Serve(inv *gateway.Invoker, cfg ServeConfig, logger *slog.Logger) {
	servers := []server{httpsvr.NewServer(cfg.HTTPAddr, inv, logger, cfg.Build)}
	if cfg.MCPAddr != "" {
		servers = append(servers, mcpsvr.NewServer(cfg.MCPAddr, cfg.MCPBaseURL, cfg.Build.Version, inv, logger))
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() { errCh <- s.ListenAndServe() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}
	logger.Info("shutdown complete")
}
