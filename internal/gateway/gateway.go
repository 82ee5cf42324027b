// Package gateway holds what the wallet and expense gateways share: the
// backend contract and the resolve, policy, execute and audit path every
// transport goes through.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/registry"
	"github.com/Adi-21/bhidi0xgasless/internal/telemetry"
	"github.com/google/uuid"
)

// Gateway is one tool-call backend. Execute receives a canonical tool name
// and never fails outside the returned result.
type Gateway interface {
	Name() string
	Registry() *registry.Registry
	Execute(ctx context.Context, h http.Header, tool string, args map[string]any) core.ToolResult

	Health(ctx context.Context) any
	Capabilities() any
	ToolList(tools []*registry.ToolDescriptor) any
	ActionList(tools []*registry.ToolDescriptor) any
	Manifest(tools []*registry.ToolDescriptor) map[string]any
}

// RouteRegistrar is implemented by gateways that serve extra routes. auth
// wraps handlers that need the platform API key.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, auth func(http.HandlerFunc) http.HandlerFunc)
}

// APIKeyHeader names the header checked by Authorize in error messages.
const APIKeyHeader = "x-api-key"

// ReservedNames are never treated as tool names by the catch-all route.
var ReservedNames = map[string]bool{
	"health":        true,
	"tools":         true,
	"actions":       true,
	"capabilities":  true,
	"debug":         true,
	"favicon.ico":   true,
	"robots.txt":    true,
	"version":       true,
	"metrics":       true,
	"chains":        true,
	"manifest.json": true,
}

// Authorize checks that a platform API key is present. The key itself is
// not verified.
func Authorize(h http.Header) error {
	if core.APIKey(h) == "" {
		return core.AuthRequired(APIKeyHeader)
	}
	return nil
}

// Invoker runs tool calls against a Gateway.
type Invoker struct {
	gw     Gateway
	policy *core.Policy
	audit  *core.AuditService
	logger *slog.Logger
}

// NewInvoker wires gw. policy and audit may be nil.
func NewInvoker(gw Gateway, policy *core.Policy, audit *core.AuditService, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{gw: gw, policy: policy, audit: audit, logger: logger}
}

func (i *Invoker) Gateway() Gateway { return i.gw }

// Resolve maps requested to a registered canonical tool. Unresolvable names
// fail with TOOL_NOT_FOUND listing the available tools and close matches.
func (i *Invoker) Resolve(requested string) (string, error) {
	reg := i.gw.Registry()
	canonical, match := reg.ResolveMatch(requested)
	telemetry.IncResolution(string(match))
	if _, ok := reg.Lookup(canonical); !ok {
		return "", core.ToolNotFound(requested).
			With("available", reg.Names()).
			With("suggestions", reg.Suggest(requested))
	}
	return canonical, nil
}

// Tools lists the registered tools the policy allows, in registry order.
func (i *Invoker) Tools() []*registry.ToolDescriptor {
	all := i.gw.Registry().Tools()
	if i.policy == nil || len(i.policy.Allowed()) == 0 {
		return all
	}
	out := make([]*registry.ToolDescriptor, 0, len(all))
	for _, t := range all {
		if i.policy.CheckTool(t.Name) == nil {
			out = append(out, t)
		}
	}
	return out
}

// Invoke authorizes, resolves and executes one tool call. The returned name
// is the canonical tool, or the requested name when resolution failed.
func (i *Invoker) Invoke(ctx context.Context, h http.Header, requested string, args map[string]any) (core.ToolResult, string) {
	if err := Authorize(h); err != nil {
		return core.Fail(err, nil), requested
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	executionID := uuid.NewString()
	ctx = core.WithExecutionID(ctx, executionID)

	canonical, err := i.Resolve(requested)
	if err != nil {
		canonical = requested
	} else {
		err = i.policy.CheckTool(canonical)
	}

	var result core.ToolResult
	if err != nil {
		result = core.Fail(err, nil)
	} else {
		result = i.gw.Execute(ctx, h, canonical, args)
	}
	elapsed := time.Since(start)

	telemetry.IncToolCall(canonical, result.Status(), result.Source())
	telemetry.ObserveToolDuration(canonical, elapsed)

	attrs := []any{
		"gateway", i.gw.Name(),
		"execution_id", executionID,
		"tool", canonical,
		"requested", requested,
		"status", result.Status(),
		"source", result.Source(),
		"duration_ms", elapsed.Milliseconds(),
	}
	if result.Error != nil {
		attrs = append(attrs, "error_code", result.Error.Code)
	}
	i.logger.Info("tool executed", attrs...)

	if i.audit != nil {
		_, auditErr := i.audit.Record(ctx, core.RecordInput{
			ExecutionID:   executionID,
			ToolName:      canonical,
			RequestedName: requested,
			Caller:        core.CallerSubject(h),
			Request:       map[string]any{"tool": requested, "args": args},
			Result:        result,
			Duration:      elapsed,
		})
		if auditErr != nil {
			telemetry.IncAuditFailure()
			i.logger.Error("audit record failed", "execution_id", executionID, "tool", canonical, "error", auditErr)
		}
	}
	return result, canonical
}
