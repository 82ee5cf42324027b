// Package mcp exposes a gateway's tools over the Model Context Protocol
// (SSE transport). Calls take the same resolve, policy, execute and audit
// path as the HTTP routes.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	"github.com/Adi-21/bhidi0xgasless/internal/registry"
)

type ctxKey string

const ctxKeyHeaders ctxKey = "headers"

type Server struct {
	inv    *gateway.Invoker
	mcp    *server.MCPServer
	sse    *server.SSEServer
	addr   string
	logger *slog.Logger
}

// NewServer registers every tool the policy allows. baseURL is the public
// URL clients use to reach addr.
func NewServer(addr, baseURL, version string, inv *gateway.Invoker, logger *slog.Logger) *Server {
	if baseURL == "" {
		baseURL = "http://localhost" + addr
		if !strings.HasPrefix(addr, ":") {
			baseURL = "http://" + addr
		}
	}
	s := &Server{
		inv:    inv,
		addr:   addr,
		logger: logger,
		mcp: server.NewMCPServer(
			inv.Gateway().Name()+"-gateway",
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.sse = server.NewSSEServer(s.mcp,
		server.WithBaseURL(baseURL),
		server.WithSSEContextFunc(withHeaders),
	)
	return s
}

// withHeaders carries the caller's credential headers into tool handlers.
func withHeaders(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, ctxKeyHeaders, r.Header.Clone())
}

func headersFrom(ctx context.Context) http.Header {
	if h, ok := ctx.Value(ctxKeyHeaders).(http.Header); ok {
		return h
	}
	return http.Header{}
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("mcp server starting", "addr", s.addr)
	return s.sse.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sse.Shutdown(ctx)
}

func (s *Server) registerTools() {
	reg := s.inv.Gateway().Registry()
	for _, t := range s.inv.Tools() {
		schema, ok := reg.Schema(t.Name)
		if !ok {
			s.logger.Error("mcp tool has no compiled schema", "tool", t.Name)
			continue
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, schema), s.handleToolCall)
	}
}

func (s *Server) handleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _ := s.inv.Invoke(ctx, headersFrom(ctx), req.Params.Name, req.GetArguments())
	raw, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	out := mcp.NewToolResultText(string(raw))
	out.IsError = !result.Success
	return out, nil
}

// ToolDefinition is one tool as advertised to MCP clients.
type ToolDefinition struct {
	Name        string
	Description string
	Category    string
	Aliases     []string
	InputSchema map[string]any
}

// ToolDefinitions turns registry descriptors into MCP tool definitions.
func ToolDefinitions(tools []*registry.ToolDescriptor) []ToolDefinition {
	out := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		schema := t.Parameters
		if schema == nil {
			schema = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			Aliases:     t.Aliases,
			InputSchema: schema,
		})
	}
	return out
}
