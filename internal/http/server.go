package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/invopop/jsonschema"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	"github.com/Adi-21/bhidi0xgasless/internal/telemetry"
)

type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}

type Server struct {
	inv    *gateway.Invoker
	gw     gateway.Gateway
	srv    *http.Server
	logger *slog.Logger
	build  BuildInfo
}

const maxRequestBodyBytes = 1 << 20

var endpoints = []string{
	"GET /health",
	"GET /version",
	"GET /metrics",
	"GET /capabilities",
	"GET /manifest.json",
	"GET /tools",
	"GET /actions",
	"POST /tools/{name}",
	"POST /actions/{name}",
	"POST /{name}",
}

func NewServer(addr string, inv *gateway.Invoker, logger *slog.Logger, build BuildInfo) *Server {
	s := &Server{
		inv:    inv,
		gw:     inv.Gateway(),
		logger: logger,
		build:  build,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.Handle("GET /metrics", telemetry.Handler())
	mux.HandleFunc("GET /capabilities", s.handleCapabilities)
	mux.HandleFunc("GET /manifest.json", s.handleManifest)
	mux.HandleFunc("GET /tools", requireAPIKey(s.handleListTools))
	mux.HandleFunc("GET /actions", requireAPIKey(s.handleListActions))
	mux.HandleFunc("POST /tools/{name}", requireAPIKey(s.handleExecute))
	mux.HandleFunc("POST /actions/{name}", requireAPIKey(s.handleExecute))
	mux.HandleFunc("POST /{name}", s.handleCatchAll)
	if rr, ok := s.gw.(gateway.RouteRegistrar); ok {
		rr.RegisterRoutes(mux, requireAPIKey)
	}
	mux.HandleFunc("/", s.handleNotFound)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      middleware.RequestID(withLogging(logger, withRecovery(logger, mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the routed handler for tests and embedding.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr, "gateway", s.gw.Name())
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	gateway.WriteJSON(w, http.StatusOK, s.gw.Health(r.Context()))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	gateway.WriteJSON(w, http.StatusOK, map[string]string{
		"version":    s.build.Version,
		"git_commit": s.build.GitCommit,
		"build_time": s.build.BuildTime,
	})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	gateway.WriteJSON(w, http.StatusOK, s.gw.Capabilities())
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	manifest := s.gw.Manifest(s.inv.Tools())
	manifest["responseSchema"] = resultSchema()
	gateway.WriteJSON(w, http.StatusOK, manifest)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	gateway.WriteJSON(w, http.StatusOK, s.gw.ToolList(s.inv.Tools()))
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	gateway.WriteJSON(w, http.StatusOK, s.gw.ActionList(s.inv.Tools()))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	args, err := decodeArgs(w, r)
	if err != nil {
		gateway.WriteError(w, err, http.StatusBadRequest)
		return
	}
	res, _ := s.inv.Invoke(r.Context(), r.Header, r.PathValue("name"), args)
	writeResult(w, res)
}

func (s *Server) handleCatchAll(w http.ResponseWriter, r *http.Request) {
	if gateway.ReservedNames[strings.ToLower(r.PathValue("name"))] {
		s.handleNotFound(w, r)
		return
	}
	requireAPIKey(s.handleExecute)(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeResult(w, core.Fail(&core.Error{
		Code:    core.CodeEndpointNotFound,
		Message: fmt.Sprintf("Endpoint %s %s not found", r.Method, r.URL.Path),
		Context: map[string]any{"availableEndpoints": endpoints},
	}, nil))
}

// requireAPIKey rejects requests without a platform API key.
func requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gateway.Authorize(r.Header); err != nil {
			writeResult(w, core.Fail(err, nil))
			return
		}
		next(w, r)
	}
}

func resultSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	return reflector.Reflect(&core.ToolResult{})
}

func writeResult(w http.ResponseWriter, res core.ToolResult) {
	gateway.WriteJSON(w, core.StatusForResult(res), res)
}

// decodeArgs reads the raw parameter object. An empty body is an empty
// object.
func decodeArgs(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("request body must contain a single JSON object")
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		)
	})
}

// withRecovery turns a panic into a 500 INTERNAL_ERROR envelope.
func withRecovery(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil || rec == http.ErrAbortHandler {
				if rec != nil {
					panic(rec)
				}
				return
			}
			logger.Error("handler panic",
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			gateway.WriteError(w, errors.New("internal server error"), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
