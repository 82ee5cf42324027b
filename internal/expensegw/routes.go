package expensegw

import (
	"encoding/json"
	"net/http"
	"time"
)

// RegisterRoutes adds the tool debug listing when the profile allows it.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux, auth func(http.HandlerFunc) http.HandlerFunc) {
	if !g.exposeDebug {
		return
	}
	mux.HandleFunc("GET /debug/tools", auth(g.handleDebugTools))
}

func (g *Gateway) handleDebugTools(w http.ResponseWriter, r *http.Request) {
	names := g.reg.Names()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"available_tools": names,
		"aliases":         g.reg.Aliases(),
		"total_count":     len(names),
		"server_status":   "running",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
