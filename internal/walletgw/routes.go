package walletgw

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/gateway"
	"github.com/Adi-21/bhidi0xgasless/internal/params"
)

const maxDebugBodyBytes = 1 << 20

// RegisterRoutes adds the chain listing and, when the profile allows it,
// the normalizer debug endpoints.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux, auth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /chains", g.handleChains)
	if !g.exposeDebug {
		return
	}
	mux.HandleFunc("POST /debug/transfer-params", auth(g.handleDebugTransfer))
	mux.HandleFunc("POST /debug/swap-params", auth(g.handleDebugSwap))
	mux.HandleFunc("POST /debug/sxt-params", auth(g.handleDebugSXT))
}

func (g *Gateway) handleChains(w http.ResponseWriter, r *http.Request) {
	supported := chains.Supported()
	list := make([]map[string]any, 0, len(supported))
	for _, c := range supported {
		symbols := slices.Sorted(maps.Keys(c.Tokens))
		tokens := make([]map[string]any, 0, len(symbols))
		for _, symbol := range symbols {
			address := c.Tokens[symbol]
			tokens = append(tokens, map[string]any{
				"symbol":  symbol,
				"address": address,
				"native":  address == chains.NativeAddress,
			})
		}
		list = append(list, map[string]any{
			"chainId":  c.ChainID,
			"name":     c.Name,
			"symbol":   c.NativeSymbol,
			"rpc":      c.RPCURL,
			"explorer": c.ExplorerURL,
			"tokens":   tokens,
			"primary":  c.ChainID == g.defaultChainID,
		})
	}
	gateway.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"chains":  list,
		"default": g.defaultChainID,
		"total":   len(list),
	})
}

func (g *Gateway) handleDebugTransfer(w http.ResponseWriter, r *http.Request) {
	g.debugNormalize(w, r, func(in map[string]any, cfg Config) (map[string]any, map[string]any, error) {
		out, err := params.Transfer(params.StripMetadata(in), cfg.ChainID)
		if err != nil {
			return nil, nil, err
		}
		return out, map[string]any{
			"to":               in["to"],
			"destination":      out["destination"],
			"mapped_correctly": in["to"] == out["destination"],
			"parameter_name":   "destination",
		}, nil
	})
}

func (g *Gateway) handleDebugSwap(w http.ResponseWriter, r *http.Request) {
	g.debugNormalize(w, r, func(in map[string]any, cfg Config) (map[string]any, map[string]any, error) {
		out, err := params.Swap(params.StripMetadata(in), cfg.ChainID, cfg.DefaultSlippage)
		if err != nil {
			return nil, nil, err
		}
		return out, map[string]any{
			"fromToken": in["fromToken"],
			"tokenIn":   out["tokenIn"],
			"toToken":   in["toToken"],
			"tokenOut":  out["tokenOut"],
		}, nil
	})
}

func (g *Gateway) handleDebugSXT(w http.ResponseWriter, r *http.Request) {
	g.debugNormalize(w, r, func(in map[string]any, cfg Config) (map[string]any, map[string]any, error) {
		out, err := params.Query(params.StripMetadata(in))
		if err != nil {
			return nil, nil, err
		}
		return out, map[string]any{
			"query":             in["query"],
			"sqlText":           out["sqlText"],
			"sxt_key_available": cfg.SXTAPIKey != "",
		}, nil
	})
}

type normalizeFunc func(in map[string]any, cfg Config) (out, mapping map[string]any, err error)

// debugNormalize runs a normalizer alone and reports its input and output.
func (g *Gateway) debugNormalize(w http.ResponseWriter, r *http.Request, fn normalizeFunc) {
	var in map[string]any
	r.Body = http.MaxBytesReader(w, r.Body, maxDebugBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && err != io.EOF {
		gateway.WriteError(w, fmt.Errorf("invalid json: %w", err), http.StatusBadRequest)
		return
	}
	if in == nil {
		in = map[string]any{}
	}

	cfg := ConfigFromHeaders(r.Header, g.defaultChainID)
	out, mapping, err := fn(in, cfg)
	if err != nil {
		res := core.Fail(err, nil)
		gateway.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   res.Error,
			"input":   in,
		})
		return
	}
	gateway.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"debug":     true,
		"input":     in,
		"output":    out,
		"mapping":   mapping,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
