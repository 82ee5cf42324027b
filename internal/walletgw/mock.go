package walletgw

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

// MockAddress is the smart account reported in demo mode.
const MockAddress = "0x742d35Cc6639C0532fEb96c26c5CA44f39F5C9a6"

const (
	mockNativeBalance = "2.5"
	mockNativeUSD     = "$125.50"
	mockSwapRate      = 0.98
	mockBridgeTime    = "5-10 minutes"
)

var mockTokenBalances = map[string]string{
	"USDT":  "1250.50",
	"USDC":  "890.25",
	"WAVAX": "1.2",
}

var mockQueryRows = []map[string]any{
	{"block_number": 18000001, "transaction_count": 245, "gas_used": "12500000"},
	{"block_number": 18000002, "transaction_count": 189, "gas_used": "11200000"},
	{"block_number": 18000003, "transaction_count": 298, "gas_used": "13800000"},
}

// mock answers a normalized call with canned demo data. It always succeeds
// for registered tools.
func mock(tool string, processed map[string]any, cfg Config) core.ToolResult {
	chain := chainFor(cfg.ChainID)
	var data map[string]any

	switch tool {
	case "getWalletAddress":
		data = map[string]any{
			"address": MockAddress,
			"chain":   chain.Name,
			"chainId": cfg.ChainID,
			"text":    "Your wallet address: " + MockAddress,
		}

	case "getWalletBalance":
		data = mockBalance(processed, cfg.ChainID, chain)

	case "transferTokens":
		token := str(processed["tokenAddress"])
		symbol := tokenSymbol(token, cfg.ChainID)
		to := str(processed["destination"])
		amount := str(processed["amount"])
		data = map[string]any{
			"transactionId": randomTxHash(),
			"to":            to,
			"amount":        amount,
			"token":         symbol,
			"tokenAddress":  token,
			"chainId":       cfg.ChainID,
			"text":          fmt.Sprintf("Demo: Would transfer %s %s to %s on %s", amount, symbol, to, chain.Name),
			"status":        "simulated",
			"note":          "This is a demo transaction. Configure real credentials for actual transfers.",
		}

	case "swapTokens":
		amount := str(processed["amount"])
		from := tokenSymbol(str(processed["tokenIn"]), cfg.ChainID)
		to := tokenSymbol(str(processed["tokenOut"]), cfg.ChainID)
		f, _ := strconv.ParseFloat(amount, 64)
		data = map[string]any{
			"fromToken":       from,
			"toToken":         to,
			"amount":          amount,
			"estimatedOutput": strconv.FormatFloat(f*mockSwapRate, 'f', -1, 64),
			"slippage":        processed["slippage"],
			"chainId":         cfg.ChainID,
			"text":            fmt.Sprintf("Demo: Would swap %s %s for %s", amount, from, to),
		}

	case "bridgeTokens":
		amount := str(processed["amount"])
		from := bridgeChainName(processed["fromChainId"])
		to := bridgeChainName(processed["toChainId"])
		data = map[string]any{
			"fromChain":     from,
			"toChain":       to,
			"amount":        amount,
			"estimatedTime": mockBridgeTime,
			"text":          fmt.Sprintf("Demo: Would bridge %s from %s to %s", amount, from, to),
		}

	case "queryBlockchainData":
		q := str(processed["sqlText"])
		data = map[string]any{
			"query":   q,
			"results": map[string]any{"rows": 5, "data": mockQueryRows},
			"text":    fmt.Sprintf("Demo: SQL query executed successfully. Query: %q", truncate(q, 50)),
			"note":    "Configure SXT API key for real blockchain data queries",
		}

	default:
		return core.Fail(core.ToolNotFound(tool), nil)
	}

	data["source"] = core.SourceDemo
	return core.Succeed(data)
}

func mockBalance(processed map[string]any, chainID int, chain chains.ChainConfig) map[string]any {
	if token := str(processed["tokenAddress"]); token != "" {
		symbol := chains.TokenSymbol(token, chainID)
		if balance, ok := mockTokenBalances[symbol]; ok {
			return map[string]any{
				"balance": balance,
				"symbol":  symbol,
				"address": token,
				"chainId": chainID,
				"text":    fmt.Sprintf("%s balance: %s", symbol, balance),
			}
		}
	}
	return map[string]any{
		"balance":  mockNativeBalance,
		"symbol":   chain.NativeSymbol,
		"chainId":  chainID,
		"usdValue": mockNativeUSD,
		"text":     fmt.Sprintf("%s balance: %s (≈%s)", chain.NativeSymbol, mockNativeBalance, mockNativeUSD),
	}
}

// chainFor returns the configured chain, or Avalanche for chains without a
// token table.
func chainFor(chainID int) chains.ChainConfig {
	if c, ok := chains.Lookup(chainID); ok {
		return c
	}
	c, _ := chains.Lookup(chains.DefaultChainID)
	return c
}

// tokenSymbol names the native currency after the chain and everything else
// through the chain's token table.
func tokenSymbol(token string, chainID int) string {
	if token == "" || token == chains.NativeSentinel || token == chains.NativeAddress {
		return chainFor(chainID).NativeSymbol
	}
	return chains.TokenSymbol(token, chainID)
}

func bridgeChainName(v any) string {
	id, ok := v.(int)
	if !ok || !chains.IsBridgeChain(id) {
		return "Unknown"
	}
	return chains.ChainName(id)
}

func randomTxHash() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return "0x" + hex.EncodeToString(b[:])
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
