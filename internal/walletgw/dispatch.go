package walletgw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/params"
	"github.com/Adi-21/bhidi0xgasless/internal/wallet"
)

// Execute runs a canonical wallet tool: normalize, get a wallet client,
// fall back to demo data without one, else run the downstream action.
func (g *Gateway) Execute(ctx context.Context, h http.Header, tool string, args map[string]any) core.ToolResult {
	cfg := ConfigFromHeaders(h, g.defaultChainID)
	executionID := core.ExecutionID(ctx)
	logger := g.logger.With("execution_id", executionID, "tool", tool)

	desc, ok := g.reg.Lookup(tool)
	if !ok {
		return core.Fail(core.ToolNotFound(tool), nil)
	}

	processed, err := params.NormalizeWallet(tool, args, params.WalletOptions{
		ChainID:         cfg.ChainID,
		DefaultSlippage: cfg.DefaultSlippage,
	})
	if err != nil {
		logger.Info("wallet parameters rejected", "error", err)
		return core.Fail(err, map[string]any{"toolName": tool})
	}

	client, err := g.wallets.Get(ctx, cfg.Credentials())
	if err != nil {
		logger.Info("wallet client unavailable", append(cfg.LogAttrs(), "error", err)...)
		if !g.demoFallback {
			return core.Fail(&core.Error{
				Code:    core.CodeServiceUnavailable,
				Message: "Wallet operations are unavailable. Configure x-private-key, x-rpc-url and x-gasless-api-key.",
				Err:     err,
			}, map[string]any{"toolName": tool, "executionId": executionID})
		}
		return mock(tool, processed, cfg)
	}

	logger.Debug("running wallet action", "action", desc.DownstreamAction, "chain_id", cfg.ChainID)
	text, runErr := client.Run(ctx, desc.DownstreamAction, processed)

	var apiErr *wallet.APIError
	if errors.As(runErr, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// The sidecar no longer knows the agent; rebuild it next time.
		g.wallets.Forget(cfg.Credentials())
	}

	if tool == "transferTokens" || tool == "swapTokens" {
		output := text
		if runErr != nil {
			output = runErr.Error()
		}
		if hash, ok := chains.FindTxHash(output); ok {
			data := successData(tool, processed, cfg, executionID, text)
			data["transactionHash"] = hash
			data["explorerUrl"] = chains.ExplorerTxURL(cfg.ChainID, hash)
			data["status"] = "success"
			if runErr != nil || reportsFailure(output) {
				logger.Warn("downstream reported failure but returned a transaction hash", "tx_hash", hash)
				data["result"] = confirmationText(tool, processed, cfg.ChainID, hash)
				data["note"] = "Transaction hash found in the wallet output; the reported error was superseded"
			}
			return core.Succeed(data)
		}
	}

	if runErr != nil {
		logger.Warn("wallet action failed", "action", desc.DownstreamAction, "error", runErr)
		return failure(tool, args, processed, cfg, executionID, runErr)
	}
	return core.Succeed(successData(tool, processed, cfg, executionID, text))
}

func successData(tool string, processed map[string]any, cfg Config, executionID, result string) map[string]any {
	return map[string]any{
		"result":        result,
		"toolName":      tool,
		"processedArgs": processed,
		"executedAt":    time.Now().UTC().Format(time.RFC3339),
		"chainId":       cfg.ChainID,
		"source":        core.SourceAgentkit,
		"executionId":   executionID,
	}
}

func failure(tool string, args, processed map[string]any, cfg Config, executionID string, err error) core.ToolResult {
	msg := err.Error()
	var apiErr *wallet.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Body
	}
	ce := core.ExecutionError(err)
	ce.Message = errorMessage(msg, tool)
	ce.Context = map[string]any{
		"toolName":      tool,
		"originalArgs":  args,
		"processedArgs": processed,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"chainId":       cfg.ChainID,
		"executionId":   executionID,
		"suggestions":   suggestions(msg, tool),
	}
	return core.Fail(ce, nil)
}

// reportsFailure matches the words the SDK uses when a user operation
// appears to fail after submission.
func reportsFailure(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "error") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "bundler")
}

func confirmationText(tool string, processed map[string]any, chainID int, hash string) string {
	op := "Transfer"
	details := fmt.Sprintf("%s %s to %s",
		str(processed["amount"]), tokenSymbol(str(processed["tokenAddress"]), chainID), str(processed["destination"]))
	if tool == "swapTokens" {
		op = "Swap"
		details = fmt.Sprintf("%s %s → %s",
			str(processed["amount"]),
			tokenSymbol(str(processed["tokenIn"]), chainID),
			tokenSymbol(str(processed["tokenOut"]), chainID))
	}
	return fmt.Sprintf("✅ %s completed successfully!\n\n🔗 Transaction Hash: %s\n\n📊 Details:\n• %s: %s\n• Network: %s\n• Status: Confirmed ✅\n\n🌐 View on Explorer: %s",
		op, hash, op, details, chains.ChainName(chainID), chains.ExplorerTxURL(chainID, hash))
}
