package walletgw

import (
	"fmt"
	"strings"
)

// errorMessage rewrites a downstream failure into something the end user
// can act on.
func errorMessage(msg, tool string) string {
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Sprintf("Insufficient funds for %s. Please ensure you have enough balance and gas fees.", tool)
	case strings.Contains(msg, "invalid address"):
		return fmt.Sprintf("Invalid address format for %s. Please provide a valid Ethereum address (0x...).", tool)
	case strings.Contains(msg, "balanceOf") && strings.Contains(msg, "returned no data"):
		return "Token contract not found. Please verify the token address exists on the selected network."
	case strings.Contains(msg, "Smart Account is required"):
		return "Smart account configuration issue. Please check your wallet credentials."
	}
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("Error in %s: %s", tool, msg)
}

// suggestions collects hints for the failure message and then for the tool.
func suggestions(msg, tool string) []string {
	out := []string{}
	if strings.Contains(msg, "insufficient funds") {
		out = append(out,
			"Check your wallet balance",
			"Ensure you have enough AVAX for gas fees",
			"Try a smaller amount",
		)
	}
	if strings.Contains(msg, "invalid address") {
		out = append(out,
			"Verify the address starts with 0x",
			"Check the address is 42 characters long",
			"Ensure no extra spaces or characters",
		)
	}
	if strings.Contains(msg, "Token not found") || strings.Contains(msg, "token address") {
		out = append(out,
			"Use supported tokens: USDT, USDC, AVAX, WAVAX",
			"Try using token symbol instead of address",
			"Verify token exists on Avalanche network",
		)
	}
	switch tool {
	case "transferTokens":
		out = append(out,
			`Format: "transfer [amount] [token] to [address]"`,
			`Example: "transfer 1 USDT to 0x..."`,
			"Supported tokens: USDT, USDC, AVAX",
		)
	case "getWalletBalance":
		out = append(out,
			"Try without token for AVAX balance",
			"Use token symbols: USDT, USDC, WAVAX",
			"Check if token exists on Avalanche",
		)
	}
	return out
}
