package chains

import (
	"strings"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

// symbolAliases maps lowercase user spellings to chain token table keys.
// An empty value means the native sentinel.
var symbolAliases = map[string]string{
	"usdt":         "USDT",
	"usdt.e":       "USDT",
	"tether":       "USDT",
	"usdc":         "USDC",
	"usdc.e":       "USDC",
	"usd coin":     "USDC",
	"wavax":        "WAVAX",
	"wrapped avax": "WAVAX",
	"avalanche":    "",
}

var nativeAliases = map[string]bool{"eth": true, "avax": true, "native": true}

// ResolveToken turns a symbol, alias or address into what the wallet SDK
// expects on chainID: a contract address or NativeSentinel. Unknown symbols
// pass through unchanged.
func ResolveToken(input any, chainID int) (string, error) {
	if input == nil {
		return NativeSentinel, nil
	}
	raw, ok := input.(string)
	if !ok {
		return "", core.InvalidFormat("Invalid token address type: %T. Must be string.", input)
	}
	if raw == "" {
		return NativeSentinel, nil
	}
	if IsAddress(raw) {
		return raw, nil
	}

	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" || nativeAliases[lower] {
		return NativeSentinel, nil
	}

	c, ok := Lookup(chainID)
	if !ok {
		return "", core.UnsupportedChain(chainID)
	}

	if key, ok := symbolAliases[lower]; ok {
		if key == "" {
			return NativeSentinel, nil
		}
		if address, ok := c.Tokens[key]; ok {
			return address, nil
		}
	}

	if strings.HasPrefix(lower, "0x") {
		return "", core.InvalidFormat("Invalid token address format: %s", raw)
	}
	return raw, nil
}
