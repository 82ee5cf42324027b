package chains

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	// Avalanche C-Chain is the default network for both the SDK and explorer links.
	Avalanche = 43114
	BSC       = 56
	Ethereum  = 1
	Polygon   = 137
	Base      = 8453

	DefaultChainID = Avalanche

	// NativeSentinel stands for a chain's native currency in downstream calls.
	NativeSentinel = "eth"
	NativeAddress  = "0x0000000000000000000000000000000000000000"
)

var (
	addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashPattern  = regexp.MustCompile(`0x[a-fA-F0-9]{64}`)
)

// ChainConfig describes a network the wallet gateway can operate on.
type ChainConfig struct {
	ChainID      int               `json:"chainId"`
	Name         string            `json:"name"`
	NativeSymbol string            `json:"symbol"`
	RPCURL       string            `json:"rpc"`
	ExplorerURL  string            `json:"explorer"`
	Tokens       map[string]string `json:"tokens"`
}

// ExplorerTxPrefix is the transaction page prefix on the chain's explorer.
func (c ChainConfig) ExplorerTxPrefix() string {
	return c.ExplorerURL + "/tx/"
}

var configs = map[int]ChainConfig{
	Avalanche: {
		ChainID:      Avalanche,
		Name:         "Avalanche",
		NativeSymbol: "AVAX",
		RPCURL:       "https://api.avax.network/ext/bc/C/rpc",
		ExplorerURL:  "https://snowtrace.io",
		Tokens: map[string]string{
			"USDT":   "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7",
			"USDC":   "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
			"WAVAX":  "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7",
			"NATIVE": NativeAddress,
		},
	},
	BSC: {
		ChainID:      BSC,
		Name:         "BSC",
		NativeSymbol: "BNB",
		RPCURL:       "https://bsc-dataseed.binance.org/",
		ExplorerURL:  "https://bscscan.com",
		Tokens: map[string]string{
			"USDT":   "0x55d398326f99059fF775485246999027B3197955",
			"USDC":   "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
			"NATIVE": NativeAddress,
		},
	},
}

// Networks known only for naming, bridging and explorer links.
var explorerOnly = map[int]ChainConfig{
	Ethereum: {ChainID: Ethereum, Name: "Ethereum", NativeSymbol: "ETH", ExplorerURL: "https://etherscan.io"},
	Polygon:  {ChainID: Polygon, Name: "Polygon", NativeSymbol: "MATIC", ExplorerURL: "https://polygonscan.com"},
	Base:     {ChainID: Base, Name: "Base", NativeSymbol: "ETH", ExplorerURL: "https://basescan.org"},
}

// Lookup returns the full configuration for chains with a token table.
func Lookup(chainID int) (ChainConfig, bool) {
	c, ok := configs[chainID]
	return c, ok
}

// Supported lists the fully configured chains, default chain first.
func Supported() []ChainConfig {
	out := make([]ChainConfig, 0, len(configs))
	for _, c := range configs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChainID == DefaultChainID {
			return true
		}
		if out[j].ChainID == DefaultChainID {
			return false
		}
		return out[i].ChainID < out[j].ChainID
	})
	return out
}

// SupportedIDs returns the ids of Supported in the same order.
func SupportedIDs() []int {
	var ids []int
	for _, c := range Supported() {
		ids = append(ids, c.ChainID)
	}
	return ids
}

// BridgeChainIDs are the networks accepted as bridge endpoints.
func BridgeChainIDs() []int {
	return []int{Avalanche, BSC, Ethereum, Polygon, Base}
}

// IsBridgeChain reports whether chainID may be used as a bridge endpoint.
func IsBridgeChain(chainID int) bool {
	for _, id := range BridgeChainIDs() {
		if id == chainID {
			return true
		}
	}
	return false
}

func network(chainID int) (ChainConfig, bool) {
	if c, ok := configs[chainID]; ok {
		return c, true
	}
	c, ok := explorerOnly[chainID]
	return c, ok
}

// ChainName returns the display name, or "Chain N" for unknown ids.
func ChainName(chainID int) string {
	if c, ok := network(chainID); ok {
		return c.Name
	}
	return fmt.Sprintf("Chain %d", chainID)
}

// ExplorerTxURL links a transaction hash on the chain's explorer. Unknown
// chains use the Avalanche explorer.
func ExplorerTxURL(chainID int, hash string) string {
	c, ok := network(chainID)
	if !ok {
		c = configs[DefaultChainID]
	}
	return c.ExplorerTxPrefix() + hash
}

// TokenSymbol maps a token address back to its symbol on chainID. The native
// sentinel is AVAX on Avalanche and ETH elsewhere; unknown addresses are "Token".
func TokenSymbol(token string, chainID int) string {
	if token == "" || token == NativeSentinel {
		if chainID == Avalanche {
			return "AVAX"
		}
		return "ETH"
	}
	if c, ok := configs[chainID]; ok {
		for symbol, address := range c.Tokens {
			if symbol != "NATIVE" && strings.EqualFold(address, token) {
				return symbol
			}
		}
	}
	return "Token"
}

// IsAddress reports whether s has the 0x-prefixed 40-hex-digit shape.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// FindTxHash returns the first 32-byte hex hash embedded in text.
func FindTxHash(text string) (string, bool) {
	hash := txHashPattern.FindString(text)
	return hash, hash != ""
}
