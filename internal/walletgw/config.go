package walletgw

import (
	"net/http"
	"strconv"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/params"
	"github.com/Adi-21/bhidi0xgasless/internal/wallet"
)

// Config is the per-request wallet configuration read from headers. It
// lives for one request and is never persisted.
type Config struct {
	APIKey          string
	PrivateKey      string
	RPCURL          string
	GaslessAPIKey   string
	ChainID         int
	SXTAPIKey       string
	DefaultSlippage string
}

// ConfigFromHeaders reads the wallet headers. The gasless key falls back to
// the platform API key, the RPC URL to the chain's public endpoint and the
// chain to defaultChainID.
func ConfigFromHeaders(h http.Header, defaultChainID int) Config {
	if defaultChainID == 0 {
		defaultChainID = chains.DefaultChainID
	}
	cfg := Config{
		APIKey:          core.APIKey(h),
		PrivateKey:      core.HeaderValue(h, "x-private-key"),
		RPCURL:          core.HeaderValue(h, "x-rpc-url"),
		GaslessAPIKey:   core.HeaderValue(h, "x-gasless-api-key"),
		ChainID:         defaultChainID,
		SXTAPIKey:       core.HeaderValue(h, "x-sxt-api-key"),
		DefaultSlippage: core.HeaderValue(h, "x-default-slippage"),
	}
	if cfg.GaslessAPIKey == "" {
		cfg.GaslessAPIKey = cfg.APIKey
	}
	if raw := core.HeaderValue(h, "x-chain-id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			cfg.ChainID = id
		}
	}
	if cfg.RPCURL == "" {
		c, ok := chains.Lookup(cfg.ChainID)
		if !ok {
			c, _ = chains.Lookup(chains.DefaultChainID)
		}
		cfg.RPCURL = c.RPCURL
	}
	if cfg.DefaultSlippage == "" {
		cfg.DefaultSlippage = params.DefaultSlippage
	}
	return cfg
}

// Credentials is the subset that configures a wallet client.
func (c Config) Credentials() wallet.Credentials {
	return wallet.Credentials{
		PrivateKey:    c.PrivateKey,
		RPCURL:        c.RPCURL,
		GaslessAPIKey: c.GaslessAPIKey,
		ChainID:       c.ChainID,
	}
}

// LogAttrs reports which secrets are present without their values.
func (c Config) LogAttrs() []any {
	return []any{
		"api_key_present", c.APIKey != "",
		"private_key_present", c.PrivateKey != "",
		"gasless_api_key_present", c.GaslessAPIKey != "",
		"sxt_api_key_present", c.SXTAPIKey != "",
		"chain_id", c.ChainID,
	}
}
