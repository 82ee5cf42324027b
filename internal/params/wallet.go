package params

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

const (
	DefaultSlippage = "0.5"
	maxSlippage     = 50

	minQueryLength = 10
	maxQueryLength = 2000
)

// WalletOptions carries the request-scoped defaults that come from headers.
type WalletOptions struct {
	ChainID         int
	DefaultSlippage string
}

// NormalizeWallet dispatches to the normalizer for a canonical wallet tool.
func NormalizeWallet(tool string, args map[string]any, opts WalletOptions) (map[string]any, error) {
	if opts.ChainID == 0 {
		opts.ChainID = chains.DefaultChainID
	}
	args = StripMetadata(args)
	switch tool {
	case "getWalletAddress":
		return map[string]any{}, nil
	case "getWalletBalance":
		return Balance(args, opts.ChainID)
	case "transferTokens":
		return Transfer(args, opts.ChainID)
	case "swapTokens":
		return Swap(args, opts.ChainID, opts.DefaultSlippage)
	case "bridgeTokens":
		return Bridge(args)
	case "queryBlockchainData":
		return Query(args)
	default:
		return nil, core.ToolNotFound(tool)
	}
}

type transferArgs struct {
	To           string `json:"to"`
	TokenAddress any    `json:"tokenAddress"`
	Token        any    `json:"token"`
	Amount       any    `json:"amount"`
}

// Transfer maps {to, tokenAddress, amount} to {destination, tokenAddress, amount}.
func Transfer(args map[string]any, chainID int) (map[string]any, error) {
	var in transferArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	to, err := required("to", in.To, "Recipient address (to) is required")
	if err != nil {
		return nil, err
	}
	if !chains.IsAddress(to) {
		return nil, core.InvalidParameter("to", "must be a 0x-prefixed 40 hex character address")
	}
	amount, err := Amount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	tokenInput := in.TokenAddress
	if stringOf(tokenInput) == "" {
		tokenInput = in.Token
	}
	token, err := chains.ResolveToken(tokenInput, chainID)
	if err != nil {
		return nil, onField(err, "tokenAddress")
	}
	return map[string]any{
		"destination":  to,
		"tokenAddress": token,
		"amount":       amount,
	}, nil
}

type swapArgs struct {
	FromToken any `json:"fromToken"`
	ToToken   any `json:"toToken"`
	Amount    any `json:"amount"`
	Slippage  any `json:"slippage"`
}

// Swap maps {fromToken, toToken, amount, slippage} to {tokenIn, tokenOut, amount, slippage}.
func Swap(args map[string]any, chainID int, defaultSlippage string) (map[string]any, error) {
	var in swapArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if stringOf(in.FromToken) == "" {
		_, err := required("fromToken", "", "Source token (fromToken) is required")
		return nil, err
	}
	if stringOf(in.ToToken) == "" {
		_, err := required("toToken", "", "Destination token (toToken) is required")
		return nil, err
	}
	tokenIn, err := chains.ResolveToken(in.FromToken, chainID)
	if err != nil {
		return nil, onField(err, "fromToken")
	}
	tokenOut, err := chains.ResolveToken(in.ToToken, chainID)
	if err != nil {
		return nil, onField(err, "toToken")
	}
	if tokenIn == tokenOut {
		return nil, core.InvalidParameter("toToken", "must differ from fromToken")
	}
	amount, err := Amount("amount", in.Amount)
	if err != nil {
		return nil, err
	}

	slippageInput := in.Slippage
	if stringOf(slippageInput) == "" {
		slippageInput = defaultSlippage
	}
	if stringOf(slippageInput) == "" {
		slippageInput = DefaultSlippage
	}
	slippage, err := Slippage(slippageInput)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"tokenIn":  tokenIn,
		"tokenOut": tokenOut,
		"amount":   amount,
		"slippage": slippage,
	}, nil
}

// Slippage validates a percentage in (0, 50].
func Slippage(v any) (string, error) {
	s, err := Amount("slippage", v)
	if err != nil {
		return "", err
	}
	f, _ := strconv.ParseFloat(s, 64)
	if f > maxSlippage {
		return "", core.InvalidParameter("slippage", fmt.Sprintf("must not exceed %d percent", maxSlippage))
	}
	return s, nil
}

type balanceArgs struct {
	TokenAddress any `json:"tokenAddress"`
	Token        any `json:"token"`
}

// Balance returns {} for the native balance or {tokenAddress} for a token.
func Balance(args map[string]any, chainID int) (map[string]any, error) {
	var in balanceArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	input := in.TokenAddress
	if stringOf(input) == "" {
		input = in.Token
	}
	if stringOf(input) == "" {
		return map[string]any{}, nil
	}
	token, err := chains.ResolveToken(input, chainID)
	if err != nil {
		return nil, onField(err, "tokenAddress")
	}
	if token == chains.NativeSentinel || token == chains.NativeAddress {
		return map[string]any{}, nil
	}
	return map[string]any{"tokenAddress": token}, nil
}

type bridgeArgs struct {
	FromChainID      any    `json:"fromChainId"`
	ToChainID        any    `json:"toChainId"`
	TokenInAddress   any    `json:"tokenInAddress"`
	TokenOutAddress  any    `json:"tokenOutAddress"`
	Amount           any    `json:"amount"`
	RecipientAddress string `json:"recipientAddress"`
}

// Bridge validates a cross-chain transfer. Tokens resolve against their own
// chain; chains without a token table pass symbols through unchanged.
func Bridge(args map[string]any) (map[string]any, error) {
	var in bridgeArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	fromChainID, err := bridgeChain("fromChainId", in.FromChainID)
	if err != nil {
		return nil, err
	}
	toChainID, err := bridgeChain("toChainId", in.ToChainID)
	if err != nil {
		return nil, err
	}
	if fromChainID == toChainID {
		return nil, core.InvalidParameter("toChainId", "must differ from fromChainId")
	}

	if stringOf(in.TokenInAddress) == "" {
		return nil, core.MissingParameter("tokenInAddress")
	}
	if stringOf(in.TokenOutAddress) == "" {
		return nil, core.MissingParameter("tokenOutAddress")
	}
	tokenIn, err := resolveOnChain("tokenInAddress", in.TokenInAddress, fromChainID)
	if err != nil {
		return nil, err
	}
	tokenOut, err := resolveOnChain("tokenOutAddress", in.TokenOutAddress, toChainID)
	if err != nil {
		return nil, err
	}
	amount, err := Amount("amount", in.Amount)
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"fromChainId":     fromChainID,
		"toChainId":       toChainID,
		"tokenInAddress":  tokenIn,
		"tokenOutAddress": tokenOut,
		"amount":          amount,
	}
	if r := strings.TrimSpace(in.RecipientAddress); r != "" {
		if !chains.IsAddress(r) {
			return nil, core.InvalidParameter("recipientAddress", "must be a 0x-prefixed 40 hex character address")
		}
		out["recipientAddress"] = r
	}
	return out, nil
}

func bridgeChain(field string, v any) (int, error) {
	id, err := ChainID(field, v)
	if err != nil {
		return 0, err
	}
	if !chains.IsBridgeChain(id) {
		return 0, core.InvalidParameter(field, fmt.Sprintf("must be one of %v", chains.BridgeChainIDs()))
	}
	return id, nil
}

func resolveOnChain(field string, input any, chainID int) (string, error) {
	token, err := chains.ResolveToken(input, chainID)
	if err == nil {
		return token, nil
	}
	if !core.HasCode(err, core.CodeUnsupportedChain) {
		return "", onField(err, field)
	}
	s := stringOf(input)
	if strings.HasPrefix(strings.ToLower(s), "0x") && !chains.IsAddress(s) {
		return "", onField(core.InvalidFormat("Invalid token address format: %s", s), field)
	}
	return s, nil
}

type queryArgs struct {
	Query string `json:"query"`
}

// Query maps {query} to {sqlText}.
func Query(args map[string]any) (map[string]any, error) {
	var in queryArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	q, err := required("query", in.Query, "SQL query is required")
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(q); n < minQueryLength || n > maxQueryLength {
		return nil, core.InvalidParameter("query",
			fmt.Sprintf("must be between %d and %d characters", minQueryLength, maxQueryLength))
	}
	return map[string]any{"sqlText": q}, nil
}
