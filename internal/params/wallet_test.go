package params

import (
	"strings"
	"testing"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

var recipient = "0x" + strings.Repeat("a", 40)

func wantCode(t *testing.T, err error, code, field string) {
	t.Helper()
	e, ok := core.AsError(err)
	if !ok {
		t.Fatalf("want %s error, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("want code %q, got %q (%v)", code, e.Code, err)
	}
	if field != "" && e.Field != field {
		t.Fatalf("want field %q, got %q", field, e.Field)
	}
}

func TestTransferRenamesRecipientAndResolvesToken(t *testing.T) {
	out, err := Transfer(map[string]any{
		"to":           recipient,
		"amount":       "1",
		"tokenAddress": "USDT",
	}, chains.Avalanche)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if out["destination"] != recipient {
		t.Fatalf("want destination %q, got %v", recipient, out["destination"])
	}
	if out["amount"] != "1" {
		t.Fatalf("want amount %q, got %v", "1", out["amount"])
	}
	if out["tokenAddress"] != "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7" {
		t.Fatalf("unexpected token %v", out["tokenAddress"])
	}
	if _, ok := out["to"]; ok {
		t.Fatal("to must be renamed, not copied")
	}
}

func TestTransferDefaultsToNativeToken(t *testing.T) {
	out, err := Transfer(map[string]any{"to": recipient, "amount": 2.5}, chains.Avalanche)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if out["tokenAddress"] != chains.NativeSentinel || out["amount"] != "2.5" {
		t.Fatalf("unexpected payload %v", out)
	}
}

func TestTransferRejections(t *testing.T) {
	tests := []struct {
		name  string
		args  map[string]any
		code  string
		field string
	}{
		{name: "bad recipient", args: map[string]any{"to": "not-an-address", "amount": "1"}, code: core.CodeInvalidParameter, field: "to"},
		{name: "negative amount", args: map[string]any{"to": recipient, "amount": "-5"}, code: core.CodeInvalidParameter, field: "amount"},
		{name: "zero amount", args: map[string]any{"to": recipient, "amount": 0}, code: core.CodeInvalidParameter, field: "amount"},
		{name: "word amount", args: map[string]any{"to": recipient, "amount": "ten"}, code: core.CodeInvalidParameter, field: "amount"},
		{name: "missing recipient", args: map[string]any{"amount": "1"}, code: core.CodeMissingParameter, field: "to"},
		{name: "missing amount", args: map[string]any{"to": recipient}, code: core.CodeMissingParameter, field: "amount"},
		{name: "short token address", args: map[string]any{"to": recipient, "amount": "1", "tokenAddress": "0xdead"}, code: core.CodeInvalidFormat, field: "tokenAddress"},
		{name: "numeric token", args: map[string]any{"to": recipient, "amount": "1", "tokenAddress": 7}, code: core.CodeInvalidFormat, field: "tokenAddress"},
		{name: "object recipient", args: map[string]any{"to": map[string]any{"x": 1}, "amount": "1"}, code: core.CodeInvalidParameter, field: "to"},
		{name: "hex float amount", args: map[string]any{"to": recipient, "amount": "0x1p4"}, code: core.CodeInvalidParameter, field: "amount"},
		{name: "infinite amount", args: map[string]any{"to": recipient, "amount": "Inf"}, code: core.CodeInvalidParameter, field: "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transfer(tt.args, chains.Avalanche)
			wantCode(t, err, tt.code, tt.field)
		})
	}
}

func TestTransferFallsBackToTokenWhenAddressEmpty(t *testing.T) {
	out, err := Transfer(map[string]any{"to": recipient, "amount": "1", "tokenAddress": "", "token": "USDT"}, chains.Avalanche)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if out["tokenAddress"] != "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7" {
		t.Fatalf("want USDT address, got %v", out["tokenAddress"])
	}
}

func TestNormalizeWalletNamesMistypedField(t *testing.T) {
	_, err := NormalizeWallet("transferTokens", map[string]any{"to": map[string]any{"x": 1}, "amount": "1"}, WalletOptions{})
	wantCode(t, err, core.CodeInvalidParameter, "to")
}

func TestAmountCanonicalForm(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: "1", want: "1"},
		{in: " 100.50 ", want: "100.5"},
		{in: 1.0, want: "1"},
		{in: 42, want: "42"},
		{in: "0.000001", want: "0.000001"},
		{in: "1e3", want: "1000"},
	}
	for _, tt := range tests {
		got, err := Amount("amount", tt.in)
		if err != nil {
			t.Fatalf("Amount(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Amount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"NaN", "0x1p4", "0X10", "1_000", "Infinity"} {
		if _, err := Amount("amount", in); !core.HasCode(err, core.CodeInvalidParameter) {
			t.Fatalf("%q must be rejected, got %v", in, err)
		}
	}
}

func TestSwapRenamesAndDefaultsSlippage(t *testing.T) {
	out, err := Swap(map[string]any{"fromToken": "USDC", "toToken": "avax", "amount": "10"}, chains.Avalanche, "")
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out["tokenIn"] != "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E" || out["tokenOut"] != chains.NativeSentinel {
		t.Fatalf("unexpected tokens %v", out)
	}
	if out["slippage"] != DefaultSlippage {
		t.Fatalf("want slippage %q, got %v", DefaultSlippage, out["slippage"])
	}

	out, err = Swap(map[string]any{"fromToken": "USDC", "toToken": "USDT", "amount": "10"}, chains.Avalanche, "1")
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out["slippage"] != "1" {
		t.Fatalf("want header slippage %q, got %v", "1", out["slippage"])
	}

	out, err = Swap(map[string]any{"fromToken": "USDC", "toToken": "USDT", "amount": "10", "slippage": 2}, chains.Avalanche, "1")
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out["slippage"] != "2" {
		t.Fatalf("want body slippage %q, got %v", "2", out["slippage"])
	}
}

func TestSwapRejections(t *testing.T) {
	tests := []struct {
		name  string
		args  map[string]any
		code  string
		field string
	}{
		{name: "missing from", args: map[string]any{"toToken": "USDT", "amount": "1"}, code: core.CodeMissingParameter, field: "fromToken"},
		{name: "missing to", args: map[string]any{"fromToken": "USDT", "amount": "1"}, code: core.CodeMissingParameter, field: "toToken"},
		{name: "same token", args: map[string]any{"fromToken": "usdt", "toToken": "USDT", "amount": "1"}, code: core.CodeInvalidParameter, field: "toToken"},
		{name: "slippage too high", args: map[string]any{"fromToken": "USDC", "toToken": "USDT", "amount": "1", "slippage": "80"}, code: core.CodeInvalidParameter, field: "slippage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Swap(tt.args, chains.Avalanche, "")
			wantCode(t, err, tt.code, tt.field)
		})
	}
}

func TestSwapMissingMessagesNameTheField(t *testing.T) {
	_, err := Swap(map[string]any{"toToken": "USDT", "amount": "1"}, chains.Avalanche, "")
	if err == nil || err.Error() != "Source token (fromToken) is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want map[string]any
	}{
		{name: "no token", args: map[string]any{}, want: map[string]any{}},
		{name: "native symbol", args: map[string]any{"tokenAddress": "AVAX"}, want: map[string]any{}},
		{name: "native address", args: map[string]any{"tokenAddress": chains.NativeAddress}, want: map[string]any{}},
		{name: "symbol", args: map[string]any{"token": "wavax"}, want: map[string]any{"tokenAddress": "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Balance(tt.args, chains.Avalanche)
			if err != nil {
				t.Fatalf("Balance: %v", err)
			}
			if len(got) != len(tt.want) || got["tokenAddress"] != tt.want["tokenAddress"] {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBridge(t *testing.T) {
	out, err := Bridge(map[string]any{
		"fromChainId":     43114,
		"toChainId":       "56",
		"tokenInAddress":  "USDT",
		"tokenOutAddress": "usdt",
		"amount":          "5",
	})
	if err != nil {
		t.Fatalf("Bridge: %v", err)
	}
	if out["tokenInAddress"] != "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7" {
		t.Fatalf("tokenIn must resolve on the source chain, got %v", out["tokenInAddress"])
	}
	if out["tokenOutAddress"] != "0x55d398326f99059fF775485246999027B3197955" {
		t.Fatalf("tokenOut must resolve on the destination chain, got %v", out["tokenOutAddress"])
	}
	if out["toChainId"] != 56 {
		t.Fatalf("want toChainId 56, got %v", out["toChainId"])
	}

	out, err = Bridge(map[string]any{
		"fromChainId":     43114,
		"toChainId":       8453,
		"tokenInAddress":  "USDC",
		"tokenOutAddress": "USDC",
		"amount":          1,
	})
	if err != nil {
		t.Fatalf("Bridge to explorer-only chain: %v", err)
	}
	if out["tokenOutAddress"] != "USDC" {
		t.Fatalf("want pass-through on chain without token table, got %v", out["tokenOutAddress"])
	}

	out, err = Bridge(map[string]any{
		"fromChainId":     43114.0,
		"toChainId":       " 56 ",
		"tokenInAddress":  "USDT",
		"tokenOutAddress": "USDT",
		"amount":          "1",
	})
	if err != nil {
		t.Fatalf("Bridge with float and padded chain ids: %v", err)
	}
	if out["fromChainId"] != 43114 || out["toChainId"] != 56 {
		t.Fatalf("want integer chain ids, got %v and %v", out["fromChainId"], out["toChainId"])
	}
}

func TestBridgeRejections(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"fromChainId":     43114,
			"toChainId":       56,
			"tokenInAddress":  "USDT",
			"tokenOutAddress": "USDT",
			"amount":          "1",
		}
	}
	tests := []struct {
		name   string
		mutate func(map[string]any)
		code   string
		field  string
	}{
		{name: "unknown chain", mutate: func(m map[string]any) { m["toChainId"] = 10 }, code: core.CodeInvalidParameter, field: "toChainId"},
		{name: "same chain", mutate: func(m map[string]any) { m["toChainId"] = 43114 }, code: core.CodeInvalidParameter, field: "toChainId"},
		{name: "missing from", mutate: func(m map[string]any) { delete(m, "fromChainId") }, code: core.CodeMissingParameter, field: "fromChainId"},
		{name: "missing token out", mutate: func(m map[string]any) { delete(m, "tokenOutAddress") }, code: core.CodeMissingParameter, field: "tokenOutAddress"},
		{name: "bad address on explorer-only chain", mutate: func(m map[string]any) { m["toChainId"] = 1; m["tokenOutAddress"] = "0x12" }, code: core.CodeInvalidFormat, field: "tokenOutAddress"},
		{name: "bad recipient", mutate: func(m map[string]any) { m["recipientAddress"] = "bob" }, code: core.CodeInvalidParameter, field: "recipientAddress"},
		{name: "negative amount", mutate: func(m map[string]any) { m["amount"] = -1 }, code: core.CodeInvalidParameter, field: "amount"},
		{name: "chain name", mutate: func(m map[string]any) { m["fromChainId"] = "avalanche" }, code: core.CodeInvalidParameter, field: "fromChainId"},
		{name: "fractional chain", mutate: func(m map[string]any) { m["fromChainId"] = 43114.9 }, code: core.CodeInvalidParameter, field: "fromChainId"},
		{name: "boolean chain", mutate: func(m map[string]any) { m["toChainId"] = true }, code: core.CodeInvalidParameter, field: "toChainId"},
		{name: "empty chain", mutate: func(m map[string]any) { m["toChainId"] = "" }, code: core.CodeMissingParameter, field: "toChainId"},
		{name: "object recipient", mutate: func(m map[string]any) { m["recipientAddress"] = []any{"0x1"} }, code: core.CodeInvalidParameter, field: "recipientAddress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := base()
			tt.mutate(args)
			_, err := Bridge(args)
			wantCode(t, err, tt.code, tt.field)
		})
	}
}

func TestQuery(t *testing.T) {
	out, err := Query(map[string]any{"query": "  SELECT * FROM blocks LIMIT 5 "})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out["sqlText"] != "SELECT * FROM blocks LIMIT 5" {
		t.Fatalf("unexpected sqlText %q", out["sqlText"])
	}

	_, err = Query(map[string]any{})
	wantCode(t, err, core.CodeMissingParameter, "query")
	if err.Error() != "SQL query is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	_, err = Query(map[string]any{"query": "SELECT 1"})
	wantCode(t, err, core.CodeInvalidParameter, "query")
	_, err = Query(map[string]any{"query": strings.Repeat("x", maxQueryLength+1)})
	wantCode(t, err, core.CodeInvalidParameter, "query")
}

func TestNormalizeWalletStripsMetadata(t *testing.T) {
	out, err := NormalizeWallet("getWalletAddress", map[string]any{"toolName": "x", "userId": "u"}, WalletOptions{})
	if err != nil {
		t.Fatalf("NormalizeWallet: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty payload, got %v", out)
	}

	stripped := StripMetadata(map[string]any{"executionId": "e", "chatId": "c", "amount": "1"})
	if len(stripped) != 1 || stripped["amount"] != "1" {
		t.Fatalf("unexpected stripped args %v", stripped)
	}

	_, err = NormalizeWallet("mintNFT", nil, WalletOptions{})
	wantCode(t, err, core.CodeToolNotFound, "")
}
