package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/Adi-21/bhidi0xgasless/internal/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	gatewayName, registryFile = "wallet", ""

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWriteDocs(t *testing.T) {
	reg := registry.MustLoad("expense")
	var buf bytes.Buffer
	writeDocs(&buf, "expense", reg)
	out := buf.String()

	for _, want := range []string{
		"# expense gateway tools (Generated)",
		"- `getSplitwiseBalance`",
		"- `createSplitwiseExpense`",
		"  - Category: write",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("docs missing %q:\n%s", want, out)
		}
	}
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", "sendMoney", "fetchWeather")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "✓ sendMoney → transferTokens") {
		t.Fatalf("want alias resolution, got %q", out)
	}
	if !strings.Contains(out, "✗ fetchWeather → not found") {
		t.Fatalf("want unknown tool reported, got %q", out)
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "token", "native")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if !strings.Contains(out, "→ eth") {
		t.Fatalf("want native sentinel, got %q", out)
	}

	if _, err := run(t, "token", "usdc", "--chain", "999999"); err == nil {
		t.Fatal("want error for unsupported chain")
	}
}

func TestUnknownGateway(t *testing.T) {
	if _, err := run(t, "tools", "--gateway", "weather"); err == nil {
		t.Fatal("want error for unknown gateway")
	}
}

func TestAuditRequiresDatabaseURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")
	if _, err := run(t, "audit"); err == nil {
		t.Fatal("want error without AUDIT_DATABASE_URL")
	}
}
