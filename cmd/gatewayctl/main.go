package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adi-21/bhidi0xgasless/internal/registry"
)

var (
	gatewayName  string
	registryFile string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gatewayctl",
		Short:        "Inspect the wallet and expense tool gateways",
		SilenceUsage: true,
		Long: `Offline tooling for the tool gateways.

Examples:
  gatewayctl tools --gateway expense
  gatewayctl resolve sendMoney
  gatewayctl token usdt --chain 56
  gatewayctl docs --gateway wallet > docs/wallet-tools.md
  gatewayctl validate transferTokens '{"destination":"0x...","amount":"1"}'
  gatewayctl audit --limit 20`,
	}
	cmd.PersistentFlags().StringVarP(&gatewayName, "gateway", "g", "wallet", "gateway registry: wallet or expense")
	cmd.PersistentFlags().StringVar(&registryFile, "registry", "", "registry YAML file instead of the embedded one")

	cmd.AddCommand(
		docsCmd(),
		toolsCmd(),
		resolveCmd(),
		validateCmd(),
		tokenCmd(),
		auditCmd(),
	)
	return cmd
}

func loadRegistry() (*registry.Registry, error) {
	if registryFile != "" {
		return registry.LoadFile(registryFile)
	}
	if gatewayName != "wallet" && gatewayName != "expense" {
		return nil, fmt.Errorf("unknown gateway %q (valid: wallet, expense)", gatewayName)
	}
	return registry.Load(gatewayName)
}
