package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Adi-21/bhidi0xgasless/internal/chains"
	"github.com/Adi-21/bhidi0xgasless/internal/db"
)

func tokenCmd() *cobra.Command {
	var chainID int
	cmd := &cobra.Command{
		Use:   "token <symbol-or-address>",
		Short: "Resolve a token symbol to its address on a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := chains.ResolveToken(args[0], chainID)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.RedString("✗"), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s → %s\n",
				color.GreenString("✓"), args[0], chains.ChainName(chainID), address)
			return nil
		},
	}
	cmd.Flags().IntVar(&chainID, "chain", chains.DefaultChainID, "chain id")
	return cmd
}

func auditCmd() *cobra.Command {
	var (
		limit int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit events from AUDIT_DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := os.Getenv("AUDIT_DATABASE_URL")
			if url == "" {
				return fmt.Errorf("AUDIT_DATABASE_URL is not set")
			}
			database, err := db.New(url)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			gw := gatewayName
			if all {
				gw = ""
			}
			events, err := database.ListAuditEvents(ctx, gw, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range events {
				status := color.GreenString("✓")
				if e.Status != "ok" {
					status = color.RedString("✗")
				}
				fmt.Fprintf(w, "%s %s %-8s %-24s %-10s %5dms %s\n",
					status, color.HiBlackString(e.CreatedAt.Format(time.RFC3339)),
					e.Gateway, e.ToolName, e.Source, e.DurationMS, e.ErrorCode)
			}
			if len(events) == 0 {
				fmt.Fprintln(w, "no audit events")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum events to list")
	cmd.Flags().BoolVar(&all, "all", false, "list events of every gateway")
	return cmd
}
