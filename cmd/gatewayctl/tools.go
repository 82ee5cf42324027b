package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Adi-21/bhidi0xgasless/internal/mcp"
	"github.com/Adi-21/bhidi0xgasless/internal/registry"
)

func docsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Print Markdown docs for the registry tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			writeDocs(cmd.OutOrStdout(), gatewayName, reg)
			return nil
		},
	}
}

func writeDocs(w io.Writer, gateway string, reg *registry.Registry) {
	fmt.Fprintf(w, "# %s gateway tools (Generated)\n\n", gateway)
	fmt.Fprintln(w, "This file is generated from the tool registry by `gatewayctl docs`.")
	fmt.Fprintln(w)

	for _, d := range mcp.ToolDefinitions(reg.Tools()) {
		fmt.Fprintf(w, "- `%s`\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(w, "  - Description: %s\n", d.Description)
		}
		fmt.Fprintf(w, "  - Category: %s\n", d.Category)
		if len(d.Aliases) > 0 {
			fmt.Fprintf(w, "  - Aliases: %s\n", strings.Join(d.Aliases, ", "))
		}

		props, _ := d.InputSchema["properties"].(map[string]any)
		requiredSet := make(map[string]bool)
		if raw, ok := d.InputSchema["required"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					requiredSet[s] = true
				}
			}
		}

		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if len(keys) > 0 {
			fmt.Fprintln(w, "  - Input:")
			for _, k := range keys {
				req := "optional"
				if requiredSet[k] {
					req = "required"
				}
				fmt.Fprintf(w, "    - `%s` (%s)\n", k, req)
			}
		}
		fmt.Fprintln(w)
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List canonical tools and their aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range reg.Tools() {
				confirm := ""
				if t.RequiresConfirmation {
					confirm = color.YellowString(" (confirm)")
				}
				fmt.Fprintf(w, "%s %s%s\n", color.CyanString(t.Name), color.HiBlackString("["+t.Category+"]"), confirm)
				if len(t.Aliases) > 0 {
					fmt.Fprintf(w, "    aliases: %s\n", strings.Join(t.Aliases, ", "))
				}
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Show how requested tool names resolve",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range args {
				canonical, match := reg.ResolveMatch(name)
				if match == registry.MatchNone {
					fmt.Fprintf(w, "%s %s → %s", color.RedString("✗"), name, color.RedString("not found"))
					if s := reg.Suggest(name); len(s) > 0 {
						fmt.Fprintf(w, " (did you mean %s?)", strings.Join(s, ", "))
					}
					fmt.Fprintln(w)
					continue
				}
				fmt.Fprintf(w, "%s %s → %s %s\n", color.GreenString("✓"), name, canonical, color.HiBlackString("("+string(match)+")"))
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [tool] [json-args]",
		Short: "Check the registry schemas, or validate args against one tool",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(w, "%s %d tools, %d aliases, %d fuzzy rules\n",
					color.GreenString("✓"), len(reg.Tools()), len(reg.Aliases()), len(reg.FuzzyRules()))
				return nil
			}

			canonical := reg.Resolve(args[0])
			in := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &in); err != nil {
					return fmt.Errorf("args are not a JSON object: %w", err)
				}
			}
			if err := reg.Validate(canonical, in); err != nil {
				fmt.Fprintf(w, "%s %s: %v\n", color.RedString("✗"), canonical, err)
				return err
			}
			fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), canonical)
			return nil
		},
	}
}
