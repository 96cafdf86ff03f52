package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boshu2/specgate/internal/formatter"
	"github.com/boshu2/specgate/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy [tier]",
	Short: "Show per-tier quality thresholds",
	Long: `Show the quality policy for one risk tier, or the full table.

Examples:
  sg policy
  sg policy 1
  sg policy 2 -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	registry := policy.NewRegistry()
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		if GetOutput() == "json" {
			policies := make([]policy.TierPolicy, 0, 3)
			for _, tier := range registry.Tiers() {
				p, err := registry.Policy(tier)
				if err != nil {
					return err
				}
				policies = append(policies, p)
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(policies)
		}
		return formatter.RenderPolicyTable(w, registry)
	}

	tier, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("tier must be a number: %w", err)
	}
	p, err := registry.Policy(policy.RiskTier(tier))
	if err != nil {
		return err
	}

	if GetOutput() == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Fprintf(w, "Tier %d policy:\n", p.Tier)
	fmt.Fprintf(w, "  Min branch coverage: %.2f\n", p.MinBranchCoverage)
	fmt.Fprintf(w, "  Min mutation score:  %.2f\n", p.MinMutationScore)
	fmt.Fprintf(w, "  Requires contracts:  %v\n", p.RequiresContracts)
	fmt.Fprintf(w, "  Requires review:     %v\n", p.RequiresManualReview)
	fmt.Fprintf(w, "  Max files:           %d\n", p.MaxFiles)
	fmt.Fprintf(w, "  Max LOC:             %d\n", p.MaxLoc)
	fmt.Fprintf(w, "  Allowed modes:       %v\n", p.AllowedModes)
	return nil
}
