package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/specgate/internal/config"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/workingspec"
)

var validateCmd = &cobra.Command{
	Use:   "validate [spec-file]",
	Short: "Validate a working-spec document",
	Long: `Validate a working-spec YAML document against structural and
tier-consistency rules.

All violations are reported at once, not just the first. Returns exit
code 0 when the spec is valid, 1 otherwise.

Examples:
  sg validate .agents/specs/working-spec.yaml
  sg validate -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Output: GetOutput(), Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	specPath := cfg.Paths.SpecFile
	if len(args) == 1 {
		specPath = args[0]
	}
	VerbosePrintf("validating %s\n", specPath)

	spec, err := workingspec.Load(specPath)
	if err != nil {
		return err
	}

	validator := workingspec.NewValidator(policy.NewRegistry())
	summary, err := validator.Validate(spec)

	w := cmd.OutOrStdout()
	var structural *workingspec.StructuralValidationError
	if errors.As(err, &structural) {
		if cfg.Output == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(map[string]any{
				"valid":      false,
				"spec_id":    structural.SpecID,
				"violations": structural.Violations,
			}); encErr != nil {
				return encErr
			}
			return fmt.Errorf("spec invalid: %d violations", len(structural.Violations))
		}
		fmt.Fprintf(w, "SPEC INVALID: %d violations\n", len(structural.Violations))
		for i, violation := range structural.Violations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, violation)
		}
		return fmt.Errorf("spec invalid: %d violations", len(structural.Violations))
	}
	if err != nil {
		return err
	}

	if cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"valid": true, "summary": summary})
	}

	fmt.Fprintf(w, "SPEC VALID: %s (%s)\n", summary.ID, summary.Title)
	fmt.Fprintf(w, "  Tier: %d  Mode: %s\n", summary.RiskTier, summary.Mode)
	fmt.Fprintf(w, "  Budget: %d files / %d loc\n", summary.MaxFiles, summary.MaxLoc)
	fmt.Fprintf(w, "  Contracts: %d\n", summary.ContractCount)
	return nil
}
