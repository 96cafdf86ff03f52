package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/boshu2/specgate/internal/config"
	"github.com/boshu2/specgate/internal/formatter"
	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/provenance"
	"github.com/boshu2/specgate/internal/trust"
	"github.com/boshu2/specgate/internal/workingspec"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate quality gates",
	Long: `Evaluate tier-derived quality gates.

Subcommands:
  check    Evaluate a single gate from explicit measurements
  run      Evaluate the full gate suite from a results file
  history  List recorded gate runs`,
}

var (
	gateCheckTier     int
	gateCheckMeasured float64
	gateCheckFiles    int
	gateCheckLoc      int
	gateCheckMode     string
)

var gateCheckCmd = &cobra.Command{
	Use:   "check <kind>",
	Short: "Evaluate a single gate",
	Long: `Evaluate one gate (coverage, mutation, trust, or budget) for a tier.

Scalar gates take --measured; the budget gate takes --files and --loc,
plus an optional --mode to enforce the tier's mode restriction.

Examples:
  sg gate check coverage --tier 1 --measured 0.93
  sg gate check trust --tier 2 --measured 85
  sg gate check budget --tier 3 --files 10 --loc 400 --mode doc`,
	Args: cobra.ExactArgs(1),
	RunE: runGateCheck,
}

var (
	gateRunTier    int
	gateRunResults string
	gateRunSpec    string
	gateRunFiles   int
	gateRunLoc     int
	gateRunRecord  bool
)

var gateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the full gate suite",
	Long: `Evaluate coverage, mutation, trust, and budget gates for a tier from
a provenance results file, print the verdicts, and exit non-zero if
any gate fails.

When a working spec is given its declared budget usage is taken from
--files/--loc; when a spec is given its ID and tier are used for the
audit record written by --record.

Examples:
  sg gate run --tier 2 --results .agents/sg/results.json --files 18 --loc 700
  sg gate run --spec .agents/specs/working-spec.yaml --results results.json --files 5 --loc 200 --record`,
	RunE: runGateRun,
}

var gateHistorySpec string

var gateHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded gate runs",
	Long: `List gate runs recorded in the append-only run log, newest last.
Filter to one working spec with --spec.`,
	RunE: runGateHistory,
}

func init() {
	gateCheckCmd.Flags().IntVar(&gateCheckTier, "tier", 0, "Risk tier to evaluate against (required)")
	gateCheckCmd.Flags().Float64Var(&gateCheckMeasured, "measured", 0, "Measured value for scalar gates")
	gateCheckCmd.Flags().IntVar(&gateCheckFiles, "files", 0, "Files changed, for the budget gate")
	gateCheckCmd.Flags().IntVar(&gateCheckLoc, "loc", 0, "Lines changed, for the budget gate")
	gateCheckCmd.Flags().StringVar(&gateCheckMode, "mode", "", "Execution mode, for the budget gate's mode restriction")
	_ = gateCheckCmd.MarkFlagRequired("tier")

	gateRunCmd.Flags().IntVar(&gateRunTier, "tier", 0, "Risk tier to evaluate against")
	gateRunCmd.Flags().StringVar(&gateRunResults, "results", "", "Provenance results JSON file")
	gateRunCmd.Flags().StringVar(&gateRunSpec, "spec", "", "Working-spec YAML file")
	gateRunCmd.Flags().IntVar(&gateRunFiles, "files", 0, "Files changed")
	gateRunCmd.Flags().IntVar(&gateRunLoc, "loc", 0, "Lines changed")
	gateRunCmd.Flags().BoolVar(&gateRunRecord, "record", false, "Append the run to the gate-run log")

	gateHistoryCmd.Flags().StringVar(&gateHistorySpec, "spec", "", "Filter runs to one working-spec ID")

	gateCmd.AddCommand(gateCheckCmd)
	gateCmd.AddCommand(gateRunCmd)
	gateCmd.AddCommand(gateHistoryCmd)
	rootCmd.AddCommand(gateCmd)
}

func runGateCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Output: GetOutput(), Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	enforcer := gate.NewEnforcer(policy.NewRegistry())
	kind := gate.Kind(args[0])
	tier := policy.RiskTier(gateCheckTier)

	var result *gate.Result
	if kind == gate.KindBudget {
		if gateCheckMode != "" {
			result, err = enforcer.CheckBudgetMode(tier, gateCheckFiles, gateCheckLoc, policy.Mode(gateCheckMode))
		} else {
			result, err = enforcer.CheckBudget(tier, gateCheckFiles, gateCheckLoc)
		}
	} else {
		result, err = enforcer.Check(kind, tier, gateCheckMeasured)
	}
	if err != nil {
		return err
	}

	if err := printGateResults(cmd.OutOrStdout(), cfg.Output, []gate.Result{*result}); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%s gate failed", result.Kind)
	}
	return nil
}

func runGateRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Output: GetOutput(), Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tier := gateRunTier
	specID := ""
	if gateRunSpec != "" {
		spec, err := workingspec.Load(gateRunSpec)
		if err != nil {
			return err
		}
		specID = spec.ID
		if tier == 0 {
			tier = spec.RiskTier
		}
	}
	if tier == 0 {
		return errors.New("a risk tier is required: pass --tier or --spec")
	}

	resultsPath := cfg.Paths.ResultsFile
	if gateRunResults != "" {
		resultsPath = gateRunResults
	}
	results, err := trust.LoadResults(resultsPath)
	if err != nil {
		return err
	}

	registry := policy.NewRegistry()
	enforcer := gate.NewEnforcer(registry)
	calculator := trust.NewCalculator(registry)
	riskTier := policy.RiskTier(tier)

	score, err := calculator.Score(riskTier, *results)
	if err != nil {
		return fmt.Errorf("compute trust score: %w", err)
	}

	verdicts := make([]gate.Result, 0, 4)
	for _, check := range []struct {
		kind     gate.Kind
		measured float64
	}{
		{gate.KindCoverage, results.CoverageBranch},
		{gate.KindMutation, results.MutationScore},
		{gate.KindTrust, float64(score)},
	} {
		r, err := enforcer.Check(check.kind, riskTier, check.measured)
		if err != nil {
			return err
		}
		verdicts = append(verdicts, *r)
	}
	budget, err := enforcer.CheckBudget(riskTier, gateRunFiles, gateRunLoc)
	if err != nil {
		return err
	}
	verdicts = append(verdicts, *budget)

	passed := true
	for _, v := range verdicts {
		if !v.Passed {
			passed = false
		}
	}

	if gateRunRecord {
		rec := provenance.GateRunRecord{
			SpecID:     specID,
			Tier:       tier,
			TrustScore: score,
			Passed:     passed,
			Gates:      verdicts,
		}
		if err := provenance.Append(cfg.BaseDir, rec); err != nil {
			return fmt.Errorf("record gate run: %w", err)
		}
		VerbosePrintf("recorded run to %s\n", provenance.LogPath)
	}

	w := cmd.OutOrStdout()
	if err := printGateResults(w, cfg.Output, verdicts); err != nil {
		return err
	}
	if !passed {
		return errors.New("gate suite failed")
	}
	if cfg.Output != "json" {
		fmt.Fprintln(w, "All gates passed.")
	}
	return nil
}

func runGateHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Output: GetOutput(), Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var records []provenance.GateRunRecord
	if gateHistorySpec != "" {
		records, err = provenance.FindBySpec(cfg.BaseDir, gateHistorySpec)
	} else {
		records, err = provenance.Load(cfg.BaseDir)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No recorded gate runs.")
		return nil
	}
	if err := formatter.RenderRunHistory(w, records); err != nil {
		return err
	}
	stats := provenance.GetStats(records)
	fmt.Fprintf(w, "\n%d runs, %d passed\n", stats.TotalRuns, stats.PassedRuns)
	return nil
}

func printGateResults(w io.Writer, output string, results []gate.Result) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return formatter.RenderGateResults(w, results)
}
