package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/specgate/internal/config"
	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/provenance"
	"github.com/boshu2/specgate/internal/trust"
)

var (
	scoreTier    int
	scoreResults string
	scoreSpecID  string
	scoreRecord  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the trust score from provenance results",
	Long: `Compute the 0-100 composite trust score for a risk tier from a
provenance results file.

The score folds nine quality signals (coverage, mutation, contracts,
accessibility, performance, flake rate, mode compliance, scope,
supply chain) into one integer. The trust gate requires 82 or better.

Examples:
  sg score --tier 2 --results .agents/sg/results.json
  sg score --tier 3 --results results.json --record --spec-id SG-0042`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().IntVar(&scoreTier, "tier", 0, "Risk tier to score against (required)")
	scoreCmd.Flags().StringVar(&scoreResults, "results", "", "Provenance results JSON file")
	scoreCmd.Flags().StringVar(&scoreSpecID, "spec-id", "", "Working-spec ID for the audit record")
	scoreCmd.Flags().BoolVar(&scoreRecord, "record", false, "Append the score to the gate-run log")
	_ = scoreCmd.MarkFlagRequired("tier")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Output: GetOutput(), Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	resultsPath := cfg.Paths.ResultsFile
	if scoreResults != "" {
		resultsPath = scoreResults
	}
	results, err := trust.LoadResults(resultsPath)
	if err != nil {
		return err
	}

	registry := policy.NewRegistry()
	calculator := trust.NewCalculator(registry)

	score, err := calculator.Score(policy.RiskTier(scoreTier), *results)
	if err != nil {
		return fmt.Errorf("compute trust score: %w", err)
	}

	if scoreRecord {
		rec := provenance.GateRunRecord{
			SpecID:     scoreSpecID,
			Tier:       scoreTier,
			TrustScore: score,
			Passed:     score >= gate.TrustTarget,
		}
		if err := provenance.Append(cfg.BaseDir, rec); err != nil {
			return fmt.Errorf("record score: %w", err)
		}
		VerbosePrintf("recorded score to %s\n", provenance.LogPath)
	}

	w := cmd.OutOrStdout()
	if cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"tier":   scoreTier,
			"score":  score,
			"target": gate.TrustTarget,
		})
	}

	fmt.Fprintf(w, "Trust score: %d/100 (tier %d, target %d)\n", score, scoreTier, gate.TrustTarget)
	return nil
}
