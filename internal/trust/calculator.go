package trust

import (
	"fmt"
	"math"

	"github.com/boshu2/specgate/internal/policy"
)

// Signal weights. The sum is 0.96, not 1.0, and is deliberately NOT
// renormalized: the weighted sum is divided by the actual weight total, so
// the score stays in [0,100] under any weight-table edit. Renormalizing
// the table itself would shift every historical score.
const (
	weightCoverage       = 0.20
	weightMutation       = 0.20
	weightContracts      = 0.16
	weightAccessibility  = 0.08
	weightPerformance    = 0.08
	weightFlake          = 0.08
	weightModeCompliance = 0.06
	weightScope          = 0.06
	weightSupplyChain    = 0.04
)

// Normalization ceilings: full credit at or above these, independent of tier.
const (
	coverageCeiling = 0.95
	mutationCeiling = 0.90
)

// flakeRateBudget is the flake rate at or below which a change earns full
// flake credit. Above it the signal drops to partial credit, not zero:
// flakiness is penalized but not catastrophically.
const flakeRateBudget = 0.005

// partialCredit is the score for soft signals (flake, mode compliance)
// that missed their target.
const partialCredit = 0.5

// Calculator maps a provenance result to a trust score. It reads
// tier-relative normalization floors from the injected registry and holds
// no other state; Score is pure and safe for concurrent use.
type Calculator struct {
	registry *policy.Registry
}

// NewCalculator creates a calculator backed by the given registry.
func NewCalculator(registry *policy.Registry) *Calculator {
	return &Calculator{registry: registry}
}

// Score computes the composite trust score for a tier, an integer in
// [0,100]. Identical inputs always produce identical output. Fails with
// InvalidTierError when the tier is not registered.
func (c *Calculator) Score(tier policy.RiskTier, result ProvenanceResult) (int, error) {
	p, err := c.registry.Policy(tier)
	if err != nil {
		return 0, err
	}

	coverage, err := normalize(result.CoverageBranch, p.MinBranchCoverage, coverageCeiling)
	if err != nil {
		return 0, fmt.Errorf("coverage signal: %w", err)
	}
	mutation, err := normalize(result.MutationScore, p.MinMutationScore, mutationCeiling)
	if err != nil {
		return 0, fmt.Errorf("mutation signal: %w", err)
	}

	weighted := coverage*weightCoverage +
		mutation*weightMutation +
		contractsSignal(p, result)*weightContracts +
		accessibilitySignal(result)*weightAccessibility +
		performanceSignal(result)*weightPerformance +
		flakeSignal(result)*weightFlake +
		modeComplianceSignal(result)*weightModeCompliance +
		scopeSignal(result)*weightScope +
		supplyChainSignal(result)*weightSupplyChain

	total := weightCoverage + weightMutation + weightContracts +
		weightAccessibility + weightPerformance + weightFlake +
		weightModeCompliance + weightScope + weightSupplyChain

	return int(math.Round(weighted / total * 100)), nil
}

// normalize linearly maps value onto [0,1]: 0 at or below min, 1 at or
// above max. The source left max <= min undefined; here it fails fast.
func normalize(value, min, max float64) (float64, error) {
	if max <= min {
		return 0, fmt.Errorf("normalize: max %v must exceed min %v", max, min)
	}
	switch {
	case value >= max:
		return 1, nil
	case value <= min:
		return 0, nil
	default:
		return (value - min) / (max - min), nil
	}
}

// contractsSignal is 1 when the tier does not require contracts, or when
// both sides of the contract tests passed. Otherwise 0.
func contractsSignal(p policy.TierPolicy, r ProvenanceResult) float64 {
	if !p.RequiresContracts {
		return 1
	}
	if r.Contracts.Consumer && r.Contracts.Provider {
		return 1
	}
	return 0
}

func accessibilitySignal(r ProvenanceResult) float64 {
	if r.A11y == "pass" {
		return 1
	}
	return 0
}

// performanceSignal checks that a positive p95 sample exists at all; it is
// a budget-presence check, not a latency-threshold check.
func performanceSignal(r ProvenanceResult) float64 {
	if r.Perf != nil && r.Perf.P95 > 0 {
		return 1
	}
	return 0
}

func flakeSignal(r ProvenanceResult) float64 {
	if r.FlakeRate <= flakeRateBudget {
		return 1
	}
	return partialCredit
}

func modeComplianceSignal(r ProvenanceResult) float64 {
	if r.ModeCompliance == "full" {
		return 1
	}
	return partialCredit
}

func scopeSignal(r ProvenanceResult) float64 {
	if r.ScopeWithinBudget {
		return 1
	}
	return 0
}

func supplyChainSignal(r ProvenanceResult) float64 {
	if r.SBOMValid && r.AttestationValid {
		return 1
	}
	return 0
}
