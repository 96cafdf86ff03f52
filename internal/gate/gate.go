// Package gate enforces pass/fail quality gates against tier-derived
// thresholds. The enforcer is a pure decision function: a threshold miss
// is an ordinary failing result, not an error, and the enforcer never
// terminates the process. Exit-code mapping belongs to the calling shell.
package gate

import (
	"fmt"

	"github.com/boshu2/specgate/internal/policy"
)

// Kind identifies a quality gate.
type Kind string

const (
	// KindCoverage gates measured branch coverage against the tier floor.
	KindCoverage Kind = "coverage"

	// KindMutation gates the mutation score against the tier floor.
	KindMutation Kind = "mutation"

	// KindTrust gates the composite trust score against a fixed target.
	KindTrust Kind = "trust"

	// KindBudget gates files/LOC usage against the tier's change budget.
	KindBudget Kind = "budget"
)

// TrustTarget is the trust-score bar. It is a fixed target, independent
// of tier: every change must earn the same composite score.
const TrustTarget = 82

// UnknownGateError is returned when an unrecognized gate kind is requested.
type UnknownGateError struct {
	// Kind is the rejected gate kind.
	Kind string
}

func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("unknown gate kind %q: must be coverage, mutation, trust, or budget", e.Kind)
}

// BudgetUsage details a budget-gate evaluation.
type BudgetUsage struct {
	// FilesChanged and LocChanged are the measured usage.
	FilesChanged int `json:"files_changed"`
	LocChanged   int `json:"loc_changed"`

	// MaxFiles and MaxLoc are the tier ceilings compared against.
	MaxFiles int `json:"max_files"`
	MaxLoc   int `json:"max_loc"`
}

// Result is the verdict of a single gate evaluation.
type Result struct {
	// Kind is the gate that was evaluated.
	Kind Kind `json:"kind"`

	// Tier is the risk tier the gate was evaluated for.
	Tier policy.RiskTier `json:"tier"`

	// Passed is the binary verdict.
	Passed bool `json:"passed"`

	// Measured is the value that was compared. For the budget gate it is
	// the files-changed count; see Budget for the full usage.
	Measured float64 `json:"measured"`

	// Threshold is the bar Measured was compared against.
	Threshold float64 `json:"threshold"`

	// Message is a human-readable diagnostic.
	Message string `json:"message"`

	// Budget carries the full usage detail for budget-gate results.
	Budget *BudgetUsage `json:"budget,omitempty"`
}

// Enforcer evaluates gates against the injected policy registry. It holds
// no mutable state; evaluations on independent inputs may run concurrently.
type Enforcer struct {
	registry *policy.Registry
}

// NewEnforcer creates an enforcer backed by the given registry.
func NewEnforcer(registry *policy.Registry) *Enforcer {
	return &Enforcer{registry: registry}
}

// Check evaluates a scalar gate (coverage, mutation, or trust) for a tier.
// The budget gate takes a pair of counts, not a scalar; use CheckBudget.
// Fails with UnknownGateError for unrecognized kinds and InvalidTierError
// for unregistered tiers.
func (e *Enforcer) Check(kind Kind, tier policy.RiskTier, measured float64) (*Result, error) {
	p, err := e.registry.Policy(tier)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindCoverage:
		return verdict(kind, tier, measured, p.MinBranchCoverage,
			"branch coverage %.2f", measured), nil
	case KindMutation:
		return verdict(kind, tier, measured, p.MinMutationScore,
			"mutation score %.2f", measured), nil
	case KindTrust:
		return verdict(kind, tier, measured, TrustTarget,
			"trust score %.0f", measured), nil
	case KindBudget:
		return nil, fmt.Errorf("budget gate takes files and loc counts, not a scalar: use CheckBudget")
	default:
		return nil, &UnknownGateError{Kind: string(kind)}
	}
}

// CheckBudget evaluates the change-budget gate: pass iff both the
// files-changed and loc-changed counts are within the tier ceilings.
func (e *Enforcer) CheckBudget(tier policy.RiskTier, filesChanged, locChanged int) (*Result, error) {
	p, err := e.registry.Policy(tier)
	if err != nil {
		return nil, err
	}

	usage := &BudgetUsage{
		FilesChanged: filesChanged,
		LocChanged:   locChanged,
		MaxFiles:     p.MaxFiles,
		MaxLoc:       p.MaxLoc,
	}
	passed := filesChanged <= p.MaxFiles && locChanged <= p.MaxLoc

	result := &Result{
		Kind:      KindBudget,
		Tier:      tier,
		Passed:    passed,
		Measured:  float64(filesChanged),
		Threshold: float64(p.MaxFiles),
		Budget:    usage,
	}
	if passed {
		result.Message = fmt.Sprintf("budget gate passed: %d/%d files, %d/%d loc (tier %d)",
			filesChanged, p.MaxFiles, locChanged, p.MaxLoc, tier)
	} else {
		result.Message = fmt.Sprintf("budget gate failed: %d/%d files, %d/%d loc (tier %d)",
			filesChanged, p.MaxFiles, locChanged, p.MaxLoc, tier)
	}
	return result, nil
}

// CheckBudgetMode evaluates the budget gate and additionally enforces the
// tier's allowed-modes restriction. This is the policy-side counterpart of
// the mode check the structural validator deliberately leaves out: a doc
// or chore change declared at tier 1 or 2 is structurally valid but fails
// here.
func (e *Enforcer) CheckBudgetMode(tier policy.RiskTier, filesChanged, locChanged int, mode policy.Mode) (*Result, error) {
	result, err := e.CheckBudget(tier, filesChanged, locChanged)
	if err != nil {
		return nil, err
	}

	p, err := e.registry.Policy(tier)
	if err != nil {
		return nil, err
	}
	if !p.AllowsMode(mode) {
		result.Passed = false
		result.Message = fmt.Sprintf("budget gate failed: mode %q is not allowed at tier %d", mode, tier)
	}
	return result, nil
}

// verdict builds a scalar gate result with a uniform diagnostic shape.
func verdict(kind Kind, tier policy.RiskTier, measured, threshold float64, format string, args ...any) *Result {
	passed := measured >= threshold
	state := "passed"
	if !passed {
		state = "failed"
	}
	detail := fmt.Sprintf(format, args...)
	return &Result{
		Kind:      kind,
		Tier:      tier,
		Passed:    passed,
		Measured:  measured,
		Threshold: threshold,
		Message: fmt.Sprintf("%s gate %s: %s vs threshold %v (tier %d)",
			kind, state, detail, threshold, tier),
	}
}
