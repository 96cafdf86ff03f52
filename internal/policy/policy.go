// Package policy defines the per-tier quality policies that every other
// gate component reads. The registry is an explicitly constructed,
// immutable value: callers build it once with NewRegistry and inject it
// wherever tier-dependent thresholds are needed. There is no ambient
// global lookup.
package policy

import "fmt"

// RiskTier classifies how much scrutiny a change requires. Tier 1 is the
// strictest; tier 3 the most permissive.
type RiskTier int

const (
	// TierCritical is tier 1: highest-risk changes, strictest thresholds,
	// manual review required.
	TierCritical RiskTier = 1

	// TierStandard is tier 2: the default for most feature work.
	TierStandard RiskTier = 2

	// TierLow is tier 3: low-blast-radius changes, also open to doc and
	// chore modes.
	TierLow RiskTier = 3
)

// Mode is a change-mode label declared in a working spec.
type Mode string

const (
	// ModeFeature adds new behavior.
	ModeFeature Mode = "feature"

	// ModeRefactor restructures without behavior change.
	ModeRefactor Mode = "refactor"

	// ModeFix repairs a defect.
	ModeFix Mode = "fix"

	// ModeDoc changes documentation only (tier 3 only).
	ModeDoc Mode = "doc"

	// ModeChore covers maintenance work (tier 3 only).
	ModeChore Mode = "chore"
)

// GlobalModes is the complete set of recognized change modes, in
// declaration order.
var GlobalModes = []Mode{ModeFeature, ModeRefactor, ModeFix, ModeDoc, ModeChore}

// IsValidMode reports whether m is a recognized change mode.
func IsValidMode(m Mode) bool {
	for _, known := range GlobalModes {
		if m == known {
			return true
		}
	}
	return false
}

// TierPolicy holds the thresholds and constraints for one risk tier.
// Values are fixed at construction and never mutated.
type TierPolicy struct {
	// Tier is the risk tier this policy applies to.
	Tier RiskTier `json:"tier"`

	// MinBranchCoverage is the minimum branch coverage ratio (0-1).
	MinBranchCoverage float64 `json:"min_branch_coverage"`

	// MinMutationScore is the minimum mutation-testing score (0-1).
	MinMutationScore float64 `json:"min_mutation_score"`

	// RequiresContracts requires consumer/provider contract tests.
	RequiresContracts bool `json:"requires_contracts"`

	// RequiresManualReview requires a human sign-off before merge.
	RequiresManualReview bool `json:"requires_manual_review"`

	// MaxFiles is the change-budget ceiling on files touched.
	MaxFiles int `json:"max_files"`

	// MaxLoc is the change-budget ceiling on lines of code touched.
	MaxLoc int `json:"max_loc"`

	// AllowedModes lists the change modes permitted at this tier.
	AllowedModes []Mode `json:"allowed_modes"`
}

// AllowsMode reports whether the policy permits the given change mode.
func (p TierPolicy) AllowsMode(m Mode) bool {
	for _, allowed := range p.AllowedModes {
		if m == allowed {
			return true
		}
	}
	return false
}

// InvalidTierError is returned when a tier outside {1,2,3} is supplied
// to any tier-aware operation.
type InvalidTierError struct {
	// Tier is the rejected value.
	Tier int
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid risk tier %d: must be 1, 2, or 3", e.Tier)
}

// Registry is the immutable table of tier policies. Construct with
// NewRegistry; lookups are safe for concurrent use.
type Registry struct {
	policies map[RiskTier]TierPolicy
}

// NewRegistry builds the registry with the fixed policy table. Tiers are
// totally ordered by strictness: every numeric threshold for tier 1 is at
// least as strict as tier 2, and tier 2 at least as strict as tier 3.
func NewRegistry() *Registry {
	return &Registry{
		policies: map[RiskTier]TierPolicy{
			TierCritical: {
				Tier:                 TierCritical,
				MinBranchCoverage:    0.90,
				MinMutationScore:     0.70,
				RequiresContracts:    true,
				RequiresManualReview: true,
				MaxFiles:             40,
				MaxLoc:               1500,
				AllowedModes:         []Mode{ModeFeature, ModeRefactor, ModeFix},
			},
			TierStandard: {
				Tier:              TierStandard,
				MinBranchCoverage: 0.80,
				MinMutationScore:  0.50,
				RequiresContracts: true,
				MaxFiles:          25,
				MaxLoc:            1000,
				AllowedModes:      []Mode{ModeFeature, ModeRefactor, ModeFix},
			},
			TierLow: {
				Tier:              TierLow,
				MinBranchCoverage: 0.70,
				MinMutationScore:  0.30,
				MaxFiles:          15,
				MaxLoc:            600,
				AllowedModes:      []Mode{ModeFeature, ModeRefactor, ModeFix, ModeDoc, ModeChore},
			},
		},
	}
}

// Policy returns the policy for a tier, or InvalidTierError for any tier
// outside {1,2,3}.
func (r *Registry) Policy(tier RiskTier) (TierPolicy, error) {
	p, ok := r.policies[tier]
	if !ok {
		return TierPolicy{}, &InvalidTierError{Tier: int(tier)}
	}
	return p, nil
}

// Tiers returns all registered tiers in ascending order (strictest first).
func (r *Registry) Tiers() []RiskTier {
	return []RiskTier{TierCritical, TierStandard, TierLow}
}
