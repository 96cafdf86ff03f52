package workingspec

import (
	"fmt"
	"regexp"

	"github.com/boshu2/specgate/internal/policy"
)

// idPattern is the required shape of a spec identifier: PREFIX-NUMBER.
var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*-\d+$`)

// rollbackSloPattern is the required shape of operationalRollbackSlo,
// a whole number of minutes or hours ("5m", "1h").
var rollbackSloPattern = regexp.MustCompile(`^\d+m$|^\d+h$`)

// Summary describes a spec that passed structural validation.
type Summary struct {
	// ID is the spec identifier.
	ID string `json:"id"`

	// Title is the spec title.
	Title string `json:"title"`

	// RiskTier is the declared risk tier.
	RiskTier int `json:"risk_tier"`

	// Mode is the declared change mode.
	Mode string `json:"mode"`

	// MaxFiles and MaxLoc echo the declared change budget.
	MaxFiles int `json:"max_files"`
	MaxLoc   int `json:"max_loc"`

	// ContractCount is the number of declared contracts.
	ContractCount int `json:"contract_count"`
}

// Validator checks working specs against structural and tier-consistency
// rules. It reads tier-dependent requirements (the contract rule) from the
// injected policy registry and never mutates it.
//
// The validator deliberately does NOT cross-check mode against the tier's
// allowed-mode set. Structural validation answers "is this document well
// formed"; whether the declared mode is permitted at the declared tier is
// a policy decision that belongs to the gate enforcer.
type Validator struct {
	registry *policy.Registry
}

// NewValidator creates a validator backed by the given registry.
func NewValidator(registry *policy.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks the spec and returns a summary on success, or a
// *StructuralValidationError carrying every violation found. Validation
// accumulates all problems before failing; it never stops at the first.
// The spec itself is never modified.
func (v *Validator) Validate(spec *WorkingSpec) (*Summary, error) {
	if spec == nil {
		return nil, &StructuralValidationError{Violations: []string{"working spec is nil"}}
	}

	var violations []string
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	// 1. Required fields.
	if spec.ID == "" {
		add("missing required field: id")
	} else if !idPattern.MatchString(spec.ID) {
		add("id must match PREFIX-NUMBER (got %q)", spec.ID)
	}
	if spec.Title == "" {
		add("missing required field: title")
	}
	if spec.RiskTier == 0 {
		add("missing required field: riskTier")
	}
	if spec.Mode == "" {
		add("missing required field: mode")
	}
	if spec.ChangeBudget == nil {
		add("missing required field: changeBudget")
	}
	if spec.BlastRadius == nil {
		add("missing required field: blastRadius")
	}
	if spec.OperationalRollbackSlo == "" {
		add("missing required field: operationalRollbackSlo")
	}
	if spec.Scope == nil {
		add("missing required field: scope")
	}
	if spec.Invariants == nil {
		add("missing required field: invariants")
	}
	if spec.Acceptance == nil {
		add("missing required field: acceptance")
	}
	if spec.NonFunctional == nil {
		add("missing required field: nonFunctional")
	}
	if spec.Contracts == nil {
		add("missing required field: contracts")
	}

	// 2. Tier range.
	tierPolicy, tierErr := v.registry.Policy(policy.RiskTier(spec.RiskTier))
	if spec.RiskTier != 0 && tierErr != nil {
		add("riskTier must be 1, 2, or 3 (got %d)", spec.RiskTier)
	}

	// 3. Global mode set. Tier-specific mode restriction is a gate
	// concern, not checked here.
	if spec.Mode != "" && !policy.IsValidMode(policy.Mode(spec.Mode)) {
		add("mode must be one of feature, refactor, fix, doc, chore (got %q)", spec.Mode)
	}

	// 4. Change-budget floors.
	if spec.ChangeBudget != nil {
		if spec.ChangeBudget.MaxFiles < 1 {
			add("changeBudget.maxFiles must be >= 1 (got %d)", spec.ChangeBudget.MaxFiles)
		}
		if spec.ChangeBudget.MaxLoc < 1 {
			add("changeBudget.maxLoc must be >= 1 (got %d)", spec.ChangeBudget.MaxLoc)
		}
	}

	// 5. Scope must name at least one included path.
	if spec.Scope != nil && len(spec.Scope.In) == 0 {
		add("scope.in must list at least one path")
	}

	// 6. Invariants must be stated.
	if spec.Invariants != nil && len(spec.Invariants) == 0 {
		add("invariants must list at least one invariant")
	}

	// 7. Acceptance criteria: non-empty, complete, unique ids.
	if spec.Acceptance != nil {
		if len(spec.Acceptance) == 0 {
			add("acceptance must list at least one criterion")
		}
		seen := make(map[string]bool, len(spec.Acceptance))
		for i, a := range spec.Acceptance {
			if a.ID == "" {
				add("acceptance[%d] missing id", i)
			} else if seen[a.ID] {
				add("acceptance id %q is duplicated", a.ID)
			} else {
				seen[a.ID] = true
			}
			if a.Given == "" {
				add("acceptance[%d] missing given", i)
			}
			if a.When == "" {
				add("acceptance[%d] missing when", i)
			}
			if a.Then == "" {
				add("acceptance[%d] missing then", i)
			}
		}
	}

	// 8. High-risk tiers must declare contracts.
	if tierErr == nil && tierPolicy.RequiresContracts && len(spec.Contracts) == 0 {
		add("contracts must be non-empty for risk tier %d (contract tests required)", spec.RiskTier)
	}

	// 9. Rollback SLO duration shape.
	if spec.OperationalRollbackSlo != "" && !rollbackSloPattern.MatchString(spec.OperationalRollbackSlo) {
		add(`operationalRollbackSlo must be minutes or hours like "5m" or "1h" (got %q)`, spec.OperationalRollbackSlo)
	}

	if len(violations) > 0 {
		return nil, &StructuralValidationError{SpecID: spec.ID, Violations: violations}
	}

	summary := &Summary{
		ID:            spec.ID,
		Title:         spec.Title,
		RiskTier:      spec.RiskTier,
		Mode:          spec.Mode,
		ContractCount: len(spec.Contracts),
	}
	if spec.ChangeBudget != nil {
		summary.MaxFiles = spec.ChangeBudget.MaxFiles
		summary.MaxLoc = spec.ChangeBudget.MaxLoc
	}
	return summary, nil
}
