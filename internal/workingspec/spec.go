// Package workingspec models the change-specification document that
// agents author before implementation begins, and validates its structure
// against tier-consistency rules. The engine treats the document as
// read-only: it is re-validated on every gate run and never mutated here.
package workingspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkingSpec is a change-specification document under validation.
type WorkingSpec struct {
	// ID is the spec identifier, pattern PREFIX-NUMBER (e.g. "SG-0042").
	ID string `yaml:"id" json:"id"`

	// Title is a short human-readable description of the change.
	Title string `yaml:"title" json:"title"`

	// RiskTier classifies the change: 1 (strictest) through 3.
	RiskTier int `yaml:"riskTier" json:"risk_tier"`

	// Mode is the change-mode label (feature, refactor, fix, doc, chore).
	Mode string `yaml:"mode" json:"mode"`

	// ChangeBudget caps how much the change may touch.
	ChangeBudget *ChangeBudget `yaml:"changeBudget" json:"change_budget,omitempty"`

	// BlastRadius names the modules and data surfaces the change can reach.
	BlastRadius *BlastRadius `yaml:"blastRadius" json:"blast_radius,omitempty"`

	// OperationalRollbackSlo is how fast the change can be rolled back,
	// as a duration string like "5m" or "1h".
	OperationalRollbackSlo string `yaml:"operationalRollbackSlo" json:"operational_rollback_slo"`

	// Scope lists the paths the change may and may not touch.
	Scope *Scope `yaml:"scope" json:"scope,omitempty"`

	// Invariants are properties that must hold after the change.
	Invariants []string `yaml:"invariants" json:"invariants"`

	// Acceptance is the ordered list of Given/When/Then criteria.
	Acceptance []AcceptanceCriterion `yaml:"acceptance" json:"acceptance"`

	// NonFunctional captures performance and accessibility requirements.
	NonFunctional *NonFunctional `yaml:"nonFunctional" json:"non_functional,omitempty"`

	// Contracts lists consumer/provider contract references. Required
	// non-empty for tiers 1 and 2.
	Contracts []Contract `yaml:"contracts" json:"contracts"`
}

// ChangeBudget caps the size of a change.
type ChangeBudget struct {
	// MaxFiles is the maximum number of files the change may touch (>= 1).
	MaxFiles int `yaml:"maxFiles" json:"max_files"`

	// MaxLoc is the maximum lines of code the change may touch (>= 1).
	MaxLoc int `yaml:"maxLoc" json:"max_loc"`
}

// BlastRadius describes what the change can affect beyond its edited files.
type BlastRadius struct {
	// Modules are the module names inside the blast radius.
	Modules []string `yaml:"modules" json:"modules,omitempty"`

	// DataMigration is true when the change touches stored data shapes.
	DataMigration bool `yaml:"dataMigration" json:"data_migration,omitempty"`

	// CrossServiceCalls is true when the change alters service boundaries.
	CrossServiceCalls bool `yaml:"crossServiceCalls" json:"cross_service_calls,omitempty"`
}

// Scope bounds the paths a change may touch.
type Scope struct {
	// In are the path globs the change is allowed to modify. Must be non-empty.
	In []string `yaml:"in" json:"in"`

	// Out are path globs explicitly excluded from the change.
	Out []string `yaml:"out" json:"out,omitempty"`
}

// AcceptanceCriterion is a single Given/When/Then acceptance test.
type AcceptanceCriterion struct {
	// ID uniquely identifies the criterion within the spec (e.g. "A1").
	ID string `yaml:"id" json:"id"`

	Given string `yaml:"given" json:"given"`
	When  string `yaml:"when" json:"when"`
	Then  string `yaml:"then" json:"then"`
}

// Contract references a consumer or provider contract test.
type Contract struct {
	// Name identifies the contract (e.g. "billing-api-v2").
	Name string `yaml:"name" json:"name"`

	// Type is the contract kind (consumer, provider).
	Type string `yaml:"type" json:"type,omitempty"`

	// Path points at the contract definition or test.
	Path string `yaml:"path" json:"path,omitempty"`
}

// NonFunctional captures the non-functional requirements of a change.
type NonFunctional struct {
	// A11y is the accessibility requirement (e.g. "wcag2.1-aa" or "none").
	A11y string `yaml:"a11y" json:"a11y,omitempty"`

	// PerfBudgetP95Ms is the p95 latency budget in milliseconds.
	PerfBudgetP95Ms float64 `yaml:"perfBudgetP95Ms" json:"perf_budget_p95_ms,omitempty"`

	// FlakeBudget is the tolerated flake rate for the change's tests.
	FlakeBudget float64 `yaml:"flakeBudget" json:"flake_budget,omitempty"`
}

// Parse decodes a WorkingSpec from YAML bytes. Parse only reports decode
// errors; structural rules are checked separately by Validator.Validate.
func Parse(data []byte) (*WorkingSpec, error) {
	var spec WorkingSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse working spec: %w", err)
	}
	return &spec, nil
}

// Load reads and decodes a WorkingSpec YAML file.
func Load(path string) (*WorkingSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read working spec: %w", err)
	}
	return Parse(data)
}
