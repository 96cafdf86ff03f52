// Package trust computes the composite trust score for a change from the
// quality signals collected by the provenance tooling. The score folds
// nine heterogeneous signals into a single 0-100 integer using fixed
// weights and tier-relative normalization.
package trust

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ContractStatus carries the consumer/provider contract-test outcomes.
type ContractStatus struct {
	// Consumer is true when the consumer-side contract tests passed.
	Consumer bool `json:"consumer"`

	// Provider is true when the provider-side contract tests passed.
	Provider bool `json:"provider"`
}

// PerfSample is a measured latency sample from the performance harness.
type PerfSample struct {
	// P95 is the 95th-percentile latency in milliseconds.
	P95 float64 `json:"p95"`
}

// ProvenanceResult is the record of measured quality signals produced by
// the provenance collaborator. The engine consumes it read-only; it never
// goes looking for one on disk by itself.
type ProvenanceResult struct {
	// CoverageBranch is the measured branch coverage ratio (0-1).
	CoverageBranch float64 `json:"coverageBranch"`

	// MutationScore is the measured mutation-testing score (0-1).
	MutationScore float64 `json:"mutationScore"`

	// Contracts carries the contract-test pass flags.
	Contracts ContractStatus `json:"contracts"`

	// A11y is the accessibility verdict; only "pass" earns credit.
	A11y string `json:"a11y"`

	// Perf is the latency sample, nil when no perf run happened.
	Perf *PerfSample `json:"perf,omitempty"`

	// FlakeRate is the observed test flake rate (0-1).
	FlakeRate float64 `json:"flakeRate"`

	// ModeCompliance labels how well the change stayed inside its declared
	// mode; only "full" earns full credit.
	ModeCompliance string `json:"modeCompliance"`

	// ScopeWithinBudget is true when the change stayed inside its declared
	// scope and change budget.
	ScopeWithinBudget bool `json:"scopeWithinBudget"`

	// SBOMValid is true when the generated SBOM validated.
	SBOMValid bool `json:"sbomValid"`

	// AttestationValid is true when the build attestation verified.
	AttestationValid bool `json:"attestationValid"`
}

// ParseResults decodes a ProvenanceResult from the collaborator's JSON shape.
func ParseResults(r io.Reader) (*ProvenanceResult, error) {
	var result ProvenanceResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse provenance results: %w", err)
	}
	return &result, nil
}

// LoadResults reads a ProvenanceResult JSON file.
func LoadResults(path string) (*ProvenanceResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provenance results: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // read-only, close error non-fatal
	}()
	return ParseResults(f)
}
