package trust

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleResultsJSON = `{
  "coverageBranch": 0.9,
  "mutationScore": 0.6,
  "contracts": {"consumer": true, "provider": true},
  "a11y": "pass",
  "perf": {"p95": 150},
  "flakeRate": 0.001,
  "modeCompliance": "full",
  "scopeWithinBudget": true,
  "sbomValid": true,
  "attestationValid": true
}`

func TestParseResults(t *testing.T) {
	result, err := ParseResults(strings.NewReader(sampleResultsJSON))
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if result.CoverageBranch != 0.9 {
		t.Errorf("CoverageBranch = %v, want 0.9", result.CoverageBranch)
	}
	if !result.Contracts.Consumer || !result.Contracts.Provider {
		t.Errorf("Contracts = %+v, want both true", result.Contracts)
	}
	if result.Perf == nil || result.Perf.P95 != 150 {
		t.Errorf("Perf = %+v, want p95 150", result.Perf)
	}
}

func TestParseResultsOptionalPerf(t *testing.T) {
	result, err := ParseResults(strings.NewReader(`{"coverageBranch": 0.8}`))
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if result.Perf != nil {
		t.Errorf("Perf = %+v, want nil when absent", result.Perf)
	}
}

func TestParseResultsMalformed(t *testing.T) {
	if _, err := ParseResults(strings.NewReader("{not json")); err == nil {
		t.Error("ParseResults should fail on malformed JSON")
	}
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	if err := os.WriteFile(path, []byte(sampleResultsJSON), 0600); err != nil {
		t.Fatal(err)
	}

	result, err := LoadResults(path)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if result.FlakeRate != 0.001 {
		t.Errorf("FlakeRate = %v, want 0.001", result.FlakeRate)
	}

	if _, err := LoadResults(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadResults should fail for missing file")
	}
}
