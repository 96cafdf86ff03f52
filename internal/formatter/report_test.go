package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/provenance"
)

func TestRenderGateResults(t *testing.T) {
	results := []gate.Result{
		{Kind: gate.KindCoverage, Tier: 1, Passed: false, Measured: 0.85, Threshold: 0.90},
		{Kind: gate.KindBudget, Tier: 3, Passed: true, Budget: &gate.BudgetUsage{
			FilesChanged: 10, LocChanged: 400, MaxFiles: 15, MaxLoc: 600,
		}},
	}

	var sb strings.Builder
	if err := RenderGateResults(&sb, results); err != nil {
		t.Fatalf("RenderGateResults: %v", err)
	}

	out := sb.String()
	for _, want := range []string{"GATE", "coverage", "FAIL", "budget", "PASS", "10 files / 400 loc", "15 files / 600 loc"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPolicyTable(t *testing.T) {
	var sb strings.Builder
	if err := RenderPolicyTable(&sb, policy.NewRegistry()); err != nil {
		t.Fatalf("RenderPolicyTable: %v", err)
	}

	out := sb.String()
	for _, want := range []string{"TIER", "0.90", "0.70", "1500", "feature,refactor,fix,doc,chore"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 5 { // header + separator + 3 tiers
		t.Errorf("got %d lines, want 5:\n%s", lines, out)
	}
}

func TestRenderRunHistory(t *testing.T) {
	records := []provenance.GateRunRecord{
		{SpecID: "SG-0042", Tier: 2, TrustScore: 85, Passed: true,
			CreatedAt: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
	}

	var sb strings.Builder
	if err := RenderRunHistory(&sb, records); err != nil {
		t.Fatalf("RenderRunHistory: %v", err)
	}

	out := sb.String()
	for _, want := range []string{"SG-0042", "85", "PASS", "2026-08-01 12:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableAlignsColumns(t *testing.T) {
	var sb strings.Builder
	table := NewTable(&sb, "A", "LONGER")
	table.AddRow("x")
	table.AddRow("longvalue", "y")
	if err := table.Render(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[1], "-") {
		t.Errorf("second line should be a separator: %q", lines[1])
	}
}
