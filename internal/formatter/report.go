package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/provenance"
)

// passLabel renders a verdict column cell.
func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// RenderGateResults writes gate verdicts as an aligned table.
func RenderGateResults(w io.Writer, results []gate.Result) error {
	table := NewTable(w, "GATE", "TIER", "VERDICT", "MEASURED", "THRESHOLD")
	for _, r := range results {
		measured := strconv.FormatFloat(r.Measured, 'g', -1, 64)
		threshold := strconv.FormatFloat(r.Threshold, 'g', -1, 64)
		if r.Budget != nil {
			measured = fmt.Sprintf("%d files / %d loc", r.Budget.FilesChanged, r.Budget.LocChanged)
			threshold = fmt.Sprintf("%d files / %d loc", r.Budget.MaxFiles, r.Budget.MaxLoc)
		}
		table.AddRow(string(r.Kind), strconv.Itoa(int(r.Tier)), passLabel(r.Passed), measured, threshold)
	}
	return table.Render()
}

// RenderPolicyTable writes the per-tier policy table.
func RenderPolicyTable(w io.Writer, registry *policy.Registry) error {
	table := NewTable(w, "TIER", "MIN COVERAGE", "MIN MUTATION", "CONTRACTS", "REVIEW", "MAX FILES", "MAX LOC", "MODES")
	for _, tier := range registry.Tiers() {
		p, err := registry.Policy(tier)
		if err != nil {
			return err
		}
		modes := make([]string, len(p.AllowedModes))
		for i, m := range p.AllowedModes {
			modes[i] = string(m)
		}
		table.AddRow(
			strconv.Itoa(int(p.Tier)),
			fmt.Sprintf("%.2f", p.MinBranchCoverage),
			fmt.Sprintf("%.2f", p.MinMutationScore),
			yesNo(p.RequiresContracts),
			yesNo(p.RequiresManualReview),
			strconv.Itoa(p.MaxFiles),
			strconv.Itoa(p.MaxLoc),
			strings.Join(modes, ","),
		)
	}
	return table.Render()
}

// RenderRunHistory writes logged gate runs as an aligned table.
func RenderRunHistory(w io.Writer, records []provenance.GateRunRecord) error {
	table := NewTable(w, "WHEN", "SPEC", "TIER", "SCORE", "VERDICT")
	for _, rec := range records {
		table.AddRow(
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.SpecID,
			strconv.Itoa(rec.Tier),
			strconv.Itoa(rec.TrustScore),
			passLabel(rec.Passed),
		)
	}
	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
