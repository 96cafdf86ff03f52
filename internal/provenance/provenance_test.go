package provenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boshu2/specgate/internal/gate"
)

func TestAppendAndLoad(t *testing.T) {
	dir := t.TempDir()

	rec := GateRunRecord{
		SpecID:     "SG-0001",
		Tier:       2,
		TrustScore: 88,
		Passed:     true,
		Gates: []gate.Result{
			{Kind: gate.KindTrust, Tier: 2, Passed: true, Measured: 88, Threshold: 82},
		},
	}
	if err := Append(dir, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	got := records[0]
	if got.ID == "" {
		t.Error("Append should assign an ID")
	}
	if got.CreatedAt.IsZero() {
		t.Error("Append should assign a timestamp")
	}
	if got.SpecID != "SG-0001" || got.TrustScore != 88 || !got.Passed {
		t.Errorf("record = %+v", got)
	}
	if len(got.Gates) != 1 || got.Gates[0].Kind != gate.KindTrust {
		t.Errorf("gates = %+v", got.Gates)
	}
}

func TestLoadMissingLog(t *testing.T) {
	records, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if records != nil {
		t.Errorf("got %d records, want none", len(records))
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, LogPath)
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		t.Fatal(err)
	}

	content := `{"id":"a","spec_id":"SG-0001","tier":1,"passed":true,"created_at":"2026-01-02T03:04:05Z"}
this is not json
{"id":"b","spec_id":"SG-0002","tier":3,"passed":false,"created_at":"2026-01-02T03:04:06Z"}
`
	if err := os.WriteFile(logPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	records, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (malformed line skipped)", len(records))
	}
}

func TestFindBySpec(t *testing.T) {
	dir := t.TempDir()

	for _, spec := range []string{"SG-0001", "SG-0002", "SG-0001"} {
		if err := Append(dir, GateRunRecord{SpecID: spec, Tier: 2}); err != nil {
			t.Fatal(err)
		}
	}

	matched, err := FindBySpec(dir, "SG-0001")
	if err != nil {
		t.Fatalf("FindBySpec: %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("got %d runs for SG-0001, want 2", len(matched))
	}
}

func TestGetStats(t *testing.T) {
	now := time.Now()
	records := []GateRunRecord{
		{SpecID: "SG-0001", Tier: 1, Passed: true, CreatedAt: now},
		{SpecID: "SG-0001", Tier: 1, Passed: false, CreatedAt: now},
		{SpecID: "SG-0002", Tier: 3, Passed: true, CreatedAt: now},
	}

	stats := GetStats(records)
	if stats.TotalRuns != 3 {
		t.Errorf("TotalRuns = %d, want 3", stats.TotalRuns)
	}
	if stats.PassedRuns != 2 {
		t.Errorf("PassedRuns = %d, want 2", stats.PassedRuns)
	}
	if stats.RunsByTier[1] != 2 || stats.RunsByTier[3] != 1 {
		t.Errorf("RunsByTier = %v", stats.RunsByTier)
	}
	if stats.UniqueSpecs != 2 {
		t.Errorf("UniqueSpecs = %d, want 2", stats.UniqueSpecs)
	}
}
