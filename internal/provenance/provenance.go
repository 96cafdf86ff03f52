// Package provenance records gate-run outcomes to an append-only JSONL
// log. The log is the audit trail linking a working spec to the verdicts
// that gated it; it answers "what score did SG-0042 get last week and
// which gate failed".
package provenance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/boshu2/specgate/internal/gate"
)

// LogPath is the relative path of the gate-run log.
const LogPath = ".agents/sg/gates.jsonl"

// GateRunRecord is a single logged gate run.
type GateRunRecord struct {
	// ID is the unique record identifier (UUID).
	ID string `json:"id"`

	// SpecID is the working-spec identifier the run gated.
	SpecID string `json:"spec_id"`

	// Tier is the risk tier the run was evaluated at.
	Tier int `json:"tier"`

	// TrustScore is the composite score computed for the run, if any.
	TrustScore int `json:"trust_score,omitempty"`

	// Passed is true when every gate in the run passed.
	Passed bool `json:"passed"`

	// Gates are the individual gate verdicts.
	Gates []gate.Result `json:"gates,omitempty"`

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// Append writes a record to the log under baseDir, creating the file and
// parent directories as needed. A missing ID or timestamp is filled in.
func Append(baseDir string, rec GateRunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	logPath := filepath.Join(baseDir, LogPath)
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return fmt.Errorf("create gate log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open gate log: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // write already complete, close best-effort
	}()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal gate run: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write gate run: %w", err)
	}
	return nil
}

// Load reads all records from the log under baseDir. A missing log is not
// an error; malformed lines are skipped.
func Load(baseDir string) ([]GateRunRecord, error) {
	f, err := os.Open(filepath.Join(baseDir, LogPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open gate log: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // read-only, close error non-fatal
	}()

	var records []GateRunRecord
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec GateRunRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scan gate log: %w", err)
	}
	return records, nil
}

// FindBySpec returns all recorded runs for a working-spec ID, oldest first.
func FindBySpec(baseDir, specID string) ([]GateRunRecord, error) {
	records, err := Load(baseDir)
	if err != nil {
		return nil, err
	}
	var matched []GateRunRecord
	for _, rec := range records {
		if rec.SpecID == specID {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Stats summarizes the gate-run log.
type Stats struct {
	TotalRuns   int         `json:"total_runs"`
	PassedRuns  int         `json:"passed_runs"`
	RunsByTier  map[int]int `json:"runs_by_tier"`
	UniqueSpecs int         `json:"unique_specs"`
}

// GetStats computes summary statistics over a set of records.
func GetStats(records []GateRunRecord) *Stats {
	stats := &Stats{RunsByTier: make(map[int]int)}
	specs := make(map[string]bool)

	for _, rec := range records {
		stats.TotalRuns++
		if rec.Passed {
			stats.PassedRuns++
		}
		stats.RunsByTier[rec.Tier]++
		if rec.SpecID != "" {
			specs[rec.SpecID] = true
		}
	}

	stats.UniqueSpecs = len(specs)
	return stats
}
