package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want table", cfg.Output)
	}
	if cfg.BaseDir != "." {
		t.Errorf("BaseDir = %q, want .", cfg.BaseDir)
	}
	if cfg.Paths.SpecFile == "" || cfg.Paths.ResultsFile == "" {
		t.Error("default paths should be set")
	}
	if cfg.Serve.Name != "specgate" {
		t.Errorf("Serve.Name = %q, want specgate", cfg.Serve.Name)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cfg, err := Load(&Config{Output: "json", Verbose: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
	// Untouched fields keep defaults.
	if cfg.Paths.SpecFile != defaultSpecFile {
		t.Errorf("SpecFile = %q, want default", cfg.Paths.SpecFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SPECGATE_OUTPUT", "json")
	t.Setenv("SPECGATE_BASE_DIR", "/tmp/gates")
	t.Setenv("SPECGATE_VERBOSE", "1")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.BaseDir != "/tmp/gates" {
		t.Errorf("BaseDir = %q, want /tmp/gates", cfg.BaseDir)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoadProjectConfigViaEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "output: json\npaths:\n  results_file: build/results.json\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPECGATE_CONFIG", path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.Paths.ResultsFile != "build/results.json" {
		t.Errorf("ResultsFile = %q, want build/results.json", cfg.Paths.ResultsFile)
	}
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("SPECGATE_OUTPUT", "json")

	cfg, err := Load(&Config{Output: "table"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want table (flag beats env)", cfg.Output)
	}
}
