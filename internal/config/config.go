// Package config provides configuration management for specgate.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (SPECGATE_*)
// 3. Project config (.specgate/config.yaml in cwd)
// 4. Home config (~/.specgate/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all specgate configuration.
type Config struct {
	// Output controls the default output format (table, json).
	Output string `yaml:"output" json:"output"`

	// BaseDir is the directory the gate-run log lives under (default: ".").
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Paths holds configurable artifact locations.
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Serve holds settings for the agent-facing bridge.
	Serve ServeConfig `yaml:"serve" json:"serve"`
}

// PathsConfig holds configurable default paths for gate inputs.
type PathsConfig struct {
	// SpecFile is the default working-spec document location.
	// Default: .agents/specs/working-spec.yaml
	SpecFile string `yaml:"spec_file" json:"spec_file"`

	// ResultsFile is the default provenance-results location.
	// Default: .agents/sg/results.json
	ResultsFile string `yaml:"results_file" json:"results_file"`
}

// ServeConfig holds settings for `sg serve`.
type ServeConfig struct {
	// Name is the server name advertised during the MCP handshake.
	Name string `yaml:"name" json:"name"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput      = "table"
	defaultBaseDir     = "."
	defaultSpecFile    = ".agents/specs/working-spec.yaml"
	defaultResultsFile = ".agents/sg/results.json"
	defaultServerName  = "specgate"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:  defaultOutput,
		BaseDir: defaultBaseDir,
		Verbose: false,
		Paths: PathsConfig{
			SpecFile:    defaultSpecFile,
			ResultsFile: defaultResultsFile,
		},
		Serve: ServeConfig{
			Name: defaultServerName,
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	// Load home config
	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	// Load project config
	projectConfig, _ := loadFromPath(projectConfigPath())
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	// Apply environment variables
	cfg = applyEnv(cfg)

	// Apply flag overrides
	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".specgate", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("SPECGATE_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".specgate", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("SPECGATE_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("SPECGATE_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("SPECGATE_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("SPECGATE_SPEC_FILE"); v != "" {
		cfg.Paths.SpecFile = v
	}
	if v := os.Getenv("SPECGATE_RESULTS_FILE"); v != "" {
		cfg.Paths.ResultsFile = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	mergeStr(&dst.BaseDir, src.BaseDir)
	if src.Verbose {
		dst.Verbose = true
	}

	mergeStr(&dst.Paths.SpecFile, src.Paths.SpecFile)
	mergeStr(&dst.Paths.ResultsFile, src.Paths.ResultsFile)
	mergeStr(&dst.Serve.Name, src.Serve.Name)

	return dst
}
