package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	output  string
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sg",
	Short: "Risk-tiered quality gates for agent workflows",
	Long: `sg gates code changes by declared risk tier.

A change declares a risk tier (1 strictest, 3 loosest) in its working
spec. sg validates the spec, folds measured quality signals into a
0-100 trust score, and enforces pass/fail gates against the tier's
thresholds.

Core Commands:
  policy       Show per-tier thresholds
  validate     Validate a working-spec document
  score        Compute the trust score from provenance results
  gate         Check individual gates or run the full suite
  serve        Expose the gates to agents over MCP
  version      Show version information

A failing gate exits non-zero, so sg slots directly into CI:
  sg gate run --tier 2 --results .agents/sg/results.json || exit 1`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.specgate/config.yaml)")
}

// GetVerbose returns the verbose flag value for use by subcommands.
func GetVerbose() bool {
	return verbose
}

// GetOutput returns the output format for use by subcommands.
func GetOutput() string {
	return output
}

// GetConfigFile returns the config file path for use by subcommands.
func GetConfigFile() string {
	return cfgFile
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(GetConfigFile())
	if path == "" {
		return
	}
	_ = os.Setenv("SPECGATE_CONFIG", path)
}
