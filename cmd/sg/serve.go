package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/specgate/internal/config"
	"github.com/boshu2/specgate/internal/mcpbridge"
	"github.com/boshu2/specgate/internal/policy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gate engine over MCP on stdio",
	Long: `Serve the policy registry, spec validator, trust calculator, and gate
enforcer to AI agents over the Model Context Protocol on stdin/stdout.

Tools exposed: get_policy, validate_spec, compute_trust_score, check_gate.

Register with an MCP client as a stdio server running "sg serve".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{Verbose: GetVerbose()})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv := mcpbridge.NewServer(mcpbridge.ServerConfig{
		Name:    cfg.Serve.Name,
		Version: version,
	}, policy.NewRegistry())

	VerbosePrintf("serving MCP on stdio as %s %s\n", cfg.Serve.Name, version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
