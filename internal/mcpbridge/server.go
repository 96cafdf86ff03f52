// Package mcpbridge exposes the gate engine to AI agents over the Model
// Context Protocol. The bridge is a thin adapter: it decodes tool
// arguments, forwards to the injected engine values, and encodes the
// verdicts back. It holds no gate logic of its own and never searches the
// filesystem for inputs; agents hand it documents and measurements.
package mcpbridge

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/trust"
	"github.com/boshu2/specgate/internal/workingspec"
)

// ServerConfig identifies the bridge during the MCP handshake.
type ServerConfig struct {
	// Name is the advertised server name.
	Name string

	// Version is the advertised server version.
	Version string
}

// Server wraps an MCP server around the gate engine.
type Server struct {
	cfg       ServerConfig
	mcpServer *mcpserver.MCPServer

	registry   *policy.Registry
	validator  *workingspec.Validator
	calculator *trust.Calculator
	enforcer   *gate.Enforcer
}

// NewServer creates the bridge with all tools registered. The registry is
// the single injected dependency; the validator, calculator, and enforcer
// are built on top of it.
func NewServer(cfg ServerConfig, registry *policy.Registry) *Server {
	s := &Server{
		cfg:        cfg,
		registry:   registry,
		validator:  workingspec.NewValidator(registry),
		calculator: trust.NewCalculator(registry),
		enforcer:   gate.NewEnforcer(registry),
	}
	s.mcpServer = mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, mainly for tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the bridge on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}
