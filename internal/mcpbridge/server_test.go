package mcpbridge_test

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/boshu2/specgate/internal/mcpbridge"
	"github.com/boshu2/specgate/internal/policy"
)

func newTestServer(t *testing.T) *mcpbridge.Server {
	t.Helper()
	return mcpbridge.NewServer(
		mcpbridge.ServerConfig{Name: "specgate-test", Version: "0.1.0"},
		policy.NewRegistry(),
	)
}

// callTool invokes a registered tool by name and decodes its JSON payload.
func callTool(t *testing.T, s *mcpbridge.Server, name string, args map[string]any, out any) *mcplib.CallToolResult {
	t.Helper()

	tools := s.MCPServer().ListTools()
	tool, ok := tools[name]
	if !ok {
		t.Fatalf("tool %q not registered", name)
	}

	result, err := tool.Handler(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if out != nil && !result.IsError {
		text, ok := result.Content[0].(mcplib.TextContent)
		if !ok {
			t.Fatal("expected TextContent")
		}
		if err := json.Unmarshal([]byte(text.Text), out); err != nil {
			t.Fatalf("unmarshal tool payload: %v", err)
		}
	}
	return result
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	if s.MCPServer() == nil {
		t.Fatal("MCPServer() returned nil")
	}
}

func TestToolRegistration(t *testing.T) {
	s := newTestServer(t)

	tools := s.MCPServer().ListTools()
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}

	for _, name := range []string{"get_policy", "validate_spec", "compute_trust_score", "check_gate"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("expected tool %q not registered", name)
		}
	}
}

func TestHandleGetPolicy(t *testing.T) {
	s := newTestServer(t)

	var p policy.TierPolicy
	result := callTool(t, s, "get_policy", map[string]any{"tier": float64(1)}, &p)
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
	if p.MinBranchCoverage != 0.90 || p.MaxFiles != 40 {
		t.Errorf("tier 1 policy = %+v", p)
	}

	bad := callTool(t, s, "get_policy", map[string]any{"tier": float64(9)}, nil)
	if !bad.IsError {
		t.Error("tier 9 should return a tool error")
	}
}

func TestHandleValidateSpec(t *testing.T) {
	s := newTestServer(t)

	// A tier 3 spec missing most fields: valid=false with violations.
	var verdict struct {
		Valid      bool     `json:"valid"`
		Violations []string `json:"violations"`
	}
	result := callTool(t, s, "validate_spec", map[string]any{
		"spec_yaml": "id: SG-0001\ntitle: partial\nriskTier: 3\nmode: doc\n",
	}, &verdict)
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
	if verdict.Valid {
		t.Error("incomplete spec should be invalid")
	}
	if len(verdict.Violations) == 0 {
		t.Error("violations should be reported")
	}
}

func TestHandleComputeTrustScore(t *testing.T) {
	s := newTestServer(t)

	resultsJSON := `{
		"coverageBranch": 0.9, "mutationScore": 0.6,
		"contracts": {"consumer": true, "provider": true},
		"a11y": "pass", "perf": {"p95": 150}, "flakeRate": 0.001,
		"modeCompliance": "full", "scopeWithinBudget": true,
		"sbomValid": true, "attestationValid": true
	}`

	var payload struct {
		Tier  int `json:"tier"`
		Score int `json:"score"`
	}
	result := callTool(t, s, "compute_trust_score", map[string]any{
		"tier":         float64(3),
		"results_json": resultsJSON,
	}, &payload)
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
	if payload.Score != 85 {
		t.Errorf("score = %d, want 85", payload.Score)
	}
}

func TestHandleCheckGate(t *testing.T) {
	s := newTestServer(t)

	var verdict struct {
		Kind   string `json:"kind"`
		Passed bool   `json:"passed"`
	}
	result := callTool(t, s, "check_gate", map[string]any{
		"kind": "coverage", "tier": float64(1), "measured": 0.85,
	}, &verdict)
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
	if verdict.Passed {
		t.Error("coverage 0.85 at tier 1 should fail the gate")
	}

	var budget struct {
		Passed bool `json:"passed"`
	}
	result = callTool(t, s, "check_gate", map[string]any{
		"kind": "budget", "tier": float64(3),
		"files_changed": float64(10), "loc_changed": float64(400),
	}, &budget)
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
	if !budget.Passed {
		t.Error("budget {10, 400} at tier 3 should pass")
	}

	unknown := callTool(t, s, "check_gate", map[string]any{
		"kind": "latency", "tier": float64(1), "measured": 1.0,
	}, nil)
	if !unknown.IsError {
		t.Error("unknown gate kind should return a tool error")
	}
}
