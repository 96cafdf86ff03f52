package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/boshu2/specgate/internal/gate"
	"github.com/boshu2/specgate/internal/policy"
	"github.com/boshu2/specgate/internal/trust"
	"github.com/boshu2/specgate/internal/workingspec"
)

// registerTools registers all bridge tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.getPolicyTool(),
		s.validateSpecTool(),
		s.computeTrustScoreTool(),
		s.checkGateTool(),
	)
}

func (s *Server) getPolicyTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_policy",
		mcplib.WithDescription("Get the quality policy for a risk tier (1, 2, or 3)"),
		mcplib.WithNumber("tier",
			mcplib.Required(),
			mcplib.Description("The risk tier to look up"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGetPolicy,
	}
}

func (s *Server) validateSpecTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("validate_spec",
		mcplib.WithDescription("Validate a working-spec YAML document against structural and tier rules"),
		mcplib.WithString("spec_yaml",
			mcplib.Required(),
			mcplib.Description("The working-spec document as YAML"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleValidateSpec,
	}
}

func (s *Server) computeTrustScoreTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("compute_trust_score",
		mcplib.WithDescription("Compute the 0-100 trust score for a risk tier from provenance results"),
		mcplib.WithNumber("tier",
			mcplib.Required(),
			mcplib.Description("The risk tier to score against"),
		),
		mcplib.WithString("results_json",
			mcplib.Required(),
			mcplib.Description("The provenance results record as JSON"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleComputeTrustScore,
	}
}

func (s *Server) checkGateTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("check_gate",
		mcplib.WithDescription("Check one quality gate (coverage, mutation, trust, or budget) for a risk tier"),
		mcplib.WithString("kind",
			mcplib.Required(),
			mcplib.Description("Gate kind: coverage, mutation, trust, or budget"),
		),
		mcplib.WithNumber("tier",
			mcplib.Required(),
			mcplib.Description("The risk tier to gate against"),
		),
		mcplib.WithNumber("measured",
			mcplib.Description("The measured value (coverage, mutation, trust gates)"),
		),
		mcplib.WithNumber("files_changed",
			mcplib.Description("Files touched by the change (budget gate)"),
		),
		mcplib.WithNumber("loc_changed",
			mcplib.Description("Lines of code touched by the change (budget gate)"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleCheckGate,
	}
}

func (s *Server) handleGetPolicy(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	tier, ok := numberArg(req, "tier")
	if !ok {
		return mcplib.NewToolResultError("tier is required"), nil
	}
	p, err := s.registry.Policy(policy.RiskTier(int(tier)))
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("policy lookup failed", err), nil
	}
	return toolResultJSON(p)
}

func (s *Server) handleValidateSpec(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	specYAML, ok := stringArg(req, "spec_yaml")
	if !ok {
		return mcplib.NewToolResultError("spec_yaml is required"), nil
	}

	spec, err := workingspec.Parse([]byte(specYAML))
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("spec does not parse", err), nil
	}

	summary, err := s.validator.Validate(spec)
	if err != nil {
		var structural *workingspec.StructuralValidationError
		if errors.As(err, &structural) {
			return toolResultJSON(map[string]any{
				"valid":      false,
				"spec_id":    structural.SpecID,
				"violations": structural.Violations,
			})
		}
		return mcplib.NewToolResultErrorFromErr("validation failed", err), nil
	}

	return toolResultJSON(map[string]any{
		"valid":   true,
		"summary": summary,
	})
}

func (s *Server) handleComputeTrustScore(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	tier, ok := numberArg(req, "tier")
	if !ok {
		return mcplib.NewToolResultError("tier is required"), nil
	}
	resultsJSON, ok := stringArg(req, "results_json")
	if !ok {
		return mcplib.NewToolResultError("results_json is required"), nil
	}

	results, err := trust.ParseResults(strings.NewReader(resultsJSON))
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("results do not parse", err), nil
	}

	score, err := s.calculator.Score(policy.RiskTier(int(tier)), *results)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("trust score failed", err), nil
	}

	return toolResultJSON(map[string]any{
		"tier":  int(tier),
		"score": score,
	})
}

func (s *Server) handleCheckGate(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	kind, ok := stringArg(req, "kind")
	if !ok {
		return mcplib.NewToolResultError("kind is required"), nil
	}
	tier, ok := numberArg(req, "tier")
	if !ok {
		return mcplib.NewToolResultError("tier is required"), nil
	}

	var result *gate.Result
	var err error
	if gate.Kind(kind) == gate.KindBudget {
		files, filesOK := numberArg(req, "files_changed")
		loc, locOK := numberArg(req, "loc_changed")
		if !filesOK || !locOK {
			return mcplib.NewToolResultError("budget gate requires files_changed and loc_changed"), nil
		}
		result, err = s.enforcer.CheckBudget(policy.RiskTier(int(tier)), int(files), int(loc))
	} else {
		measured, measuredOK := numberArg(req, "measured")
		if !measuredOK {
			return mcplib.NewToolResultError("measured is required for scalar gates"), nil
		}
		result, err = s.enforcer.Check(gate.Kind(kind), policy.RiskTier(int(tier)), measured)
	}
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("gate check failed", err), nil
	}

	return toolResultJSON(result)
}

// stringArg extracts a string tool argument.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) { //nolint:gocritic // hugeParam: mcp-go request type
	v, ok := req.GetArguments()[name].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// numberArg extracts a numeric tool argument. JSON numbers arrive as float64.
func numberArg(req mcplib.CallToolRequest, name string) (float64, bool) { //nolint:gocritic // hugeParam: mcp-go request type
	v, ok := req.GetArguments()[name].(float64)
	return v, ok
}

// toolResultJSON marshals v and wraps it as a text tool result.
func toolResultJSON(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("marshal result", err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}
