// Package mcp exposes the planner over the Model Context Protocol so agent
// hosts can solve ad-hoc problems and replay the scenario catalog as tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"gps/internal/logging"
	"gps/internal/problem"
	"gps/internal/scenario"
	"gps/internal/verify"
	"gps/pkg/gps"
)

// Server wraps the MCP SDK server with the planner tools registered. Every
// tool is stateless; each call loads, builds, and solves on its own.
type Server struct {
	MCPServer *sdkmcp.Server

	log *slog.Logger
}

// NewServer creates a gps MCP server. The caller runs it with
// s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{}).
func NewServer(version string) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "gps", Version: version},
			nil,
		),
		log: logging.New("mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "solve_problem",
		Description: "Solve a planning problem given as YAML. Returns the plan and the world state after executing it.",
	}, s.handleSolveProblem)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_scenario",
		Description: "Solve one embedded scenario and compare the plan against its recorded ground truth.",
	}, s.handleRunScenario)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_scenarios",
		Description: "List the embedded scenarios with their goal and operation counts and whether each is solvable.",
	}, s.handleListScenarios)
}

// --- Tool input/output types ---

type solveProblemInput struct {
	ProblemYAML string `json:"problem_yaml" jsonschema:"planning problem in the gps problem YAML format"`
	TimeoutMS   int    `json:"timeout_ms,omitempty" jsonschema:"solve timeout in milliseconds (default none)"`
}

type solveProblemOutput struct {
	Problem    string   `json:"problem"`
	Solvable   bool     `json:"solvable"`
	Plan       []string `json:"plan,omitempty"`
	FinalState []string `json:"final_state,omitempty"`
}

type runScenarioInput struct {
	Name string `json:"name" jsonschema:"scenario name from list_scenarios"`
}

type runScenarioOutput struct {
	Scenario     string   `json:"scenario"`
	Plan         []string `json:"plan,omitempty"`
	ExpectedPlan []string `json:"expected_plan,omitempty"`
	Unsolvable   bool     `json:"unsolvable,omitempty"`
	Match        bool     `json:"match"`
	Mismatch     string   `json:"mismatch,omitempty"`
	ElapsedMS    int64    `json:"elapsed_ms"`
}

type listScenariosInput struct{}

type scenarioSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Goals       int    `json:"goals"`
	Operations  int    `json:"operations"`
	Unsolvable  bool   `json:"unsolvable,omitempty"`
}

type listScenariosOutput struct {
	Scenarios []scenarioSummary `json:"scenarios"`
	Total     int               `json:"total"`
}

// --- Tool handlers ---

func (s *Server) handleSolveProblem(ctx context.Context, _ *sdkmcp.CallToolRequest, input solveProblemInput) (*sdkmcp.CallToolResult, solveProblemOutput, error) {
	if input.ProblemYAML == "" {
		return nil, solveProblemOutput{}, fmt.Errorf("problem_yaml is required")
	}

	def, err := problem.Load([]byte(input.ProblemYAML))
	if err != nil {
		return nil, solveProblemOutput{}, err
	}
	p, err := def.Build(nil)
	if err != nil {
		return nil, solveProblemOutput{}, err
	}

	if input.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(input.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	plan, err := p.Solver(gps.WithLogger(logging.New("solver"))).Solve(ctx)
	out := solveProblemOutput{Problem: p.Name}
	switch {
	case errors.Is(err, gps.ErrNoPlan):
		s.log.Info("no plan found", "problem", p.Name)
	case err != nil:
		return nil, solveProblemOutput{}, err
	default:
		out.Solvable = true
		out.Plan = gps.PlanNames(plan)
		out.FinalState = finalState(p.Initial, plan)
		s.log.Info("problem solved", "problem", p.Name, "steps", len(plan))
	}
	return nil, out, nil
}

func (s *Server) handleRunScenario(ctx context.Context, _ *sdkmcp.CallToolRequest, input runScenarioInput) (*sdkmcp.CallToolResult, runScenarioOutput, error) {
	if input.Name == "" {
		return nil, runScenarioOutput{}, fmt.Errorf("name is required")
	}

	r := verify.Run(ctx, []string{input.Name}, 1)[0]
	if r.Err != nil {
		return nil, runScenarioOutput{}, r.Err
	}
	return nil, runScenarioOutput{
		Scenario:     r.Scenario,
		Plan:         r.Plan,
		ExpectedPlan: r.Expected,
		Unsolvable:   r.Unsolvable,
		Match:        r.Passed(),
		Mismatch:     r.Mismatch,
		ElapsedMS:    r.Elapsed.Milliseconds(),
	}, nil
}

func (s *Server) handleListScenarios(_ context.Context, _ *sdkmcp.CallToolRequest, _ listScenariosInput) (*sdkmcp.CallToolResult, listScenariosOutput, error) {
	names := scenario.List()
	out := listScenariosOutput{
		Scenarios: make([]scenarioSummary, 0, len(names)),
		Total:     len(names),
	}
	for _, name := range names {
		sc, err := scenario.Load(name)
		if err != nil {
			return nil, listScenariosOutput{}, err
		}
		out.Scenarios = append(out.Scenarios, scenarioSummary{
			Name:        sc.Name,
			Description: sc.Description,
			Goals:       len(sc.Goals),
			Operations:  len(sc.Operations),
			Unsolvable:  sc.Unsolvable,
		})
	}
	return nil, out, nil
}

// finalState replays the plan over a copy of the initial state and returns
// the resulting facts in sorted order.
func finalState(initial *gps.StateSet, plan []*gps.Operation) []string {
	states := initial.Clone()
	for _, op := range plan {
		op.Apply(states)
	}
	facts := states.Facts()
	out := make([]string, len(facts))
	for i, f := range facts {
		out[i] = f.String()
	}
	return out
}
