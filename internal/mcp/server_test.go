package mcp_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	mcpserver "gps/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		for _, c := range res.Content {
			if tc, ok := c.(*sdkmcp.TextContent); ok {
				t.Fatalf("CallTool(%s) returned error: %s", name, tc.Text)
			}
		}
		t.Fatalf("CallTool(%s) returned error", name)
	}
	result := make(map[string]any)
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), &result); err != nil {
				t.Fatalf("unmarshal tool result: %v (text: %s)", err, tc.Text)
			}
			return result
		}
	}
	t.Fatalf("no text content in tool result")
	return nil
}

func stringSlice(t *testing.T, v any) []string {
	t.Helper()
	items, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			t.Fatalf("expected string element, got %T", item)
		}
		out = append(out, s)
	}
	return out
}

const flipYAML = `
name: flip-switch
start: [have-hand]
goals:
  - contains: light-on
operations:
  - name: flip-switch
    requires: [have-hand]
    adds: [light-on]
`

func TestServer_ToolDiscovery(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{
		"solve_problem":  false,
		"run_scenario":   false,
		"list_scenarios": false,
	}
	for _, tool := range tools.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %q not found in ListTools", name)
		}
	}
}

func TestServer_SolveProblem(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "solve_problem", map[string]any{
		"problem_yaml": flipYAML,
		"timeout_ms":   5000,
	})

	if solvable, _ := result["solvable"].(bool); !solvable {
		t.Fatalf("expected solvable=true, got %v", result)
	}
	plan := stringSlice(t, result["plan"])
	if len(plan) != 1 || plan[0] != "flip-switch" {
		t.Errorf("plan = %v, want [flip-switch]", plan)
	}

	final := stringSlice(t, result["final_state"])
	want := map[string]bool{"have-hand": false, "light-on": false}
	for _, f := range final {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, found := range want {
		if !found {
			t.Errorf("final_state missing %q: %v", f, final)
		}
	}
}

func TestServer_SolveProblem_NoPlan(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	const stuckYAML = `
name: stuck
start: [have-hand]
goals:
  - contains: light-on
operations:
  - name: wave
    requires: [have-hand]
    adds: [hand-waved]
`
	result := callTool(t, ctx, session, "solve_problem", map[string]any{
		"problem_yaml": stuckYAML,
	})

	if solvable, _ := result["solvable"].(bool); solvable {
		t.Fatalf("expected solvable=false, got %v", result)
	}
	if _, hasPlan := result["plan"]; hasPlan {
		t.Errorf("expected no plan field for unsolvable problem, got %v", result["plan"])
	}
}

func TestServer_SolveProblem_InvalidYAML(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "solve_problem",
		Arguments: map[string]any{
			"problem_yaml": "not valid yaml: [unclosed",
		},
	})
	if err != nil {
		t.Fatalf("expected tool error, got transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError=true for invalid YAML")
	}
}

func TestServer_SolveProblem_MissingYAML(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "solve_problem",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("expected tool error, got transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError=true for missing problem_yaml")
	}
}

func TestServer_RunScenario(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "run_scenario", map[string]any{
		"name": "school-run",
	})

	if match, _ := result["match"].(bool); !match {
		t.Fatalf("expected match=true, got %v", result)
	}
	plan := stringSlice(t, result["plan"])
	expected := stringSlice(t, result["expected_plan"])
	if len(plan) == 0 || len(plan) != len(expected) {
		t.Fatalf("plan = %v, expected_plan = %v", plan, expected)
	}
	if plan[len(plan)-1] != "drive-son-to-school" {
		t.Errorf("last step = %q, want drive-son-to-school", plan[len(plan)-1])
	}
}

func TestServer_RunScenario_Unsolvable(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "run_scenario", map[string]any{
		"name": "missing-phone-book",
	})

	if match, _ := result["match"].(bool); !match {
		t.Fatalf("expected match=true, got %v", result)
	}
	if unsolvable, _ := result["unsolvable"].(bool); !unsolvable {
		t.Errorf("expected unsolvable=true, got %v", result)
	}
	if _, hasPlan := result["plan"]; hasPlan {
		t.Errorf("expected no plan field, got %v", result["plan"])
	}
}

func TestServer_RunScenario_Unknown(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "run_scenario",
		Arguments: map[string]any{"name": "no-such-scenario"},
	})
	if err != nil {
		t.Fatalf("expected tool error, got transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError=true for unknown scenario")
	}
}

func TestServer_ListScenarios(t *testing.T) {
	srv := mcpserver.NewServer("test")
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "list_scenarios", map[string]any{})

	total, _ := result["total"].(float64)
	if total < 1 {
		t.Fatalf("expected total >= 1, got %v", total)
	}
	scenarios, ok := result["scenarios"].([]any)
	if !ok || len(scenarios) != int(total) {
		t.Fatalf("expected %v scenario entries, got %d", total, len(scenarios))
	}

	found := false
	for _, s := range scenarios {
		entry, ok := s.(map[string]any)
		if !ok {
			continue
		}
		if entry["name"] == "school-run" {
			found = true
			if ops, _ := entry["operations"].(float64); ops != 6 {
				t.Errorf("school-run operations = %v, want 6", ops)
			}
		}
	}
	if !found {
		t.Error("school-run not found in list_scenarios")
	}
}
