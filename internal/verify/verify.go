// Package verify solves embedded scenarios and compares each plan with
// the scenario's ground truth. Scenarios run concurrently; each solve is
// independent and single-threaded.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gps/internal/format"
	"gps/internal/logging"
	"gps/internal/scenario"
	"gps/pkg/gps"
)

// Result is the outcome of verifying one scenario. Err holds load and
// build failures; a solver that finds no plan is not an error here, it is
// checked against the ground truth like any other outcome.
type Result struct {
	Scenario   string
	Plan       []string
	Expected   []string
	Unsolvable bool
	Elapsed    time.Duration
	Err        error
	Mismatch   string
}

// Passed reports whether the scenario verified clean.
func (r Result) Passed() bool { return r.Err == nil && r.Mismatch == "" }

// Run verifies the named scenarios, the whole catalog when names is
// empty, with up to parallel solves in flight.
func Run(ctx context.Context, names []string, parallel int) []Result {
	if len(names) == 0 {
		names = scenario.List()
	}
	if parallel < 1 {
		parallel = 1
	}
	logger := logging.New("verify")
	logger.Info("verifying scenarios", "count", len(names), "parallel", parallel)

	results := make([]Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			results[i] = runOne(gctx, name)
			return nil
		})
	}
	_ = g.Wait() // failures captured in Result.Err

	for _, r := range results {
		if !r.Passed() {
			logger.Warn("scenario failed", "scenario", r.Scenario, "mismatch", r.Mismatch, "error", r.Err)
		}
	}
	return results
}

func runOne(ctx context.Context, name string) Result {
	res := Result{Scenario: name}

	s, err := scenario.Load(name)
	if err != nil {
		res.Err = err
		return res
	}
	res.Expected = s.ExpectedPlan
	res.Unsolvable = s.Unsolvable

	p, err := s.Build(nil)
	if err != nil {
		res.Err = fmt.Errorf("build: %w", err)
		return res
	}

	start := time.Now()
	plan, err := p.Solver().Solve(ctx)
	res.Elapsed = time.Since(start)

	switch {
	case errors.Is(err, gps.ErrNoPlan):
		if !s.Unsolvable {
			res.Mismatch = fmt.Sprintf("no plan found, want %v", s.ExpectedPlan)
		}
	case err != nil:
		res.Err = err
	default:
		res.Plan = gps.PlanNames(plan)
		if s.Unsolvable {
			res.Mismatch = fmt.Sprintf("found plan %v for an unsolvable scenario", res.Plan)
		} else if !equalPlans(s.ExpectedPlan, res.Plan) {
			res.Mismatch = fmt.Sprintf("plan %v, want %v", res.Plan, s.ExpectedPlan)
		}
	}
	return res
}

func equalPlans(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// AllPassed reports whether every result verified clean.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed() {
			return false
		}
	}
	return true
}

// Summarize renders the results as a table with a pass total in the
// footer.
func Summarize(m format.Mode, results []Result) string {
	t := format.NewTable(m)
	t.Header("Scenario", "OK", "Outcome", "Elapsed")

	passed := 0
	for _, r := range results {
		outcome := strings.Join(r.Plan, ", ")
		switch {
		case r.Err != nil:
			outcome = format.Truncate("error: "+r.Err.Error(), 60)
		case r.Mismatch != "":
			outcome = format.Truncate(r.Mismatch, 60)
		case r.Unsolvable:
			outcome = "no plan, as expected"
		case len(r.Plan) == 0:
			outcome = "already satisfied"
		}
		if r.Passed() {
			passed++
		}
		t.Row(r.Scenario, format.BoolMark(r.Passed()), outcome, format.FmtDuration(r.Elapsed))
	}
	t.Footer("TOTAL", fmt.Sprintf("%d/%d", passed, len(results)), "", "")
	t.Columns(format.ColumnConfig{Number: 3, MaxWidth: 72})
	return t.String()
}
