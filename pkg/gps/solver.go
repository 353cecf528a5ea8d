package gps

import (
	"context"
	"log/slog"
)

// Solver searches for a plan: an ordered sequence of operations carrying
// an initial state to one satisfying every goal. Registration order is
// priority order; the first satisfying plan wins, depth-first. A Solver is
// immutable after construction and holds nothing between calls, so
// repeated or concurrent Solve calls are independent.
type Solver struct {
	operations []*Operation
	goals      []Condition
	initial    *StateSet
	log        *slog.Logger
}

// SolverOption configures a Solver during construction.
type SolverOption func(*Solver)

// WithLogger attaches a logger. The solver narrates decision points at
// debug level: candidates tried, cycles hit, protection exclusions. By
// default the narration is discarded.
func WithLogger(log *slog.Logger) SolverOption {
	return func(s *Solver) {
		s.log = log
	}
}

// NewSolver constructs a Solver over the given operation registry, goal
// conditions, and initial state. All three are copied; the caller's
// slices and state stay untouched by the search.
func NewSolver(operations []*Operation, goals []Condition, initial *StateSet, opts ...SolverOption) *Solver {
	s := &Solver{
		operations: append([]*Operation(nil), operations...),
		goals:      append([]Condition(nil), goals...),
		initial:    initial.Clone(),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs the search and returns the plan in application order. An
// already-satisfied goal set yields an empty plan. When no plan exists the
// error is ErrNoPlan, deliberately without diagnostic detail. The context
// is checked at goal expansion points; a search cut short by cancellation
// or deadline returns the context's error, never a partial plan.
func (s *Solver) Solve(ctx context.Context) ([]*Operation, error) {
	run := &search{
		ctx:       ctx,
		registry:  s.operations,
		protected: NewConditionSet(),
		log:       s.log,
	}
	s.log.Debug("solving", "goals", len(s.goals), "operations", len(s.operations))
	_, plan, ok := run.solveAll(s.goals, s.initial)
	if ok {
		s.log.Debug("plan found", "steps", len(plan))
		return plan, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Debug("no plan")
	return nil, ErrNoPlan
}

// search carries the recursion-scoped context of one Solve call: the goal
// stack guarding against cyclic goal pursuit and the protection ledger
// holding goals that must survive the rest of the search. Both live
// exactly as long as the call.
type search struct {
	ctx       context.Context
	registry  []*Operation
	goalStack []Condition
	protected *ConditionSet
	log       *slog.Logger
}

// solveAll solves a goal group against states. It returns the resulting
// state and the operations applied, in order. Neither solveAll nor
// solveOne ever mutates the state it receives; the state either of them
// returns is owned by the caller and safe to mutate.
//
// Goals already true on entry are filed as protections for the span of
// this call, so solving a later goal cannot silently undo an earlier one;
// the protections are withdrawn on every exit path. Because one solution
// may still clobber a goal this same call solved earlier, the whole group
// is re-checked against the final state before success is declared.
func (r *search) solveAll(goals []Condition, states *StateSet) (*StateSet, []*Operation, bool) {
	if states.Satisfies(goals) {
		return states.Clone(), nil, true
	}

	var unmet, held []Condition
	for _, g := range goals {
		if g.Check(states) {
			r.protected.Insert(g)
			held = append(held, g)
		} else {
			unmet = append(unmet, g)
		}
	}
	defer func() {
		for _, g := range held {
			r.protected.Remove(g)
		}
	}()

	current := states.Clone()
	var plan []*Operation
	for _, g := range unmet {
		next, ops, ok := r.solveOne(g, current)
		if !ok {
			return nil, nil, false
		}
		current = next
		plan = append(plan, ops...)
	}

	if !current.Satisfies(goals) {
		r.log.Debug("goal group regressed", "goals", len(goals))
		return nil, nil, false
	}
	return current, plan, true
}

// solveOne solves a single goal. A goal already on the goal stack fails
// immediately: pursuing it again could only recurse forever. Otherwise
// candidates are tried in registration order and the first that can be
// made runnable wins.
func (r *search) solveOne(goal Condition, states *StateSet) (*StateSet, []*Operation, bool) {
	if goal.Check(states) {
		return states.Clone(), nil, true
	}
	if r.ctx.Err() != nil {
		return nil, nil, false
	}
	if r.onStack(goal) {
		r.log.Debug("goal cycle", "goal", goal)
		return nil, nil, false
	}

	r.goalStack = append(r.goalStack, goal)
	defer func() {
		r.goalStack = r.goalStack[:len(r.goalStack)-1]
	}()

	for _, op := range r.findValidOperations(goal, states) {
		r.log.Debug("trying operation", "goal", goal, "operation", op.Name())
		if next, plan, ok := r.applyOperation(op, states); ok {
			return next, plan, true
		}
	}
	return nil, nil, false
}

// findValidOperations returns the registered operations whose effects are
// of the kind that could make goal true, in registration order, excluding
// any whose effects would disturb a filed protection.
func (r *search) findValidOperations(goal Condition, states *StateSet) []*Operation {
	var candidates []*Operation
	for _, op := range r.registry {
		if !op.achieves(goal) {
			continue
		}
		if op.affects(states, r.protected) {
			r.log.Debug("operation excluded by protections", "operation", op.Name())
			continue
		}
		candidates = append(candidates, op)
	}
	return candidates
}

// applyOperation makes op runnable and runs it: solve its prerequisites
// from states, apply its effects to the resulting state, and append it to
// the plan built by the prerequisite solve.
func (r *search) applyOperation(op *Operation, states *StateSet) (*StateSet, []*Operation, bool) {
	next, plan, ok := r.solveAll(op.requires, states)
	if !ok {
		return nil, nil, false
	}
	op.Apply(next)
	return next, append(plan, op), true
}

func (r *search) onStack(goal Condition) bool {
	for _, g := range r.goalStack {
		if g == goal {
			return true
		}
	}
	return false
}

// PlanNames returns the operation names of a plan, in order.
func PlanNames(plan []*Operation) []string {
	names := make([]string, len(plan))
	for i, op := range plan {
		names[i] = op.Name()
	}
	return names
}
