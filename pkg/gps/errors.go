package gps

import "errors"

var (
	// ErrNoPlan is returned by Solve when no operation sequence reaches the
	// goals. The failure is deliberately undifferentiated: an exhausted
	// candidate list, an unsatisfiable prerequisite, a goal cycle, and a
	// protected-goal clash all collapse into it.
	ErrNoPlan = errors.New("gps: no plan found")

	// ErrInvalidOperator is returned by ParseOperator for a token outside
	// the comparison grammar.
	ErrInvalidOperator = errors.New("gps: invalid comparison operator")
)
