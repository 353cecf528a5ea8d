package gps

import "fmt"

// Operator is a comparison over fact values. Equal and NotEqual follow the
// total equality law, so values of different variants are simply unequal.
// The four ordering operators evaluate through the partial ordering of
// Value: when the ordering between two values is undefined (they are
// different variants), the operator is unsatisfied.
type Operator uint8

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
)

// ParseOperator maps a comparison token to its Operator. The grammar is
// exactly ==, !=, >, >=, <, <=; anything else fails with ErrInvalidOperator.
func ParseOperator(tok string) (Operator, error) {
	switch tok {
	case "==":
		return OpEqual, nil
	case "!=":
		return OpNotEqual, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterEqual, nil
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessEqual, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperator, tok)
}

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	}
	return "?"
}

// eval applies the operator to a against b.
func (op Operator) eval(a, b Value) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	}
	cmp, ok := a.compare(b)
	if !ok {
		return false
	}
	switch op {
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// conditionKind discriminates the closed set of condition forms.
type conditionKind uint8

const (
	condContain conditionKind = iota
	condNotContain
	condCompare
)

// Condition is a predicate over a world state: presence of a fact, absence
// of a fact, or a comparison against a fact's value. Conditions serve both
// as goals and as operation prerequisites. They are small comparable
// values; == is their identity, used when protections are withdrawn.
type Condition struct {
	kind  conditionKind
	id    string
	fact  string
	op    Operator
	value Value
}

// Contain returns a condition satisfied when the named fact is present,
// whatever its value.
func Contain(name string) Condition {
	return Condition{kind: condContain, id: name, fact: name}
}

// NotContain returns a condition satisfied when the named fact is absent.
func NotContain(name string) Condition {
	return Condition{kind: condNotContain, id: name, fact: name}
}

// Compare returns a condition satisfied when the named fact is present and
// its value stands in the given relation to value. id names the condition
// independently of the fact it examines; two distinct comparisons over the
// same fact stay distinguishable through it.
func Compare(id, fact string, op Operator, value Value) Condition {
	return Condition{kind: condCompare, id: id, fact: fact, op: op, value: value}
}

// ID returns the condition's identity.
func (c Condition) ID() string { return c.id }

// Fact returns the name of the fact the condition examines. The solver's
// protection ledger indexes conditions under this name, so an operation's
// effect on a fact can be checked against every condition watching it.
func (c Condition) Fact() string { return c.fact }

// Check evaluates the condition against a state. Presence and comparison
// conditions fail when the examined fact is absent; absence conditions
// succeed exactly then.
func (c Condition) Check(states *StateSet) bool {
	if c.kind == condNotContain {
		return !states.Contains(c.fact)
	}
	v, ok := states.Get(c.fact)
	if !ok {
		return false
	}
	return c.checkValue(v)
}

// checkValue evaluates the condition against a bare value, as if the
// examined fact held it. Interference analysis uses this to test a
// protection against the hypothetical result of an effect; NotContain is
// constant false here because a value in hand means the fact is present.
func (c Condition) checkValue(v Value) bool {
	switch c.kind {
	case condContain:
		return true
	case condNotContain:
		return false
	default:
		return c.op.eval(v, c.value)
	}
}

func (c Condition) String() string {
	switch c.kind {
	case condContain:
		return "contains(" + c.fact + ")"
	case condNotContain:
		return "absent(" + c.fact + ")"
	default:
		return fmt.Sprintf("%s(%s %s %s)", c.id, c.fact, c.op, c.value)
	}
}

// ConditionSet indexes conditions by the fact they examine. The solver
// uses it as the protection ledger: a goal observed satisfied on entry to
// a goal group is filed here for the span of that group, and candidate
// operations whose effects would disturb a filed condition are rejected.
type ConditionSet struct {
	byFact map[string][]Condition
}

// NewConditionSet returns an empty ConditionSet.
func NewConditionSet() *ConditionSet {
	return &ConditionSet{byFact: make(map[string][]Condition)}
}

// Insert files the condition under the fact it examines. Duplicates
// accumulate; each Insert is balanced by one Remove.
func (cs *ConditionSet) Insert(c Condition) {
	cs.byFact[c.fact] = append(cs.byFact[c.fact], c)
}

// Remove withdraws every filed condition equal to c.
func (cs *ConditionSet) Remove(c Condition) {
	conds, ok := cs.byFact[c.fact]
	if !ok {
		return
	}
	kept := conds[:0]
	for _, have := range conds {
		if have != c {
			kept = append(kept, have)
		}
	}
	if len(kept) == 0 {
		delete(cs.byFact, c.fact)
		return
	}
	cs.byFact[c.fact] = kept
}

// Get returns the conditions filed under the named fact.
func (cs *ConditionSet) Get(fact string) []Condition {
	return cs.byFact[fact]
}

// Len returns the number of filed conditions.
func (cs *ConditionSet) Len() int {
	n := 0
	for _, conds := range cs.byFact {
		n += len(conds)
	}
	return n
}
