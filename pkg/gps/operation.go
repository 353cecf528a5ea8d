package gps

// ModifyFunc transforms a fact's value. Implementations must be pure and
// total: no state reads, no failure path, defined for both variants. The
// solver calls a ModifyFunc speculatively during interference analysis, so
// an impure function would corrupt the search.
type ModifyFunc func(Value) Value

// Modification pairs a target fact with the transformation applied to it.
// Functions have no useful equality, so only the fact name participates in
// candidate filtering.
type Modification struct {
	fact string
	fn   ModifyFunc
}

// Fact returns the name of the fact the modification rewrites.
func (m Modification) Fact() string { return m.fact }

// Operation is a named, parameterless action: prerequisites that must hold
// before it runs, and effects that transform the state when it does.
// Operations are immutable once built and shared by pointer; a plan is a
// slice of pointers into the registry, never copies.
type Operation struct {
	name     string
	requires []Condition
	adds     []Fact
	removes  []string
	modifies []Modification
}

// OperationBuilder assembles an Operation. Effects within each kind apply
// in the order they were declared.
type OperationBuilder struct {
	op Operation
}

// NewOperation starts a builder for an operation with the given name.
func NewOperation(name string) *OperationBuilder {
	return &OperationBuilder{op: Operation{name: name}}
}

// Require appends a prerequisite condition.
func (b *OperationBuilder) Require(c Condition) *OperationBuilder {
	b.op.requires = append(b.op.requires, c)
	return b
}

// Add appends an add-effect: the fact is inserted, overwriting any value
// already held under its name.
func (b *OperationBuilder) Add(f Fact) *OperationBuilder {
	b.op.adds = append(b.op.adds, f)
	return b
}

// Remove appends a remove-effect for the named fact.
func (b *OperationBuilder) Remove(name string) *OperationBuilder {
	b.op.removes = append(b.op.removes, name)
	return b
}

// Modify appends a modify-effect: fn rewrites the value of the named fact.
func (b *OperationBuilder) Modify(fact string, fn ModifyFunc) *OperationBuilder {
	b.op.modifies = append(b.op.modifies, Modification{fact: fact, fn: fn})
	return b
}

// Build freezes the operation. The returned Operation owns copies of the
// builder's slices, so reusing the builder afterwards cannot disturb it.
func (b *OperationBuilder) Build() *Operation {
	return &Operation{
		name:     b.op.name,
		requires: append([]Condition(nil), b.op.requires...),
		adds:     append([]Fact(nil), b.op.adds...),
		removes:  append([]string(nil), b.op.removes...),
		modifies: append([]Modification(nil), b.op.modifies...),
	}
}

// Name returns the operation's name.
func (o *Operation) Name() string { return o.name }

// Requires returns a copy of the prerequisite conditions.
func (o *Operation) Requires() []Condition {
	return append([]Condition(nil), o.requires...)
}

// Adds returns a copy of the add-effects.
func (o *Operation) Adds() []Fact {
	return append([]Fact(nil), o.adds...)
}

// Removes returns a copy of the remove-effect fact names.
func (o *Operation) Removes() []string {
	return append([]string(nil), o.removes...)
}

// Modifies returns a copy of the modify-effects.
func (o *Operation) Modifies() []Modification {
	return append([]Modification(nil), o.modifies...)
}

func (o *Operation) String() string { return o.name }

// Apply writes the operation's effects into states, in fixed order: every
// add (insert or overwrite), then every remove, then each modification. A
// modification whose target fact is absent is skipped silently.
func (o *Operation) Apply(states *StateSet) {
	for _, f := range o.adds {
		states.Insert(f)
	}
	for _, name := range o.removes {
		states.Remove(name)
	}
	for _, m := range o.modifies {
		if v, ok := states.Get(m.fact); ok {
			states.Insert(Fact{Name: m.fact, Value: m.fn(v)})
		}
	}
}

// achieves reports whether one of the operation's effects is of the kind
// that could make goal true: an add of the goal's fact for a presence
// goal, a remove for an absence goal, a modification for a comparison
// goal. Whether the effect actually delivers the goal is settled later by
// prerequisite solving and the group re-check.
func (o *Operation) achieves(goal Condition) bool {
	switch goal.kind {
	case condContain:
		for _, f := range o.adds {
			if f.Name == goal.fact {
				return true
			}
		}
	case condNotContain:
		for _, name := range o.removes {
			if name == goal.fact {
				return true
			}
		}
	default:
		for _, m := range o.modifies {
			if m.fact == goal.fact {
				return true
			}
		}
	}
	return false
}

// affects reports whether applying the operation would disturb a filed
// protection. An add-effect clashes with an absence protection on the
// added fact. A remove-effect clashes with a presence or comparison
// protection on the removed fact. A modify-effect is simulated against the
// fact's current value and clashes when any protection on that fact
// rejects the result; an absent target is skipped, mirroring Apply. The
// simulation is forward-looking: it rejects an operation even when every
// protection still holds in the live state.
func (o *Operation) affects(states *StateSet, protected *ConditionSet) bool {
	for _, f := range o.adds {
		for _, c := range protected.Get(f.Name) {
			if c.kind == condNotContain {
				return true
			}
		}
	}
	for _, name := range o.removes {
		for _, c := range protected.Get(name) {
			if c.kind == condContain || c.kind == condCompare {
				return true
			}
		}
	}
	for _, m := range o.modifies {
		v, ok := states.Get(m.fact)
		if !ok {
			continue
		}
		next := m.fn(v)
		for _, c := range protected.Get(m.fact) {
			if !c.checkValue(next) {
				return true
			}
		}
	}
	return false
}
