// Package problem declares the YAML surface for planning problems: the
// starting facts, the goal conditions, and the operation registry in
// priority order. A definition is loaded, validated, and built into the
// solver-ready types of pkg/gps; modify-effects are resolved through a
// modifier registry so YAML stays declarative while effect functions stay
// code.
package problem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gps/pkg/gps"
)

// Def is the top-level structure declaring a planning problem.
type Def struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Start       []FactDef      `yaml:"start,omitempty"`
	Goals       []ConditionDef `yaml:"goals"`
	Operations  []OperationDef `yaml:"operations,omitempty"`
}

// FactDef declares one fact. A bare string is a symbol fact; a mapping
// with a value is an integer fact.
type FactDef struct {
	Name  string `yaml:"name"`
	Value *int   `yaml:"value,omitempty"`
}

// UnmarshalYAML accepts either a scalar fact name or the full mapping.
func (f *FactDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&f.Name)
	}
	type plain FactDef
	return node.Decode((*plain)(f))
}

// Fact converts the definition to its fact.
func (f FactDef) Fact() gps.Fact {
	if f.Value != nil {
		return gps.Integer(f.Name, *f.Value)
	}
	return gps.Symbol(f.Name)
}

// ConditionDef declares a goal or prerequisite. Exactly one of the three
// forms must be set; a bare string is shorthand for contains.
type ConditionDef struct {
	Contains string      `yaml:"contains,omitempty"`
	Absent   string      `yaml:"absent,omitempty"`
	Compare  *CompareDef `yaml:"compare,omitempty"`
}

// UnmarshalYAML accepts either a scalar fact name, read as a contains
// condition, or the full mapping.
func (c *ConditionDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Contains)
	}
	type plain ConditionDef
	return node.Decode((*plain)(c))
}

// CompareDef declares a comparison condition over an integer-valued fact.
// ID defaults to the fact name when omitted.
type CompareDef struct {
	ID    string `yaml:"id,omitempty"`
	Fact  string `yaml:"fact"`
	Op    string `yaml:"op"`
	Value int    `yaml:"value"`
}

// Condition converts the definition, checking that exactly one form is
// set and that a comparison carries a valid operator token.
func (c ConditionDef) Condition() (gps.Condition, error) {
	set := 0
	if c.Contains != "" {
		set++
	}
	if c.Absent != "" {
		set++
	}
	if c.Compare != nil {
		set++
	}
	if set != 1 {
		return gps.Condition{}, fmt.Errorf("condition must set exactly one of contains, absent, compare")
	}

	switch {
	case c.Contains != "":
		return gps.Contain(c.Contains), nil
	case c.Absent != "":
		return gps.NotContain(c.Absent), nil
	default:
		if c.Compare.Fact == "" {
			return gps.Condition{}, fmt.Errorf("compare condition requires a fact")
		}
		op, err := gps.ParseOperator(c.Compare.Op)
		if err != nil {
			return gps.Condition{}, fmt.Errorf("compare on %q: %w", c.Compare.Fact, err)
		}
		id := c.Compare.ID
		if id == "" {
			id = c.Compare.Fact
		}
		return gps.Compare(id, c.Compare.Fact, op, gps.IntegerValue(c.Compare.Value)), nil
	}
}

// OperationDef declares an operation. Definition order is registration
// order: the solver tries earlier operations first.
type OperationDef struct {
	Name     string         `yaml:"name"`
	Requires []ConditionDef `yaml:"requires,omitempty"`
	Adds     []FactDef      `yaml:"adds,omitempty"`
	Removes  []string       `yaml:"removes,omitempty"`
	Modifies []ModifyDef    `yaml:"modifies,omitempty"`
}

// ModifyDef declares a modify-effect: a registered modifier applied to a
// fact with an integer operand.
type ModifyDef struct {
	Fact  string `yaml:"fact"`
	Op    string `yaml:"op"`
	Value int    `yaml:"value,omitempty"`
}

// ModifierRegistry maps modifier names to effect-function factories. The
// operand comes from the ModifyDef declaration.
type ModifierRegistry map[string]func(operand int) gps.ModifyFunc

// DefaultModifiers returns the built-in modifier set:
//   - add: integer addition; symbol values pass through unchanged
//   - set: replace the value with the operand, whatever it was
func DefaultModifiers() ModifierRegistry {
	return ModifierRegistry{
		"add": func(n int) gps.ModifyFunc {
			return func(v gps.Value) gps.Value {
				if cur, ok := v.Int(); ok {
					return gps.IntegerValue(cur + n)
				}
				return v
			}
		},
		"set": func(n int) gps.ModifyFunc {
			return func(gps.Value) gps.Value {
				return gps.IntegerValue(n)
			}
		},
	}
}

// Load parses a YAML problem definition.
func Load(data []byte) (*Def, error) {
	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse problem YAML: %w", err)
	}
	return &def, nil
}

// LoadFile reads and parses a problem definition from disk.
func LoadFile(path string) (*Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem file: %w", err)
	}
	return Load(data)
}

// MarshalYAML serializes the definition back to YAML.
func (def *Def) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(def)
}

// Validate checks structural integrity of the definition:
//   - problem name is non-empty
//   - at least one goal exists
//   - every condition sets exactly one form with a valid operator
//   - operation names are non-empty and unique
//   - every fact reference inside effects carries a name
//
// Modifier names are resolved later, by Build, against a registry.
func (def *Def) Validate() error {
	if def.Name == "" {
		return fmt.Errorf("problem name is required")
	}
	if len(def.Goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	for i, f := range def.Start {
		if f.Name == "" {
			return fmt.Errorf("start fact %d has no name", i)
		}
	}
	for i, g := range def.Goals {
		if _, err := g.Condition(); err != nil {
			return fmt.Errorf("goal %d: %w", i, err)
		}
	}

	names := make(map[string]bool, len(def.Operations))
	for _, od := range def.Operations {
		if od.Name == "" {
			return fmt.Errorf("operation name is required")
		}
		if names[od.Name] {
			return fmt.Errorf("duplicate operation name %q", od.Name)
		}
		names[od.Name] = true

		for i, r := range od.Requires {
			if _, err := r.Condition(); err != nil {
				return fmt.Errorf("operation %q requirement %d: %w", od.Name, i, err)
			}
		}
		for i, a := range od.Adds {
			if a.Name == "" {
				return fmt.Errorf("operation %q add %d has no fact name", od.Name, i)
			}
		}
		for i, rm := range od.Removes {
			if rm == "" {
				return fmt.Errorf("operation %q remove %d has no fact name", od.Name, i)
			}
		}
		for i, m := range od.Modifies {
			if m.Fact == "" {
				return fmt.Errorf("operation %q modify %d has no fact name", od.Name, i)
			}
			if m.Op == "" {
				return fmt.Errorf("operation %q modify %d has no modifier", od.Name, i)
			}
		}
	}
	return nil
}

// Problem is a built, solver-ready problem.
type Problem struct {
	Name        string
	Description string
	Initial     *gps.StateSet
	Goals       []gps.Condition
	Operations  []*gps.Operation
}

// Build constructs a Problem from the definition using the provided
// modifier registry; nil means DefaultModifiers.
func (def *Def) Build(reg ModifierRegistry) (*Problem, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if reg == nil {
		reg = DefaultModifiers()
	}

	facts := make([]gps.Fact, 0, len(def.Start))
	for _, f := range def.Start {
		facts = append(facts, f.Fact())
	}

	goals := make([]gps.Condition, 0, len(def.Goals))
	for _, g := range def.Goals {
		cond, err := g.Condition()
		if err != nil {
			return nil, fmt.Errorf("goal: %w", err)
		}
		goals = append(goals, cond)
	}

	ops := make([]*gps.Operation, 0, len(def.Operations))
	for _, od := range def.Operations {
		b := gps.NewOperation(od.Name)
		for _, r := range od.Requires {
			cond, err := r.Condition()
			if err != nil {
				return nil, fmt.Errorf("operation %q: %w", od.Name, err)
			}
			b.Require(cond)
		}
		for _, a := range od.Adds {
			b.Add(a.Fact())
		}
		for _, rm := range od.Removes {
			b.Remove(rm)
		}
		for _, m := range od.Modifies {
			factory, ok := reg[m.Op]
			if !ok {
				return nil, fmt.Errorf("no modifier %q (operation %q)", m.Op, od.Name)
			}
			b.Modify(m.Fact, factory(m.Value))
		}
		ops = append(ops, b.Build())
	}

	return &Problem{
		Name:        def.Name,
		Description: def.Description,
		Initial:     gps.NewStateSet(facts...),
		Goals:       goals,
		Operations:  ops,
	}, nil
}

// Solver returns a solver over the built problem.
func (p *Problem) Solver(opts ...gps.SolverOption) *gps.Solver {
	return gps.NewSolver(p.Operations, p.Goals, p.Initial, opts...)
}
