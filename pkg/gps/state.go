// Package gps implements a STRIPS-style means-ends planner. A world is a
// set of named facts, each carrying a symbolic or integer value. Operations
// declare prerequisites over that world and effects that transform it. The
// solver searches depth-first, in operation registration order, for an
// ordered sequence of operations that makes every goal condition true
// without undoing goals already achieved along the way.
package gps

import (
	"sort"
	"strconv"
	"strings"
)

// valueKind discriminates the variants of Value. The set is closed:
// evaluation and interference analysis switch over it exhaustively.
type valueKind uint8

const (
	kindSymbol valueKind = iota
	kindInteger
)

// Value is the payload of a fact: either a bare symbol, whose only
// information is the presence of the fact that carries it, or an integer.
// Values are immutable and comparable; two values are equal when they are
// the same variant with the same payload. Symbol never equals Integer.
type Value struct {
	kind valueKind
	n    int
}

// SymbolValue returns the presence-only value.
func SymbolValue() Value { return Value{kind: kindSymbol} }

// IntegerValue returns an integer-carrying value.
func IntegerValue(n int) Value { return Value{kind: kindInteger, n: n} }

// IsSymbol reports whether the value is the symbol variant.
func (v Value) IsSymbol() bool { return v.kind == kindSymbol }

// IsInteger reports whether the value is the integer variant.
func (v Value) IsInteger() bool { return v.kind == kindInteger }

// Int returns the integer payload. ok is false for symbol values.
func (v Value) Int() (int, bool) {
	if v.kind != kindInteger {
		return 0, false
	}
	return v.n, true
}

// Equal reports whether two values are the same variant with equal payloads.
func (v Value) Equal(o Value) bool { return v == o }

// compare orders two values. ok is false when the ordering is undefined,
// which is the case across variants; relational operators treat an
// undefined ordering as "not satisfied". Within the integer variant the
// ordering is the usual one; a symbol is only ever equal to a symbol.
func (v Value) compare(o Value) (cmp int, ok bool) {
	if v.kind != o.kind {
		return 0, false
	}
	if v.kind == kindInteger {
		switch {
		case v.n < o.n:
			return -1, true
		case v.n > o.n:
			return 1, true
		}
	}
	return 0, true
}

func (v Value) String() string {
	if v.kind == kindInteger {
		return strconv.Itoa(v.n)
	}
	return "symbol"
}

// Fact is a named value: one element of a world state.
type Fact struct {
	Name  string
	Value Value
}

// Symbol returns a presence-only fact.
func Symbol(name string) Fact { return Fact{Name: name, Value: SymbolValue()} }

// Integer returns an integer-valued fact.
func Integer(name string, n int) Fact { return Fact{Name: name, Value: IntegerValue(n)} }

func (f Fact) String() string {
	if n, ok := f.Value.Int(); ok {
		return f.Name + "=" + strconv.Itoa(n)
	}
	return f.Name
}

// StateSet is a world state: a set of facts holding at most one value per
// fact name. It is the unit of backtracking; the solver clones it at every
// branch point and mutates only the clone, so a failed branch never leaks
// effects into its siblings.
type StateSet struct {
	facts map[string]Value
}

// NewStateSet builds a state from the given facts. A name appearing twice
// keeps the last value, matching Insert semantics.
func NewStateSet(facts ...Fact) *StateSet {
	s := &StateSet{facts: make(map[string]Value, len(facts))}
	for _, f := range facts {
		s.facts[f.Name] = f.Value
	}
	return s
}

// Insert adds the fact, overwriting any value already held under its name.
// It reports whether the name was previously absent.
func (s *StateSet) Insert(f Fact) bool {
	_, exists := s.facts[f.Name]
	s.facts[f.Name] = f.Value
	return !exists
}

// Remove deletes the named fact and returns the value it held, with
// ok=false when the fact was not present.
func (s *StateSet) Remove(name string) (Value, bool) {
	v, ok := s.facts[name]
	if ok {
		delete(s.facts, name)
	}
	return v, ok
}

// Get returns the value held under name, with ok=false when absent.
func (s *StateSet) Get(name string) (Value, bool) {
	v, ok := s.facts[name]
	return v, ok
}

// Contains reports whether the named fact is present.
func (s *StateSet) Contains(name string) bool {
	_, ok := s.facts[name]
	return ok
}

// Len returns the number of facts in the state.
func (s *StateSet) Len() int { return len(s.facts) }

// Clone returns an independent copy of the state.
func (s *StateSet) Clone() *StateSet {
	c := &StateSet{facts: make(map[string]Value, len(s.facts))}
	for name, v := range s.facts {
		c.facts[name] = v
	}
	return c
}

// Satisfies reports whether every condition in goals holds in this state.
func (s *StateSet) Satisfies(goals []Condition) bool {
	for _, g := range goals {
		if !g.Check(s) {
			return false
		}
	}
	return true
}

// Names returns the fact names in sorted order.
func (s *StateSet) Names() []string {
	names := make([]string, 0, len(s.facts))
	for name := range s.facts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Facts returns the facts sorted by name, for rendering and reporting.
func (s *StateSet) Facts() []Fact {
	out := make([]Fact, 0, len(s.facts))
	for _, name := range s.Names() {
		out = append(out, Fact{Name: name, Value: s.facts[name]})
	}
	return out
}

func (s *StateSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Facts() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte('}')
	return b.String()
}
