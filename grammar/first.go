package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// symbolComparator orders symbols by their numbers so that set iteration is deterministic.
func symbolComparator(a, b interface{}) int {
	return utils.IntComparator(int(a.(symbol)), int(b.(symbol)))
}

// terminalSet is an ordered set of terminals.
type terminalSet struct {
	set *treeset.Set
}

func newTerminalSet(syms ...symbol) *terminalSet {
	s := &terminalSet{
		set: treeset.NewWith(symbolComparator),
	}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

func (s *terminalSet) add(sym symbol) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

// addAll reports whether s grew.
func (s *terminalSet) addAll(o *terminalSet) bool {
	grew := false
	for _, sym := range o.symbols() {
		if s.add(sym) {
			grew = true
		}
	}
	return grew
}

func (s *terminalSet) union(o *terminalSet) *terminalSet {
	u := newTerminalSet(s.symbols()...)
	u.addAll(o)
	return u
}

func (s *terminalSet) symbols() []symbol {
	vals := s.set.Values()
	syms := make([]symbol, len(vals))
	for i, v := range vals {
		syms[i] = v.(symbol)
	}
	return syms
}

// firstSets holds FIRST and the nullability of every non-terminal.
type firstSets struct {
	terms    map[symbol]*terminalSet
	nullable map[symbol]bool
}

// genFirstSets iterates to a fixpoint.
func genFirstSets(prods *productionSet) *firstSets {
	f := &firstSets{
		terms:    map[symbol]*terminalSet{},
		nullable: map[symbol]bool{},
	}
	for _, p := range prods.all() {
		if _, ok := f.terms[p.lhs]; !ok {
			f.terms[p.lhs] = newTerminalSet()
		}
	}

	for changed := true; changed; {
		changed = false
		for _, p := range prods.all() {
			terms, nullable := f.ofSequence(p.rhs)
			if f.terms[p.lhs].addAll(terms) {
				changed = true
			}
			if nullable && !f.nullable[p.lhs] {
				f.nullable[p.lhs] = true
				changed = true
			}
		}
	}
	return f
}

// of returns FIRST of a non-terminal and whether it derives the empty string.
func (f *firstSets) of(sym symbol) (*terminalSet, bool) {
	terms, ok := f.terms[sym]
	if !ok {
		return newTerminalSet(), false
	}
	return terms, f.nullable[sym]
}

// ofSequence returns FIRST of a symbol sequence and whether the whole sequence derives the empty string.
func (f *firstSets) ofSequence(syms []symbol) (*terminalSet, bool) {
	acc := newTerminalSet()
	for _, sym := range syms {
		if sym.isTerminal() {
			acc.add(sym)
			return acc, false
		}
		terms, nullable := f.of(sym)
		acc.addAll(terms)
		if !nullable {
			return acc, false
		}
	}
	return acc, true
}
