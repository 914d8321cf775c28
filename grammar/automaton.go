package grammar

import (
	"fmt"
	"sort"
)

type lrState struct {
	num    stateNum
	kernel *kernel

	// items is the closure of the kernel.
	items []*lrItem

	next map[symbol]stateNum
}

// lrAutomaton holds the states in discovery order, so states[n] is the state numbered n.
type lrAutomaton struct {
	states []*lrState
}

// lookAheadFunc returns the look-aheads of the items an item predicts.
type lookAheadFunc func(item *lrItem) []symbol

// genLR0Automaton builds the canonical collection of LR(0) item sets.
func genLR0Automaton(prods *productionSet, startSym symbol) (*lrAutomaton, error) {
	return genAutomaton(prods, startSym, symbolNil, func(item *lrItem) []symbol {
		return []symbol{symbolNil}
	})
}

// genLR1Automaton builds the canonical collection of LR(1) item sets. An item A → α・Bβ, a predicts B → ・γ, t
// for every t in FIRST(β a).
func genLR1Automaton(prods *productionSet, startSym symbol, first *firstSets) (*lrAutomaton, error) {
	return genAutomaton(prods, startSym, symbolEOF, func(item *lrItem) []symbol {
		las, nullable := first.ofSequence(item.p.rhs[item.dot+1:])
		if nullable {
			las = las.union(newTerminalSet(item.la))
		}
		return las.symbols()
	})
}

// genAutomaton explores the states breadth first. The transitions of a state are followed in symbol order, which
// makes the numbering deterministic.
func genAutomaton(prods *productionSet, startSym symbol, initialLookAhead symbol, lookAheads lookAheadFunc) (*lrAutomaton, error) {
	starts := prods.alternatives(startSym)
	if !startSym.isStart() || len(starts) != 1 {
		return nil, fmt.Errorf("the grammar needs exactly one augmented start production")
	}

	a := &lrAutomaton{}
	byKey := map[string]*lrState{}
	stateOf := func(k *kernel) *lrState {
		if s, ok := byKey[k.key]; ok {
			return s
		}
		s := &lrState{
			num:    stateNum(len(a.states)),
			kernel: k,
			next:   map[symbol]stateNum{},
		}
		byKey[k.key] = s
		a.states = append(a.states, s)
		return s
	}

	stateOf(newKernel([]*lrItem{newItem(starts[0], 0, initialLookAhead)}))
	for n := 0; n < len(a.states); n++ {
		s := a.states[n]
		s.items = genClosure(s.kernel, prods, lookAheads)
		for _, t := range genTransitions(s.items) {
			s.next[t.symbol] = stateOf(t.kernel).num
		}
		tracer().Debugf("state %v: %v kernel items, %v items, %v transitions", s.num, len(s.kernel.items), len(s.items), len(s.next))
	}

	return a, nil
}

func genClosure(k *kernel, prods *productionSet, lookAheads lookAheadFunc) []*lrItem {
	items := append([]*lrItem{}, k.items...)
	seen := map[itemKey]struct{}{}
	for _, item := range items {
		seen[item.itemKey] = struct{}{}
	}
	for n := 0; n < len(items); n++ {
		item := items[n]
		sym := item.dotted()
		if !sym.isNonTerminal() {
			continue
		}
		las := lookAheads(item)
		for _, p := range prods.alternatives(sym) {
			for _, la := range las {
				predicted := newItem(p, 0, la)
				if _, ok := seen[predicted.itemKey]; ok {
					continue
				}
				seen[predicted.itemKey] = struct{}{}
				items = append(items, predicted)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].less(items[j].itemKey)
	})
	return items
}

type transition struct {
	symbol symbol
	kernel *kernel
}

// genTransitions groups the items by their dotted symbol and returns the kernel reached over each symbol, in
// symbol order.
func genTransitions(items []*lrItem) []transition {
	advanced := map[symbol][]*lrItem{}
	var syms []symbol
	for _, item := range items {
		sym := item.dotted()
		if sym.isNil() {
			continue
		}
		if _, ok := advanced[sym]; !ok {
			syms = append(syms, sym)
		}
		advanced[sym] = append(advanced[sym], item.advance())
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})

	ts := make([]transition, len(syms))
	for i, sym := range syms {
		ts[i] = transition{
			symbol: sym,
			kernel: newKernel(advanced[sym]),
		}
	}
	return ts
}
