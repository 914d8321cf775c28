package grammar

// followSets holds FOLLOW of every non-terminal. The augmented start production ends with EOF, so EOF reaches the
// follow set of the start symbol like any other terminal.
type followSets map[symbol]*terminalSet

func genFollowSets(prods *productionSet, first *firstSets) followSets {
	follow := followSets{}
	for _, p := range prods.all() {
		if _, ok := follow[p.lhs]; !ok {
			follow[p.lhs] = newTerminalSet()
		}
	}

	for changed := true; changed; {
		changed = false
		for _, p := range prods.all() {
			for i, sym := range p.rhs {
				if !sym.isNonTerminal() {
					continue
				}
				terms, nullable := first.ofSequence(p.rhs[i+1:])
				if follow.of(sym).addAll(terms) {
					changed = true
				}
				if nullable && follow.of(sym).addAll(follow.of(p.lhs)) {
					changed = true
				}
			}
		}
	}
	return follow
}

func (f followSets) of(sym symbol) *terminalSet {
	terms, ok := f[sym]
	if !ok {
		terms = newTerminalSet()
		f[sym] = terms
	}
	return terms
}
