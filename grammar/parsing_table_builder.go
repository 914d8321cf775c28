package grammar

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nihei9/lrgen/compressor"
)

// ConflictError reports a cell of the action table that needs more than one action.
type ConflictError struct {
	State    int
	Terminal string
	Actions  []Action
}

// IsShiftReduce reports whether one of the competing actions is a shift. Otherwise the conflict is reduce/reduce.
func (e *ConflictError) IsShiftReduce() bool {
	for _, act := range e.Actions {
		if act.Kind == ActionShift {
			return true
		}
	}
	return false
}

func (e *ConflictError) Error() string {
	kind := "reduce/reduce"
	if e.IsShiftReduce() {
		kind = "shift/reduce"
	}
	acts := make([]string, len(e.Actions))
	for i, act := range e.Actions {
		acts[i] = act.String()
	}
	return fmt.Sprintf("%v conflict in state %v on %v: %v", kind, e.State, e.Terminal, strings.Join(acts, ", "))
}

// ConflictErrors holds every conflict of one construction.
type ConflictErrors []*ConflictError

func (e ConflictErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v conflicts", len(e))
	for _, err := range e {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}

func (e ConflictErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// BuildParseTable constructs the parse table of g. It fails with ConflictErrors when g is not LR(1) or SLR(1)
// respectively. Conflicts are never resolved.
func BuildParseTable(g *Grammar, strategy Strategy) (*ParseTable, error) {
	first := genFirstSets(g.productionSet)

	b := &lrTableBuilder{
		strategy:     strategy,
		grammar:      g,
		termCount:    g.symbolTable.terminalCount(),
		nonTermCount: g.symbolTable.nonTerminalCount(),
	}
	var err error
	switch strategy {
	case LR1:
		b.automaton, err = genLR1Automaton(g.productionSet, g.augmentedStartSymbol, first)
	case SLR:
		b.automaton, err = genLR0Automaton(g.productionSet, g.augmentedStartSymbol)
		b.follow = genFollowSets(g.productionSet, first)
	default:
		err = fmt.Errorf("unknown strategy: %v", strategy)
	}
	if err != nil {
		return nil, err
	}

	tab, err := b.build()
	if err != nil {
		return nil, err
	}
	tracer().Infof("built a %v table with %v states", strategy, tab.stateCount)
	return tab, nil
}

type lrTableBuilder struct {
	strategy     Strategy
	grammar      *Grammar
	automaton    *lrAutomaton
	follow       followSets
	termCount    int
	nonTermCount int

	// cells collects every distinct action written to a cell, in the order they were written.
	cells map[int][]actionEntry
}

func (b *lrTableBuilder) build() (*ParseTable, error) {
	stateCount := len(b.automaton.states)
	ptab := &ParseTable{
		strategy:         b.strategy,
		grammar:          b.grammar,
		stateCount:       stateCount,
		terminalCount:    b.termCount,
		nonTerminalCount: b.nonTermCount,
		kernels:          make([][]string, stateCount),
	}
	b.cells = map[int][]actionEntry{}
	goToTable := make([]int, stateCount*b.nonTermCount)

	symTab := b.grammar.symbolTable
	for _, state := range b.automaton.states {
		for _, item := range state.kernel.items {
			ptab.kernels[state.num] = append(ptab.kernels[state.num], item.format(symTab))
		}

		for sym, next := range state.next {
			if sym.isTerminal() {
				b.writeAction(state.num, sym, newShiftActionEntry(next))
			} else {
				goToTable[state.num.Int()*b.nonTermCount+sym.num().Int()] = int(newGoToEntry(next))
			}
		}

		for _, item := range state.items {
			if !item.reducible() {
				continue
			}
			if item.p.lhs.isStart() {
				b.writeAction(state.num, symbolEOF, newReduceActionEntry(productionNumStart))
				continue
			}
			switch b.strategy {
			case LR1:
				b.writeAction(state.num, item.la, newReduceActionEntry(item.p.num))
			case SLR:
				for _, a := range b.follow.of(item.p.lhs).symbols() {
					b.writeAction(state.num, a, newReduceActionEntry(item.p.num))
				}
			}
		}
	}

	actionTable := make([]int, stateCount*b.termCount)
	var conflicts ConflictErrors
	for pos := 0; pos < len(actionTable); pos++ {
		acts := b.cells[pos]
		if len(acts) == 0 {
			continue
		}
		if len(acts) == 1 {
			actionTable[pos] = int(acts[0])
			continue
		}
		state := pos / b.termCount
		term, _ := newTerminalByNum(pos % b.termCount)
		c := &ConflictError{
			State:    state,
			Terminal: symTab.toLabel(term),
		}
		for _, act := range acts {
			c.Actions = append(c.Actions, ptab.toAction(act))
		}
		tracer().Debugf("%v", c)
		conflicts = append(conflicts, c)
	}
	if len(conflicts) > 0 {
		return nil, conflicts
	}

	var err error
	ptab.actions, err = packTable(actionTable, b.termCount, int(actionEntryEmpty))
	if err != nil {
		return nil, err
	}
	ptab.goTos, err = packTable(goToTable, b.nonTermCount, int(goToEntryEmpty))
	if err != nil {
		return nil, err
	}
	cells, stored := ptab.Size()
	tracer().Debugf("packed %v cells into %v ints", cells, stored)

	return ptab, nil
}

func packTable(entries []int, colCount int, emptyValue int) (compressor.Table, error) {
	d, err := compressor.NewDense(entries, colCount)
	if err != nil {
		return nil, err
	}
	return compressor.Pack(d, emptyValue), nil
}

func (b *lrTableBuilder) writeAction(state stateNum, sym symbol, act actionEntry) {
	pos := state.Int()*b.termCount + sym.num().Int()
	for _, a := range b.cells[pos] {
		if a == act {
			return
		}
	}
	b.cells[pos] = append(b.cells[pos], act)
}

// Report renders the rules, the state count, and the actions of every state. The output is meant for debugging
// only.
func (t *ParseTable) Report() string {
	var b strings.Builder
	symTab := t.grammar.symbolTable

	fmt.Fprintf(&b, "# Rules\n\n")
	for i, prod := range t.grammar.productionSet.all() {
		if prod.rule == nil {
			fmt.Fprintf(&b, "%4v %v → %v %v\n", i, symTab.toLabel(prod.lhs), t.grammar.start.Head, EOF)
			continue
		}
		fmt.Fprintf(&b, "%4v %v\n", i, prod.rule)
	}

	cells, stored := t.Size()
	fmt.Fprintf(&b, "\n# States (%v, %v, %v cells stored in %v ints)\n", t.stateCount, t.strategy, cells, stored)
	for state := 0; state < t.stateCount; state++ {
		fmt.Fprintf(&b, "\n## State %v\n\n", state)
		for _, item := range t.kernels[state] {
			fmt.Fprintf(&b, "    %v\n", item)
		}
		fmt.Fprintf(&b, "\n")

		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		for _, term := range t.ExpectedTerminals(state) {
			fmt.Fprintf(w, "    %v\t%v\n", term, t.Action(state, term))
		}
		for _, nonTerm := range t.grammar.nonTerminals {
			next, ok := t.GoTo(state, nonTerm)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "    %v\tgoto %v\n", nonTerm, next)
		}
		w.Flush()
	}

	return b.String()
}
