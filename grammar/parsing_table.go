package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgen/compressor"
)

// ActionKind tags an Action.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (k ActionKind) String() string {
	switch k {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	}
	return "error"
}

// Action is one cell of the action table. State is set for shifts, Rule for reductions, and Message for errors.
type Action struct {
	Kind    ActionKind
	State   int
	Rule    *Rule
	Message string
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %v", a.Rule)
	case ActionAccept:
		return "accept"
	}
	if a.Message == "" {
		return "error"
	}
	return fmt.Sprintf("error: %v", a.Message)
}

// actionEntry is the packed form of an action: 0 is an error, a negative value shifts to the negated state, and a
// positive value reduces by the production with that number. Reducing by the augmented start production means
// accept. The initial state is never the target of a shift, so the encoding is unambiguous.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionKind, stateNum, productionNum) {
	switch {
	case e == actionEntryEmpty:
		return ActionError, stateNumInitial, productionNumNil
	case e < 0:
		return ActionShift, stateNum(e * -1), productionNumNil
	case productionNum(e) == productionNumStart:
		return ActionAccept, stateNumInitial, productionNumStart
	}
	return ActionReduce, stateNumInitial, productionNum(e)
}

// goToEntry is 0 when no transition exists. The initial state is never a goto target either.
type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

// Strategy selects the table construction.
type Strategy string

const (
	// LR1 builds canonical LR(1) tables.
	LR1 = Strategy("lr1")

	// SLR builds LR(0) item sets and reduces on FOLLOW sets.
	SLR = Strategy("slr")
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", LR1:
		return LR1, nil
	case SLR:
		return SLR, nil
	}
	return "", fmt.Errorf("unknown strategy: %v", s)
}

// ParseTable is immutable and can be shared by any number of concurrent parses.
type ParseTable struct {
	strategy         Strategy
	grammar          *Grammar
	actions          compressor.Table
	goTos            compressor.Table
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// kernels describes the kernel items of each state for reports.
	kernels [][]string
}

func (t *ParseTable) readAction(state int, term int) actionEntry {
	v, err := t.actions.Lookup(state, term)
	if err != nil {
		return actionEntryEmpty
	}
	return actionEntry(v)
}

func (t *ParseTable) readGoTo(state int, nonTerm int) goToEntry {
	v, err := t.goTos.Lookup(state, nonTerm)
	if err != nil {
		return goToEntryEmpty
	}
	return goToEntry(v)
}

// Size returns the number of cells of the action and goto tables and the number of ints they are stored in.
func (t *ParseTable) Size() (cells int, stored int) {
	cells = t.stateCount * (t.terminalCount + t.nonTerminalCount)
	return cells, t.actions.Len() + t.goTos.Len()
}

func (t *ParseTable) toAction(e actionEntry) Action {
	kind, state, prodNum := e.describe()
	switch kind {
	case ActionShift:
		return Action{
			Kind:  ActionShift,
			State: state.Int(),
		}
	case ActionReduce:
		prod, _ := t.grammar.productionSet.findByNum(prodNum)
		return Action{
			Kind: ActionReduce,
			Rule: prod.rule,
		}
	case ActionAccept:
		return Action{
			Kind: ActionAccept,
		}
	}
	return Action{
		Kind: ActionError,
	}
}

// Action looks up the action for a state and a terminal label. Terminals the grammar does not know and empty cells
// yield an ActionError.
func (t *ParseTable) Action(state int, terminal string) Action {
	if state < 0 || state >= t.stateCount {
		return Action{
			Kind:    ActionError,
			Message: fmt.Sprintf("invalid state: %v", state),
		}
	}
	sym, ok := t.grammar.symbolTable.toSymbol(T(terminal))
	if !ok {
		return Action{
			Kind:    ActionError,
			Message: fmt.Sprintf("unknown terminal: %v", terminal),
		}
	}
	act := t.toAction(t.readAction(state, sym.num().Int()))
	if act.Kind == ActionError {
		act.Message = fmt.Sprintf("unexpected %v", terminal)
	}
	return act
}

// GoTo returns the state reached from state over a non-terminal.
func (t *ParseTable) GoTo(state int, nonTerminal string) (int, bool) {
	if state < 0 || state >= t.stateCount {
		return 0, false
	}
	sym, ok := t.grammar.symbolTable.toSymbol(NT(nonTerminal))
	if !ok {
		return 0, false
	}
	e := t.readGoTo(state, sym.num().Int())
	if e == goToEntryEmpty {
		return 0, false
	}
	return int(e), true
}

// ExpectedTerminals returns the terminals having a non-error action in state. EOF comes first, the others follow
// in order of first use.
func (t *ParseTable) ExpectedTerminals(state int) []string {
	if state < 0 || state >= t.stateCount {
		return nil
	}
	var terms []string
	for term := terminalNumMin.Int() - 1; term < t.terminalCount; term++ {
		if t.readAction(state, term).isEmpty() {
			continue
		}
		sym, _ := newTerminalByNum(term)
		terms = append(terms, t.grammar.symbolTable.toLabel(sym))
	}
	return terms
}

// newTerminalByNum maps a column of the action table back to its symbol.
func newTerminalByNum(num int) (symbol, bool) {
	if num == int(symbolNumEOF) {
		return symbolEOF, true
	}
	sym, err := newSymbol(SymbolKindTerminal, symbolNum(num))
	if err != nil {
		return symbolNil, false
	}
	return sym, true
}

// InitialState is always 0.
func (t *ParseTable) InitialState() int {
	return stateNumInitial.Int()
}

func (t *ParseTable) StateCount() int {
	return t.stateCount
}

func (t *ParseTable) Strategy() Strategy {
	return t.strategy
}

func (t *ParseTable) Grammar() *Grammar {
	return t.grammar
}

// Rules returns the rules of the grammar in declaration order.
func (t *ParseTable) Rules() []*Rule {
	return t.grammar.Rules()
}
