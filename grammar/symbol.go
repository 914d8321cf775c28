package grammar

import (
	"fmt"
)

// SymbolKind distinguishes terminals from nonterminals.
type SymbolKind int

const (
	SymbolKindNonTerminal SymbolKind = iota
	SymbolKindTerminal
)

func (k SymbolKind) String() string {
	if k == SymbolKindTerminal {
		return "terminal"
	}
	return "non-terminal"
}

// Symbol is a grammar symbol as callers write it. Two symbols are equal when their kinds and labels are equal.
type Symbol struct {
	Kind  SymbolKind
	Label string
}

// T returns a terminal. A terminal label is the type of the tokens it matches.
func T(label string) Symbol {
	return Symbol{
		Kind:  SymbolKindTerminal,
		Label: label,
	}
}

// NT returns a nonterminal.
func NT(label string) Symbol {
	return Symbol{
		Kind:  SymbolKindNonTerminal,
		Label: label,
	}
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == SymbolKindTerminal
}

func (s Symbol) String() string {
	return s.Label
}

// EOF is the label of the terminal the parser appends to every token stream.
// The label contains `<` and `>` to avoid conflicting with user-defined symbols.
const EOF = "<eof>"

type symbolNum uint16

func (n symbolNum) Int() int {
	return int(n)
}

// symbol is the numbered form of a Symbol used by the table construction. Sorting symbols by their numeric value
// puts nonterminals before terminals and keeps registration order within each kind. The augmented start symbol and
// EOF sort last within their kinds.
type symbol uint16

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	maskSubKindpart    = uint16(0x4000) // 0100 0000 0000 0000
	maskNonStartAndEOF = uint16(0x0000) // 0000 0000 0000 0000
	maskStartOrEOF     = uint16(0x4000) // 0100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	symbolNumStart = uint16(0x0001) // 0000 0000 0000 0001
	symbolNumEOF   = uint16(0x0001) // 0000 0000 0000 0001

	symbolNil   = symbol(0)                                                 // 0000 0000 0000 0000
	symbolStart = symbol(maskNonTerminal | maskStartOrEOF | symbolNumStart) // 0100 0000 0000 0001
	symbolEOF   = symbol(maskTerminal | maskStartOrEOF | symbolNumEOF)      // 1100 0000 0000 0001

	nonTerminalNumMin = symbolNum(2) // The number 1 is used by the augmented start symbol.
	terminalNumMin    = symbolNum(2) // The number 1 is used by the EOF symbol.
	symbolNumMax      = symbolNum(0xffff) >> 2
)

func newSymbol(kind SymbolKind, num symbolNum) (symbol, error) {
	if num > symbolNumMax {
		return symbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	kindMask := maskNonTerminal
	if kind == SymbolKindTerminal {
		kindMask = maskTerminal
	}
	return symbol(kindMask | maskNonStartAndEOF | uint16(num)), nil
}

func (s symbol) String() string {
	var prefix string
	switch {
	case s.isNil():
		return "nil"
	case s.isStart():
		prefix = "s"
	case s.isEOF():
		prefix = "e"
	case s.isTerminal():
		prefix = "t"
	default:
		prefix = "n"
	}
	return fmt.Sprintf("%v%v", prefix, s.num())
}

func (s symbol) num() symbolNum {
	return symbolNum(uint16(s) & maskNumberPart)
}

func (s symbol) isNil() bool {
	return s.num() == 0
}

func (s symbol) isStart() bool {
	return !s.isNil() && !s.isTerminal() && uint16(s)&maskSubKindpart > 0
}

func (s symbol) isEOF() bool {
	return !s.isNil() && s.isTerminal() && uint16(s)&maskSubKindpart > 0
}

func (s symbol) isTerminal() bool {
	return !s.isNil() && uint16(s)&maskKindPart > 0
}

func (s symbol) isNonTerminal() bool {
	return !s.isNil() && uint16(s)&maskKindPart == 0
}

// symbolTable numbers the symbols of one grammar. Numbers are handed out in registration order, so the numbering
// only depends on the order of the rules.
type symbolTable struct {
	label2Sym    map[Symbol]symbol
	sym2Label    map[symbol]Symbol
	nonTermNum   symbolNum
	termNum      symbolNum
	nonTermTexts []string
	termTexts    []string
}

func newSymbolTable(startLabel string) *symbolTable {
	eof := T(EOF)
	start := NT(startLabel)
	return &symbolTable{
		label2Sym: map[Symbol]symbol{
			eof:   symbolEOF,
			start: symbolStart,
		},
		sym2Label: map[symbol]Symbol{
			symbolEOF:   eof,
			symbolStart: start,
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
		nonTermTexts: []string{
			"", // Nil
			startLabel,
		},
		termTexts: []string{
			"", // Nil
			EOF,
		},
	}
}

func (t *symbolTable) register(sym Symbol) (symbol, error) {
	if s, ok := t.label2Sym[sym]; ok {
		return s, nil
	}
	var s symbol
	var err error
	if sym.IsTerminal() {
		s, err = newSymbol(SymbolKindTerminal, t.termNum)
		if err != nil {
			return symbolNil, err
		}
		t.termNum++
		t.termTexts = append(t.termTexts, sym.Label)
	} else {
		s, err = newSymbol(SymbolKindNonTerminal, t.nonTermNum)
		if err != nil {
			return symbolNil, err
		}
		t.nonTermNum++
		t.nonTermTexts = append(t.nonTermTexts, sym.Label)
	}
	t.label2Sym[sym] = s
	t.sym2Label[s] = sym
	return s, nil
}

func (t *symbolTable) toSymbol(sym Symbol) (symbol, bool) {
	s, ok := t.label2Sym[sym]
	return s, ok
}

func (t *symbolTable) toLabel(sym symbol) string {
	return t.sym2Label[sym].Label
}

// terminalCount and nonTerminalCount include the unused number 0, so they can size tables indexed by number.
func (t *symbolTable) terminalCount() int {
	return t.termNum.Int()
}

func (t *symbolTable) nonTerminalCount() int {
	return t.nonTermNum.Int()
}
