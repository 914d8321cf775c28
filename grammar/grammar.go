package grammar

import (
	"fmt"
	"strings"

	verr "github.com/nihei9/lrgen/error"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.grammar")
}

// Rule is a production. The body may be empty.
type Rule struct {
	Head string
	Body []Symbol
}

func NewRule(head string, body ...Symbol) *Rule {
	return &Rule{
		Head: head,
		Body: body,
	}
}

func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", r.Head)
	if len(r.Body) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range r.Body {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

func (r *Rule) equals(s *Rule) bool {
	if r.Head != s.Head || len(r.Body) != len(s.Body) {
		return false
	}
	for i, sym := range r.Body {
		if sym != s.Body[i] {
			return false
		}
	}
	return true
}

// Grammar is an immutable, validated set of rules with a designated start rule. The start rule designates the start
// symbol; every rule sharing its head is an alternative of the start symbol.
type Grammar struct {
	rules                []*Rule
	start                *Rule
	productionSet        *productionSet
	augmentedStartSymbol symbol
	symbolTable          *symbolTable
	terminals            []string
	nonTerminals         []string
}

// NewGrammar validates the rules and augments them with `Start' → Start <eof>`. All configuration errors are
// reported together as an error.SpecErrors.
func NewGrammar(rules []*Rule, start *Rule) (*Grammar, error) {
	b := &grammarBuilder{
		rules: rules,
		start: start,
	}
	return b.build()
}

type grammarBuilder struct {
	rules []*Rule
	start *Rule

	errs verr.SpecErrors
}

func (b *grammarBuilder) addErr(cause error, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	})
}

func (b *grammarBuilder) build() (*Grammar, error) {
	rules := b.validate()
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTab := newSymbolTable(augmentedLabel(b.start.Head, rules))
	var nonTerms []string
	for _, r := range rules {
		if _, ok := symTab.toSymbol(NT(r.Head)); ok {
			continue
		}
		if _, err := symTab.register(NT(r.Head)); err != nil {
			return nil, err
		}
		nonTerms = append(nonTerms, r.Head)
	}
	var terms []string
	for _, r := range rules {
		for _, sym := range r.Body {
			if _, ok := symTab.toSymbol(sym); ok {
				continue
			}
			if _, err := symTab.register(sym); err != nil {
				return nil, err
			}
			terms = append(terms, sym.Label)
		}
	}

	prods := newProductionSet()
	startSym, _ := symTab.toSymbol(NT(b.start.Head))
	prods.add(symbolStart, []symbol{startSym, symbolEOF}, nil)
	for _, r := range rules {
		lhs, _ := symTab.toSymbol(NT(r.Head))
		rhs := make([]symbol, len(r.Body))
		for i, sym := range r.Body {
			rhs[i], _ = symTab.toSymbol(sym)
		}
		prods.add(lhs, rhs, r)
	}

	tracer().Debugf("grammar: %v rules, %v terminals, %v non-terminals", len(rules), len(terms), len(nonTerms))

	return &Grammar{
		rules:                rules,
		start:                b.start,
		productionSet:        prods,
		augmentedStartSymbol: symbolStart,
		symbolTable:          symTab,
		terminals:            terms,
		nonTerminals:         nonTerms,
	}, nil
}

// validate returns private copies of the rules so that later changes by the caller cannot reach the grammar.
func (b *grammarBuilder) validate() []*Rule {
	if len(b.rules) == 0 {
		b.addErr(ErrNoRule, "")
		return nil
	}

	var rules []*Rule
	heads := map[string]struct{}{}
	for i, r := range b.rules {
		if r == nil {
			b.addErr(ErrNilRule, fmt.Sprintf("rule #%v", i+1))
			continue
		}
		if r.Head == "" {
			b.addErr(ErrEmptyHead, fmt.Sprintf("rule #%v", i+1))
			continue
		}
		if r.Head == EOF {
			b.addErr(ErrReservedLabel, r.String())
			continue
		}
		dup := false
		for _, s := range rules {
			if s.equals(r) {
				b.addErr(ErrDuplicateRule, r.String())
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		c := &Rule{
			Head: r.Head,
			Body: make([]Symbol, len(r.Body)),
		}
		copy(c.Body, r.Body)
		rules = append(rules, c)
		heads[r.Head] = struct{}{}
	}

	for _, r := range rules {
		for _, sym := range r.Body {
			switch {
			case sym.Label == "":
				b.addErr(ErrEmptyLabel, r.String())
			case sym.Label == EOF:
				b.addErr(ErrReservedLabel, r.String())
			case sym.IsTerminal():
				if _, ok := heads[sym.Label]; ok {
					b.addErr(ErrDuplicateName, sym.Label)
				}
			default:
				if _, ok := heads[sym.Label]; !ok {
					b.addErr(ErrUndefinedNonTerminal, fmt.Sprintf("%v in %v", sym.Label, r))
				}
			}
		}
	}

	if b.start == nil {
		b.addErr(ErrNoStartRule, "")
		return rules
	}
	found := false
	for i, r := range b.rules {
		if r == nil {
			continue
		}
		if r == b.start || r.equals(b.start) {
			found = true
			b.start = rules[indexOf(rules, b.rules[i])]
			break
		}
	}
	if !found {
		b.addErr(ErrStartRuleNotFound, b.start.String())
	}

	return rules
}

func indexOf(rules []*Rule, r *Rule) int {
	for i, s := range rules {
		if s.equals(r) {
			return i
		}
	}
	return 0
}

// augmentedLabel returns a label for the augmented start symbol that no rule uses.
func augmentedLabel(start string, rules []*Rule) string {
	used := map[string]struct{}{}
	for _, r := range rules {
		used[r.Head] = struct{}{}
		for _, sym := range r.Body {
			used[sym.Label] = struct{}{}
		}
	}
	label := start + "'"
	for {
		if _, ok := used[label]; !ok {
			return label
		}
		label += "'"
	}
}

// Rules returns the rules in declaration order.
func (g *Grammar) Rules() []*Rule {
	rules := make([]*Rule, len(g.rules))
	copy(rules, g.rules)
	return rules
}

func (g *Grammar) StartRule() *Rule {
	return g.start
}

// Terminals returns the terminal labels in order of first use, without the EOF terminal.
func (g *Grammar) Terminals() []string {
	terms := make([]string, len(g.terminals))
	copy(terms, g.terminals)
	return terms
}

// NonTerminals returns the rule heads in order of first declaration, without the augmented start symbol.
func (g *Grammar) NonTerminals() []string {
	nonTerms := make([]string, len(g.nonTerminals))
	copy(nonTerms, g.nonTerminals)
	return nonTerms
}

// AugmentedStart returns the label of the internal start symbol.
func (g *Grammar) AugmentedStart() string {
	return g.symbolTable.toLabel(g.augmentedStartSymbol)
}
