/*
Package driver runs the shift-reduce automaton of a parse table over a token stream and builds a syntax tree.
*/
package driver

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.driver")
}

// SyntaxError reports a token the parse table has no action for.
type SyntaxError struct {
	Token    *lexer.Token
	State    int
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Token.Type == grammar.EOF {
		fmt.Fprintf(&b, "%v:%v: syntax error: unexpected end of input", e.Token.Line, e.Token.Pos)
	} else {
		fmt.Fprintf(&b, "%v:%v: syntax error: unexpected %v %#v", e.Token.Line, e.Token.Pos, e.Token.Type, e.Token.Value)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// InternalError reports a parse table that broke an invariant of the automaton. A table built by
// grammar.BuildParseTable never causes one.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Message)
}

type ParserOption func(p *Parser) error

// StrictInput makes the parser fail with the tokenizer's error when the token stream ended early. Without it a
// truncated stream is parsed as if it were complete.
func StrictInput() ParserOption {
	return func(p *Parser) error {
		p.strict = true
		return nil
	}
}

// SemanticAction registers an action set that observes every shift and reduction in addition to the tree builder.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		if semAct == nil {
			return fmt.Errorf("semantic action set must be non-nil")
		}
		p.semActs = append(p.semActs, semAct)
		return nil
	}
}

// Parser is a single-use shift-reduce automaton. It must not be shared between goroutines; the ParseTable may be.
type Parser struct {
	tab        *grammar.ParseTable
	src        TokenStream
	toks       *eofStream
	stateStack []int
	tree       *SyntaxTreeActionSet
	semActs    []SemanticActionSet
	strict     bool
}

func NewParser(tab *grammar.ParseTable, src TokenStream, opts ...ParserOption) (*Parser, error) {
	if tab == nil || src == nil {
		return nil, fmt.Errorf("a parse table and a token stream are required")
	}

	p := &Parser{
		tab:        tab,
		src:        src,
		toks:       newEOFStream(src),
		stateStack: []int{},
		tree:       NewSyntaxTreeActionSet(),
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the automaton until it accepts or fails. It returns the root of the syntax tree.
func (p *Parser) Parse() (*Node, error) {
	p.push(p.tab.InitialState())
	tok, err := p.nextToken()
	if err != nil {
		return nil, err
	}

	for {
		act := p.tab.Action(p.top(), tok.Type)
		switch act.Kind {
		case grammar.ActionShift:
			tracer().Debugf("state %v: shift %v, go to %v", p.top(), tok, act.State)
			p.push(act.State)

			// The end-of-input sentinel is consumed by the augmented rule but never becomes a node.
			if tok.Type != grammar.EOF {
				p.actOnShift(tok)
			}

			tok, err = p.nextToken()
			if err != nil {
				return nil, err
			}
		case grammar.ActionReduce:
			tracer().Debugf("state %v: reduce %v", p.top(), act.Rule)
			if err := p.reduce(act.Rule); err != nil {
				return nil, err
			}
		case grammar.ActionAccept:
			tracer().Debugf("state %v: accept", p.top())
			if n := p.tree.Size(); n != 1 {
				return nil, &InternalError{
					Message: fmt.Sprintf("the node stack holds %v nodes after accepting; it must hold exactly one", n),
				}
			}
			p.actOnAccepting()
			return p.tree.AST(), nil
		default:
			synErr := &SyntaxError{
				Token:    tok,
				State:    p.top(),
				Expected: p.tab.ExpectedTerminals(p.top()),
			}
			tracer().Debugf("%v", synErr)
			return nil, synErr
		}
	}
}

func (p *Parser) nextToken() (*lexer.Token, error) {
	tok := p.toks.next()
	if tok.Type == grammar.EOF && p.strict {
		if err := p.src.Err(); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

func (p *Parser) reduce(rule *grammar.Rule) error {
	n := len(rule.Body)
	if n > p.tree.Size() || n >= len(p.stateStack) {
		return &InternalError{
			Message: fmt.Sprintf("cannot reduce %v; the stacks are too short", rule),
		}
	}
	p.pop(n)
	nextState, ok := p.tab.GoTo(p.top(), rule.Head)
	if !ok {
		return &InternalError{
			Message: fmt.Sprintf("no transition from state %v over %v", p.top(), rule.Head),
		}
	}
	p.push(nextState)
	p.actOnReduction(rule)
	return nil
}

func (p *Parser) actOnShift(tok *lexer.Token) {
	p.tree.Shift(tok)
	for _, a := range p.semActs {
		a.Shift(tok)
	}
}

func (p *Parser) actOnReduction(rule *grammar.Rule) {
	p.tree.Reduce(rule)
	for _, a := range p.semActs {
		a.Reduce(rule)
	}
}

func (p *Parser) actOnAccepting() {
	p.tree.Accept()
	for _, a := range p.semActs {
		a.Accept()
	}
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

// Parse tokenizes text and parses the tokens.
func Parse(tab *grammar.ParseTable, tokenizer *lexer.Tokenizer, text string, opts ...ParserOption) (*Node, error) {
	p, err := NewParser(tab, tokenizer.Input(text), opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}
