package driver

import (
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a token. The end-of-input token is never passed.
	Shift(tok *lexer.Token)

	// Reduce runs when the driver reduces a body to its head.
	Reduce(rule *grammar.Rule)

	// Accept runs when the driver accepts an input.
	Accept()
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

// SyntaxTreeActionSet builds a syntax tree on its node stack.
type SyntaxTreeActionSet struct {
	semStack *semanticStack
	ast      *Node
}

func NewSyntaxTreeActionSet() *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Shift(tok *lexer.Token) {
	a.semStack.push(&Node{
		Type:  tok.Type,
		Value: tok.Value,
		Line:  tok.Line,
		Pos:   tok.Pos,
		Leaf:  true,
	})
}

func (a *SyntaxTreeActionSet) Reduce(rule *grammar.Rule) {
	// When a body is empty, `handle` will be an empty slice.
	handle := a.semStack.pop(len(rule.Body))

	children := make([]*Node, len(handle))
	copy(children, handle)

	node := &Node{
		Type:     rule.Head,
		Children: children,
	}
	// An interior node takes the location of its first child.
	if len(children) > 0 {
		node.Line = children[0].Line
		node.Pos = children[0].Pos
	}
	a.semStack.push(node)
}

// Accept takes the root off the node stack. The stack must hold exactly one node; see Size.
func (a *SyntaxTreeActionSet) Accept() {
	if a.semStack.size() == 0 {
		return
	}
	a.ast = a.semStack.pop(1)[0]
}

// Size returns the number of nodes on the node stack.
func (a *SyntaxTreeActionSet) Size() int {
	return a.semStack.size()
}

func (a *SyntaxTreeActionSet) AST() *Node {
	return a.ast
}

type semanticStack struct {
	frames []*Node
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *Node) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*Node {
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}

func (s *semanticStack) size() int {
	return len(s.frames)
}
