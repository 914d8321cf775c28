package lexer

import "fmt"

// Token is a unit emitted by a Stream.
type Token struct {
	// Type is the name of the rule that matched the token.
	Type string

	// Value is the raw matched text unless the rule's action replaced it.
	Value interface{}

	// Line is the value of the line counter when the token was matched. It starts at 0.
	Line int

	// Pos is the byte offset just behind the match in the filtered input.
	Pos int
}

// Text returns the token value as a string.
func (t *Token) Text() string {
	if s, ok := t.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", t.Value)
}

func (t *Token) String() string {
	return fmt.Sprintf("%v %#v (%v:%v)", t.Type, t.Value, t.Line, t.Pos)
}

// Context is the mutable state of one Input call. Actions receive a pointer to it and may update the line counter.
// The scan position is owned by the stream; changes an action makes to Pos are discarded.
type Context struct {
	// Text is the input after the ignore characters were deleted.
	Text string

	Line      int
	Pos       int
	LastMatch string
}

// UnmatchedError reports that no rule matches at the current scan position.
type UnmatchedError struct {
	// Rest is the unmatched suffix of the filtered input, starting at Pos.
	Rest string
	Line int
	Pos  int
}

func (e *UnmatchedError) Error() string {
	rest := []rune(e.Rest)
	if len(rest) > 16 {
		return fmt.Sprintf("no token rule matches at line %v, position %v: %q...", e.Line, e.Pos, string(rest[:16]))
	}
	return fmt.Sprintf("no token rule matches at line %v, position %v: %q", e.Line, e.Pos, e.Rest)
}
