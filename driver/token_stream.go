package driver

import (
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
)

// TokenStream is the input of a Parser. *lexer.Stream implements it.
type TokenStream interface {
	Next() (*lexer.Token, bool)
	Err() error
}

var _ TokenStream = &lexer.Stream{}

// contextProvider is implemented by streams that can tell where the input ends.
type contextProvider interface {
	Context() *lexer.Context
}

type sliceStream struct {
	toks []*lexer.Token
	pos  int
}

// NewTokenSliceStream returns a stream over already collected tokens.
func NewTokenSliceStream(toks []*lexer.Token) TokenStream {
	return &sliceStream{
		toks: toks,
	}
}

func (s *sliceStream) Next() (*lexer.Token, bool) {
	if s.pos >= len(s.toks) {
		return nil, false
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, true
}

func (s *sliceStream) Err() error {
	return nil
}

// eofStream appends the end-of-input sentinel to a stream. Once the sentinel was returned it is returned forever.
type eofStream struct {
	src  TokenStream
	last *lexer.Token
	eof  *lexer.Token
}

func newEOFStream(src TokenStream) *eofStream {
	return &eofStream{
		src: src,
	}
}

func (s *eofStream) next() *lexer.Token {
	if s.eof != nil {
		return s.eof
	}
	tok, ok := s.src.Next()
	if ok {
		s.last = tok
		return tok
	}

	s.eof = &lexer.Token{
		Type:  grammar.EOF,
		Value: "",
	}
	if s.last != nil {
		s.eof.Line = s.last.Line
		s.eof.Pos = s.last.Pos
	}
	if p, ok := s.src.(contextProvider); ok {
		ctx := p.Context()
		s.eof.Line = ctx.Line
		if s.src.Err() == nil {
			s.eof.Pos = len(ctx.Text)
		}
	}
	return s.eof
}
