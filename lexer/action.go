package lexer

import (
	"strconv"
	"strings"
)

// ActionFunc runs on every match of a rule. It returns the token to emit, possibly transformed, or nil to emit
// nothing. Changes to ctx take effect even when the token is suppressed.
type ActionFunc func(ctx *Context, tok *Token) *Token

// ActionInt replaces the value with an int. Values out of range become 0.
func ActionInt(ctx *Context, tok *Token) *Token {
	v, err := strconv.Atoi(tok.Text())
	if err != nil {
		tracer().Infof("integer value too large %v", tok.Value)
		v = 0
	}
	tok.Value = v
	return tok
}

// ActionFloat replaces the value with a float64.
func ActionFloat(ctx *Context, tok *Token) *Token {
	v, err := strconv.ParseFloat(tok.Text(), 64)
	if err != nil {
		tracer().Infof("invalid float value %v", tok.Value)
		v = 0
	}
	tok.Value = v
	return tok
}

// ActionNewline advances the line counter by the number of line feeds in the match and emits nothing.
func ActionNewline(ctx *Context, tok *Token) *Token {
	ctx.Line += strings.Count(tok.Text(), "\n")
	return nil
}

// ActionSkip emits nothing.
func ActionSkip(ctx *Context, tok *Token) *Token {
	return nil
}

// Actions maps action names used in description files to functions.
type Actions map[string]ActionFunc

// DefaultActions returns the built-in actions.
func DefaultActions() Actions {
	return Actions{
		"int":     ActionInt,
		"float":   ActionFloat,
		"newline": ActionNewline,
		"skip":    ActionSkip,
	}
}

// With returns a copy of the set extended by the given actions. Entries in more override built-ins.
func (a Actions) With(more Actions) Actions {
	c := make(Actions, len(a)+len(more))
	for name, f := range a {
		c[name] = f
	}
	for name, f := range more {
		c[name] = f
	}
	return c
}

func (a Actions) Lookup(name string) (ActionFunc, bool) {
	f, ok := a[name]
	return f, ok
}
