package main

import (
	"bytes"
	"testing"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/pterm/pterm"
)

func TestLeveledList(t *testing.T) {
	root := &driver.Node{
		Type: "E",
		Children: []*driver.Node{
			{Type: "T", Children: []*driver.Node{{Type: "NUMBER", Value: 1, Leaf: true}}},
			{Type: "PLUS", Value: "+", Leaf: true},
			{Type: "E"},
		},
	}
	expected := pterm.LeveledList{
		{Level: 0, Text: "E"},
		{Level: 1, Text: "T"},
		{Level: 2, Text: "NUMBER 1"},
		{Level: 1, Text: "PLUS +"},
		{Level: 1, Text: "E"},
	}
	ll := leveledList(root, pterm.LeveledList{}, 0)
	if len(ll) != len(expected) {
		t.Fatalf("unexpected item count: want: %v, got: %v", len(expected), len(ll))
	}
	for i, item := range ll {
		if item.Level != expected[i].Level || item.Text != expected[i].Text {
			t.Fatalf("unexpected item #%v: want: %+v, got: %+v", i, expected[i], item)
		}
	}
}

func TestStepPrinter(t *testing.T) {
	var b bytes.Buffer
	p := &stepPrinter{w: &b}
	p.Shift(&lexer.Token{Type: "NUMBER", Value: 1})
	p.Reduce(grammar.NewRule("E", grammar.T("NUMBER")))
	p.Accept()

	expected := `   1  shift   NUMBER 1
   2  reduce  E → NUMBER
   3  accept
`
	if b.String() != expected {
		t.Fatalf("unexpected output:\nwant:\n%v\ngot:\n%v", expected, b.String())
	}
}
