package driver

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a node of a syntax tree. A leaf comes from a shifted token and carries its value and location. An
// interior node comes from a reduction; its type is the head of the rule and its children are the body.
type Node struct {
	Type     string      `json:"type"`
	Value    interface{} `json:"value,omitempty"`
	Line     int         `json:"line"`
	Pos      int         `json:"pos"`
	Leaf     bool        `json:"leaf"`
	Children []*Node     `json:"children,omitempty"`
}

func (n *Node) String() string {
	return n.SExpr()
}

// Text returns the value of a leaf as a string.
func (n *Node) Text() string {
	if n.Value == nil {
		return ""
	}
	if s, ok := n.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", n.Value)
}

// SExpr renders the tree as `(Type child ...)`. A leaf renders as `(Type value)`; values that contain spaces,
// parentheses, or nothing at all are quoted.
func (n *Node) SExpr() string {
	var b strings.Builder
	writeSExpr(&b, n)
	return b.String()
}

func writeSExpr(b *strings.Builder, node *Node) {
	if node == nil {
		b.WriteString("()")
		return
	}
	fmt.Fprintf(b, "(%v", node.Type)
	if node.Leaf {
		fmt.Fprintf(b, " %v", quoteAtom(node.Text()))
	}
	for _, child := range node.Children {
		b.WriteString(" ")
		writeSExpr(b, child)
	}
	b.WriteString(")")
}

func quoteAtom(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n()\"") {
		return strconv.Quote(s)
	}
	return s
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Leaf {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.Type, node.Value)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.Type)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
