package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// itemKey is the identity of an item. la is symbolNil in LR(0) items.
type itemKey struct {
	prod productionNum
	dot  int
	la   symbol
}

func (k itemKey) less(o itemKey) bool {
	if k.prod != o.prod {
		return k.prod < o.prod
	}
	if k.dot != o.dot {
		return k.dot < o.dot
	}
	return k.la < o.la
}

// lrItem is a production with a position in its right-hand side:
//
//	dot 0: E →・E + T
//	dot 1: E → E・+ T
//	dot 3: E → E + T・ (reducible)
type lrItem struct {
	itemKey
	p *production
}

func newItem(p *production, dot int, la symbol) *lrItem {
	return &lrItem{
		itemKey: itemKey{
			prod: p.num,
			dot:  dot,
			la:   la,
		},
		p: p,
	}
}

// dotted returns the symbol right of the dot, or symbolNil for a reducible item.
func (i *lrItem) dotted() symbol {
	if i.dot < len(i.p.rhs) {
		return i.p.rhs[i.dot]
	}
	return symbolNil
}

func (i *lrItem) reducible() bool {
	return i.dot == len(i.p.rhs)
}

func (i *lrItem) advance() *lrItem {
	return newItem(i.p, i.dot+1, i.la)
}

func (i *lrItem) format(symTab *symbolTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", symTab.toLabel(i.p.lhs))
	for n, sym := range i.p.rhs {
		if n == i.dot {
			b.WriteString(" ・")
		}
		b.WriteString(" " + symTab.toLabel(sym))
	}
	if i.reducible() {
		b.WriteString(" ・")
	}
	if !i.la.isNil() {
		b.WriteString(", " + symTab.toLabel(i.la))
	}
	return b.String()
}

// kernel is the sorted set of kernel items of a state. A closure is a function of its kernel, so two states have
// the same item set exactly when their kernels have the same key.
type kernel struct {
	key   string
	items []*lrItem
}

func newKernel(items []*lrItem) *kernel {
	seen := map[itemKey]struct{}{}
	var uniq []*lrItem
	for _, item := range items {
		if _, ok := seen[item.itemKey]; ok {
			continue
		}
		seen[item.itemKey] = struct{}{}
		uniq = append(uniq, item)
	}
	sort.Slice(uniq, func(i, j int) bool {
		return uniq[i].less(uniq[j].itemKey)
	})

	var key strings.Builder
	for _, item := range uniq {
		key.WriteString(strconv.Itoa(int(item.prod)))
		key.WriteByte('.')
		key.WriteString(strconv.Itoa(item.dot))
		key.WriteByte('.')
		key.WriteString(strconv.Itoa(int(item.la)))
		key.WriteByte(';')
	}
	return &kernel{
		key:   key.String(),
		items: uniq,
	}
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}
