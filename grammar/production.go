package grammar

type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
	productionNumMin   = productionNum(2)
)

func (n productionNum) Int() int {
	return int(n)
}

// production is a rule in symbol form. rule is nil for the augmented start production.
type production struct {
	num  productionNum
	lhs  symbol
	rhs  []symbol
	rule *Rule
}

func (p *production) isEmpty() bool {
	return len(p.rhs) == 0
}

// productionSet numbers productions as they are added: the augmented start production gets productionNumStart,
// the others get consecutive numbers from productionNumMin.
type productionSet struct {
	prods []*production
	byNum map[productionNum]*production
	byLHS map[symbol][]*production
	next  productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		byNum: map[productionNum]*production{},
		byLHS: map[symbol][]*production{},
		next:  productionNumMin,
	}
}

func (ps *productionSet) add(lhs symbol, rhs []symbol, rule *Rule) *production {
	p := &production{
		lhs:  lhs,
		rhs:  rhs,
		rule: rule,
	}
	if lhs.isStart() {
		p.num = productionNumStart
	} else {
		p.num = ps.next
		ps.next++
	}
	ps.prods = append(ps.prods, p)
	ps.byNum[p.num] = p
	ps.byLHS[lhs] = append(ps.byLHS[lhs], p)
	return p
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	p, ok := ps.byNum[num]
	return p, ok
}

// alternatives returns the productions of a non-terminal in declaration order.
func (ps *productionSet) alternatives(lhs symbol) []*production {
	return ps.byLHS[lhs]
}

// all returns every production in declaration order, the augmented start production first.
func (ps *productionSet) all() []*production {
	return ps.prods
}
