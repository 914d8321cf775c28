/*
Package tablecache memoizes parse tables by a fingerprint of the grammar they were built from.
*/
package tablecache

import (
	"fmt"
	"sync"

	"github.com/cnf/structhash"
	"github.com/nihei9/lrgen/grammar"
)

type symbolKey struct {
	Terminal bool
	Label    string
}

type ruleKey struct {
	Head string
	Body []symbolKey
}

// grammarKey is the normalized form of a grammar and a construction strategy. Two grammars with equal keys produce
// equal tables.
type grammarKey struct {
	Rules    []ruleKey
	Start    int
	Strategy string
}

// Fingerprint returns the cache key of a grammar built under a strategy.
func Fingerprint(g *grammar.Grammar, strategy grammar.Strategy) (string, error) {
	k := grammarKey{
		Strategy: string(strategy),
		Start:    -1,
	}
	for i, r := range g.Rules() {
		body := make([]symbolKey, len(r.Body))
		for j, sym := range r.Body {
			body[j] = symbolKey{
				Terminal: sym.IsTerminal(),
				Label:    sym.Label,
			}
		}
		k.Rules = append(k.Rules, ruleKey{
			Head: r.Head,
			Body: body,
		})
		if r == g.StartRule() {
			k.Start = i
		}
	}
	return structhash.Hash(k, 1)
}

type entry struct {
	once sync.Once
	tab  *grammar.ParseTable
	err  error
}

// Cache builds each table once. A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	hits    int
	misses  int
}

func New() *Cache {
	return &Cache{
		entries: map[string]*entry{},
	}
}

// Get returns the table of a grammar, building it on the first request. Build failures are cached as well.
func (c *Cache) Get(g *grammar.Grammar, strategy grammar.Strategy) (*grammar.ParseTable, error) {
	if g == nil {
		return nil, fmt.Errorf("a grammar is required")
	}
	key, err := Fingerprint(g, strategy)
	if err != nil {
		return nil, fmt.Errorf("cannot fingerprint the grammar: %w", err)
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.tab, e.err = grammar.BuildParseTable(g, strategy)
	})
	return e.tab, e.err
}

// Stats returns the number of lookups that found an entry and the number that created one.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
