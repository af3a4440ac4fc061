// Package grammar holds the context-free grammar model consumed by the
// automaton builder: an ordered sequence of numbered productions, symbol
// classification by name, and the augmented start production.
//
// A name is a non-terminal iff it appears as some production's LHS; every
// other name occurring on a RHS is a terminal. Grammars are immutable once
// built; use a Builder to assemble one.
package grammar

import (
	"sort"

	"github.com/cnf/structhash"
)

type Grammar struct {
	name        string
	prods       []*Production // prods[0] is the augmented production
	byLHS       map[string][]*Production
	nonTerms    map[string]struct{}
	terms       map[string]struct{}
	start       string
	fingerprint string
}

func (g *Grammar) Name() string {
	return g.name
}

// AugmentedProduction returns the synthetic `$accept → start` production.
func (g *Grammar) AugmentedProduction() *Production {
	return g.prods[0]
}

func (g *Grammar) Production(num int) (*Production, bool) {
	if num < 0 || num >= len(g.prods) {
		return nil, false
	}
	return g.prods[num], true
}

// Productions returns all productions in definition order, the augmented
// production first.
func (g *Grammar) Productions() []*Production {
	return append([]*Production(nil), g.prods...)
}

// ProductionsFor returns the productions whose LHS is lhs, in definition
// order.
func (g *Grammar) ProductionsFor(lhs string) []*Production {
	return g.byLHS[lhs]
}

func (g *Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.nonTerms[sym]
	return ok
}

// KindOf classifies a symbol by name. Unknown names count as terminals,
// matching the name-based classification rule.
func (g *Grammar) KindOf(sym string) SymbolKind {
	if g.IsNonTerminal(sym) {
		return SymbolNonTerminal
	}
	return SymbolTerminal
}

// IsTerminal reports whether sym is a terminal. The end-of-input marker
// counts as a terminal; it is always a valid lookahead.
func (g *Grammar) IsTerminal(sym string) bool {
	if sym == SymbolEOF {
		return true
	}
	_, ok := g.terms[sym]
	return ok
}

// Terminals returns the terminal names sorted by name, excluding the
// end-of-input marker.
func (g *Grammar) Terminals() []string {
	return sortedNames(g.terms)
}

// NonTerminals returns the non-terminal names sorted by name, including the
// augmented start symbol.
func (g *Grammar) NonTerminals() []string {
	return sortedNames(g.nonTerms)
}

func (g *Grammar) StartSymbol() string {
	return g.start
}

// EndMarker returns the end-of-input symbol `$`.
func (g *Grammar) EndMarker() string {
	return SymbolEOF
}

// Fingerprint returns a stable hash of the grammar's definition. It is
// embedded in compiled output so consumers can tell which grammar a table
// was generated from.
func (g *Grammar) Fingerprint() string {
	return g.fingerprint
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type fingerprintModel struct {
	Name        string
	Start       string
	Productions []string
}

func fingerprint(g *Grammar) (string, error) {
	m := fingerprintModel{
		Name:  g.name,
		Start: g.start,
	}
	for _, prod := range g.prods {
		m.Productions = append(m.Productions, prod.String())
	}
	return structhash.Hash(m, 1)
}
