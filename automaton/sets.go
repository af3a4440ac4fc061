package automaton

import (
	"fmt"

	"github.com/kumiko-lang/kumiko/grammar"
)

// SetsGenerator computes the lookahead-propagation primitives for one
// grammar: the nullable set, FIRST sets, and FOLLOW sets. All three are
// least fixed points; iteration always terminates because the sets grow
// monotonically over a finite alphabet, cyclic epsilon derivations
// included.
type SetsGenerator struct {
	g        *grammar.Grammar
	mode     Mode
	nullable map[string]bool
	firsts   map[string]*SymbolSet
	follows  map[string]*SymbolSet
}

func NewSetsGenerator(g *grammar.Grammar, mode Mode) *SetsGenerator {
	sg := &SetsGenerator{g: g, mode: mode}
	sg.computeNullable()
	sg.computeFirsts()
	sg.computeFollows()
	return sg
}

func (sg *SetsGenerator) Mode() Mode {
	return sg.mode
}

// Nullable reports whether sym can derive the empty string.
func (sg *SetsGenerator) Nullable(sym string) bool {
	if sg.g.IsTerminal(sym) {
		return false
	}
	return sg.nullable[sym]
}

// SequenceNullable reports whether every symbol of seq is nullable. The
// empty sequence is nullable.
func (sg *SetsGenerator) SequenceNullable(seq []string) bool {
	for _, sym := range seq {
		if !sg.Nullable(sym) {
			return false
		}
	}
	return true
}

// FirstOf returns the terminals that can begin some derivation of seq.
// When the whole sequence is nullable the result does not implicitly
// include any inherited lookahead; that union is the caller's
// responsibility.
func (sg *SetsGenerator) FirstOf(seq []string) *SymbolSet {
	first := NewSymbolSet()
	for _, sym := range seq {
		if sg.g.IsTerminal(sym) {
			first.Add(sym)
			break
		}
		first.Merge(sg.firsts[sym])
		if !sg.nullable[sym] {
			break
		}
	}
	return first
}

// Follow returns FOLLOW(nonTerm). Used as the item lookahead in SLR(1)
// mode, where lookaheads ignore item context.
func (sg *SetsGenerator) Follow(nonTerm string) (*SymbolSet, error) {
	flw, ok := sg.follows[nonTerm]
	if !ok {
		return nil, fmt.Errorf("automaton: no FOLLOW entry for %q", nonTerm)
	}
	return flw, nil
}

func (sg *SetsGenerator) computeNullable() {
	sg.nullable = map[string]bool{}
	for {
		more := false
		for _, prod := range sg.g.Productions() {
			if sg.nullable[prod.LHS()] {
				continue
			}
			if sg.SequenceNullable(prod.RHS()) {
				sg.nullable[prod.LHS()] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
}

func (sg *SetsGenerator) computeFirsts() {
	sg.firsts = map[string]*SymbolSet{}
	for _, nt := range sg.g.NonTerminals() {
		sg.firsts[nt] = NewSymbolSet()
	}
	for {
		more := false
		for _, prod := range sg.g.Productions() {
			acc := sg.firsts[prod.LHS()]
			for _, sym := range prod.RHS() {
				if sg.g.IsTerminal(sym) {
					if acc.Add(sym) {
						more = true
					}
					break
				}
				if acc.Merge(sg.firsts[sym]) {
					more = true
				}
				if !sg.nullable[sym] {
					break
				}
			}
		}
		if !more {
			break
		}
	}
}

func (sg *SetsGenerator) computeFollows() {
	sg.follows = map[string]*SymbolSet{}
	for _, nt := range sg.g.NonTerminals() {
		sg.follows[nt] = NewSymbolSet()
	}
	// The end marker follows the augmented start symbol; `$accept → start`
	// propagates it to the start symbol.
	sg.follows[sg.g.AugmentedProduction().LHS()].Add(sg.g.EndMarker())
	for {
		more := false
		for _, prod := range sg.g.Productions() {
			rhs := prod.RHS()
			for i, sym := range rhs {
				if sg.g.IsTerminal(sym) {
					continue
				}
				rest := rhs[i+1:]
				if sg.follows[sym].Merge(sg.FirstOf(rest)) {
					more = true
				}
				if sg.SequenceNullable(rest) {
					if sg.follows[sym].Merge(sg.follows[prod.LHS()]) {
						more = true
					}
				}
			}
		}
		if !more {
			break
		}
	}
}
