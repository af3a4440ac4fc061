package grammar

import (
	"fmt"
)

// Builder assembles a Grammar rule by rule:
//
//	b := grammar.NewBuilder("expr")
//	b.LHS("E").N("E").T("+").N("E").End()
//	b.LHS("E").T("NUMBER").End()
//	g, err := b.Grammar()
//
// Grammar() augments the result with `$accept → start` and validates it.
// The start symbol defaults to the LHS of the first rule.
type Builder struct {
	name  string
	start string
	rules []*rule
	// symbols declared terminal via T and used as non-terminal via N,
	// cross-checked during Grammar()
	declaredT map[string]struct{}
	usedN     map[string]struct{}
	errs      []error
}

type rule struct {
	lhs string
	rhs []string
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		declaredT: map[string]struct{}{},
		usedN:     map[string]struct{}{},
	}
}

// SetStart overrides the default start symbol.
func (b *Builder) SetStart(name string) *Builder {
	b.start = name
	return b
}

// LHS starts a new rule for the given non-terminal.
func (b *Builder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{b: b, lhs: name, rhs: []string{}}
}

// Grammar builds the augmented, validated grammar.
func (b *Builder) Grammar() (*Grammar, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if len(b.rules) == 0 {
		return nil, fmt.Errorf("grammar %q has no productions", b.name)
	}

	lhsSet := map[string]struct{}{}
	for _, r := range b.rules {
		lhsSet[r.lhs] = struct{}{}
	}

	for _, r := range b.rules {
		if r.lhs == SymbolAccept || r.lhs == SymbolEOF {
			return nil, fmt.Errorf("%q is a reserved symbol and cannot be an LHS", r.lhs)
		}
		for _, sym := range r.rhs {
			if sym == SymbolAccept || sym == SymbolEOF {
				return nil, fmt.Errorf("%q is a reserved symbol and cannot appear on a RHS", sym)
			}
		}
	}
	for name := range b.declaredT {
		if _, ok := lhsSet[name]; ok {
			return nil, fmt.Errorf("symbol %q is declared as a terminal but has productions", name)
		}
	}
	for name := range b.usedN {
		if _, ok := lhsSet[name]; !ok {
			return nil, fmt.Errorf("non-terminal %q has no productions", name)
		}
	}

	start := b.start
	if start == "" {
		start = b.rules[0].lhs
	}
	if _, ok := lhsSet[start]; !ok {
		return nil, fmt.Errorf("start symbol %q has no productions", start)
	}

	g := &Grammar{
		name:     b.name,
		byLHS:    map[string][]*Production{},
		nonTerms: map[string]struct{}{SymbolAccept: {}},
		terms:    map[string]struct{}{},
		start:    start,
	}
	aug := &Production{num: 0, lhs: SymbolAccept, rhs: []string{start}}
	g.prods = append(g.prods, aug)
	g.byLHS[SymbolAccept] = []*Production{aug}
	for i, r := range b.rules {
		prod := &Production{num: i + 1, lhs: r.lhs, rhs: r.rhs}
		g.prods = append(g.prods, prod)
		g.byLHS[r.lhs] = append(g.byLHS[r.lhs], prod)
	}
	for lhs := range lhsSet {
		g.nonTerms[lhs] = struct{}{}
	}
	for _, prod := range g.prods {
		for _, sym := range prod.rhs {
			if _, ok := g.nonTerms[sym]; !ok {
				g.terms[sym] = struct{}{}
			}
		}
	}

	if err := checkProductive(g); err != nil {
		return nil, err
	}

	fp, err := fingerprint(g)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint grammar %q: %w", b.name, err)
	}
	g.fingerprint = fp

	return g, nil
}

// checkProductive verifies that the start symbol can derive at least one
// terminal string. Least fixed point: a non-terminal is productive when some
// production of it has an all-productive RHS.
func checkProductive(g *Grammar) error {
	productive := map[string]bool{}
	for {
		more := false
		for _, prod := range g.prods {
			if productive[prod.lhs] {
				continue
			}
			all := true
			for _, sym := range prod.rhs {
				if g.IsNonTerminal(sym) && !productive[sym] {
					all = false
					break
				}
			}
			if all {
				productive[prod.lhs] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
	if !productive[g.start] {
		return fmt.Errorf("start symbol %q is unproductive", g.start)
	}
	return nil
}

// RuleBuilder collects the RHS of one rule.
type RuleBuilder struct {
	b    *Builder
	lhs  string
	rhs  []string
	done bool
}

// N appends a non-terminal to the RHS.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.b.usedN[name] = struct{}{}
	rb.rhs = append(rb.rhs, name)
	return rb
}

// T appends a terminal to the RHS.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.b.declaredT[name] = struct{}{}
	rb.rhs = append(rb.rhs, name)
	return rb
}

// End finishes the rule.
func (rb *RuleBuilder) End() *Builder {
	rb.finish(rb.rhs)
	return rb.b
}

// Epsilon finishes the rule with an empty RHS.
func (rb *RuleBuilder) Epsilon() *Builder {
	if len(rb.rhs) > 0 {
		rb.b.errs = append(rb.b.errs,
			fmt.Errorf("rule for %q: Epsilon() on a non-empty RHS", rb.lhs))
		return rb.b
	}
	rb.finish(nil)
	return rb.b
}

func (rb *RuleBuilder) finish(rhs []string) {
	if rb.done {
		rb.b.errs = append(rb.b.errs,
			fmt.Errorf("rule for %q finished twice", rb.lhs))
		return
	}
	rb.done = true
	rb.b.rules = append(rb.b.rules, &rule{lhs: rb.lhs, rhs: rhs})
}
