package grammar

import (
	"strings"
)

// Production is one grammar rule. Productions are numbered in definition
// order; number 0 is always the augmented start production `$accept → start`.
type Production struct {
	num int
	lhs string
	rhs []string
}

func (p *Production) Number() int {
	return p.num
}

func (p *Production) LHS() string {
	return p.lhs
}

// RHS returns the right-hand side symbols. Callers must not modify the
// returned slice.
func (p *Production) RHS() []string {
	return p.rhs
}

func (p *Production) RHSLen() int {
	return len(p.rhs)
}

// IsEpsilon reports whether the RHS is the empty sequence.
func (p *Production) IsEpsilon() bool {
	return len(p.rhs) == 0
}

// IsAugmented reports whether this is the synthetic `$accept → start`
// production.
func (p *Production) IsAugmented() bool {
	return p.num == 0
}

func (p *Production) String() string {
	if p.IsEpsilon() {
		return p.lhs + " -> ε"
	}
	return p.lhs + " -> " + strings.Join(p.rhs, " ")
}
