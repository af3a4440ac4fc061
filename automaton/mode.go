package automaton

import "fmt"

// Mode selects the lookahead strategy used while building a canonical
// collection.
type Mode int

const (
	// ModeLR0 builds the LR(0) collection; items carry no lookaheads.
	ModeLR0 Mode = iota
	// ModeSLR1 builds the LR(0) collection, then decorates every reduce
	// item with FOLLOW of its LHS.
	ModeSLR1
	// ModeLR1 builds the canonical LR(1) collection with context-sensitive
	// lookaheads.
	ModeLR1
	// ModeLALR1 builds the canonical LR(1) collection first, then merges
	// states whose LR(0) cores coincide, unioning lookaheads.
	ModeLALR1
)

func (m Mode) String() string {
	switch m {
	case ModeLR0:
		return "lr0"
	case ModeSLR1:
		return "slr1"
	case ModeLR1:
		return "lr1"
	case ModeLALR1:
		return "lalr1"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ModeFromString parses a mode name as used on the command line.
func ModeFromString(s string) (Mode, error) {
	switch s {
	case "lr0":
		return ModeLR0, nil
	case "slr1":
		return ModeSLR1, nil
	case "lr1":
		return ModeLR1, nil
	case "lalr1":
		return ModeLALR1, nil
	}
	return 0, fmt.Errorf("unknown LR mode %q (want lr0, slr1, lr1, or lalr1)", s)
}

// contextual reports whether lookaheads are computed per item during
// closure. SLR(1) lookaheads come from the global FOLLOW sets instead.
func (m Mode) contextual() bool {
	return m == ModeLR1 || m == ModeLALR1
}
