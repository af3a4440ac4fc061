package automaton

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kumiko-lang/kumiko/grammar"
)

// noState marks an item without a cached successor state.
const noState = -1

// LRItem is one dotted production with an associated lookahead set. The
// lookahead set is empty and unused in LR(0) mode; SLR(1) fills it from
// FOLLOW after construction. Items are created by the canonical collection
// during closure and goto; production and dot position are immutable, the
// lookahead set may be merged or replaced until the owning state is sealed.
type LRItem struct {
	c         *CanonicalCollection
	prod      *grammar.Production
	dot       int
	lookahead *SymbolSet

	// state caches the successor reached from this item (the goto target
	// for shift items, the closure result for the root item). It is a
	// number into the collection's state table, not a reference: merging
	// LALR states retargets it with a plain integer rewrite.
	state  int
	sealed bool
}

func (i *LRItem) Production() *grammar.Production {
	return i.prod
}

func (i *LRItem) DotPosition() int {
	return i.dot
}

// CurrentSymbol returns the RHS symbol immediately after the dot, or the
// empty string when the dot is at the end.
func (i *LRItem) CurrentSymbol() string {
	if i.dot >= i.prod.RHSLen() {
		return ""
	}
	return i.prod.RHS()[i.dot]
}

// Advance returns a new item with the dot moved one symbol to the right.
// The lookahead set is shared with the receiver, not copied: advancing
// never changes which follow symbols are valid for the completed
// production. Advancing a final item is a caller bug.
func (i *LRItem) Advance() (*LRItem, error) {
	if i.IsFinal() {
		return nil, fmt.Errorf("automaton: internal error: advance on final item %v", i)
	}
	return &LRItem{
		c:         i.c,
		prod:      i.prod,
		dot:       i.dot + 1,
		lookahead: i.lookahead,
		state:     noState,
	}, nil
}

// LookaheadSet returns the live lookahead set; callers must not assume
// copy semantics.
func (i *LRItem) LookaheadSet() *SymbolSet {
	return i.lookahead
}

// SetLookaheadSet replaces the lookahead set wholesale.
func (i *LRItem) SetLookaheadSet(s *SymbolSet) {
	if i.sealed {
		panic("automaton: lookahead mutation on a sealed item")
	}
	i.lookahead = s
}

// MergeLookaheadSet unions s into the lookahead set in place, reporting
// whether it changed. This is the operation that keeps a state's items
// unique per LR(0) core when two derivations produce different lookaheads.
func (i *LRItem) MergeLookaheadSet(s *SymbolSet) bool {
	if i.sealed {
		panic("automaton: lookahead mutation on a sealed item")
	}
	return i.lookahead.Merge(s)
}

// Key is the item's canonical identity: production number, dot position,
// and the lookahead members, pipe-joined in the set's name-sorted order.
func (i *LRItem) Key() string {
	return itemKey(i.prod, i.dot, i.lookahead)
}

// LR0Key is Key without the lookahead part; items differing only in
// lookahead share it. Used for LALR core merging.
func (i *LRItem) LR0Key() string {
	return lr0ItemKey(i.prod, i.dot)
}

// ShouldClosure reports whether the current symbol is a non-terminal, i.e.
// whether closure expands this item. Terminal-led items are shift
// candidates and never need closure.
func (i *LRItem) ShouldClosure() bool {
	cur := i.CurrentSymbol()
	return cur != "" && i.c.grammar.IsNonTerminal(cur)
}

// IsShift reports whether the current symbol exists and is a terminal.
func (i *LRItem) IsShift() bool {
	cur := i.CurrentSymbol()
	return cur != "" && i.c.grammar.IsTerminal(cur)
}

// IsFinal reports whether the dot is at the end of the RHS.
func (i *LRItem) IsFinal() bool {
	return i.dot == i.prod.RHSLen()
}

// IsReduce reports whether this is a reduce item. The augmented
// production's final item is the accept action, not a reduce.
func (i *LRItem) IsReduce() bool {
	return i.IsFinal() && !i.prod.IsAugmented()
}

// IsEpsilonTransition reports whether the production's RHS is empty; such
// an item is immediately final.
func (i *LRItem) IsEpsilonTransition() bool {
	return i.prod.IsEpsilon()
}

// State returns the cached successor state, or nil when none has been
// computed for this item.
func (i *LRItem) State() *State {
	if i.state == noState {
		return nil
	}
	return i.c.stateByNum(i.state)
}

// Connect caches s as this item's successor. Used during construction and
// when LALR merging retargets an item's outgoing edge to the merged
// representative.
func (i *LRItem) Connect(s *State) {
	i.state = s.num
}

func (i *LRItem) IsConnected() bool {
	return i.state != noState
}

// String renders the dotted production for diagnostics, e.g.
//
//	E -> • E + E, #lookaheads= ["$", "+"]
//
// The lookahead suffix is omitted when the set is empty. The exact format
// is golden-tested; keep it stable.
func (i *LRItem) String() string {
	var b strings.Builder
	b.WriteString(i.prod.LHS())
	b.WriteString(" ->")
	rhs := i.prod.RHS()
	for j := 0; j <= len(rhs); j++ {
		if j == i.dot {
			b.WriteString(" •")
		}
		if j < len(rhs) {
			b.WriteString(" ")
			b.WriteString(rhs[j])
		}
	}
	if i.lookahead != nil && !i.lookahead.Empty() {
		b.WriteString(", #lookaheads= ")
		b.WriteString(i.lookahead.String())
	}
	return b.String()
}

func lr0ItemKey(prod *grammar.Production, dot int) string {
	return strconv.Itoa(prod.Number()) + "|" + strconv.Itoa(dot)
}

func itemKey(prod *grammar.Production, dot int, lookahead *SymbolSet) string {
	key := lr0ItemKey(prod, dot)
	if lookahead != nil && !lookahead.Empty() {
		key += "|" + lookahead.key()
	}
	return key
}

// KeyForItems gives a canonical, order-independent identity for a whole
// item set: the per-item keys sorted lexicographically and pipe-joined.
// Sorting is mandatory: item insertion order during closure must not
// influence state identity.
func KeyForItems(items []*LRItem) string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// LR0KeyForItems is KeyForItems over LR(0) keys, used for grouping states
// when merging an LR(1) collection into LALR(1).
func LR0KeyForItems(items []*LRItem) string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.LR0Key())
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}
