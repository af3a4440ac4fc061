package automaton

import (
	"fmt"

	"github.com/kumiko-lang/kumiko/grammar"
)

// CanonicalCollection owns the full set of LR states for one grammar and
// mode: the start state, the interning table keyed by item-set identity,
// and the construction algorithm. Construction is a single synchronous
// pass; a built collection is immutable and safe for concurrent readers,
// but a collection must never be shared between concurrent builds.
type CanonicalCollection struct {
	grammar *grammar.Grammar
	sets    *SetsGenerator
	mode    Mode
	byKey   map[string]*State
	states  []*State // discovery order; index == state number once built
	start   int
}

// NewCanonicalCollection builds the canonical collection for g in the
// given mode. A malformed augmented production is reported as an error;
// the collection never falls back to partial construction.
func NewCanonicalCollection(g *grammar.Grammar, mode Mode) (*CanonicalCollection, error) {
	if g == nil {
		return nil, fmt.Errorf("automaton: grammar must be non-nil")
	}
	aug := g.AugmentedProduction()
	if aug == nil || !aug.IsAugmented() || aug.RHSLen() != 1 || aug.RHS()[0] != g.StartSymbol() {
		return nil, fmt.Errorf("automaton: malformed augmented production %v", aug)
	}
	c := &CanonicalCollection{
		grammar: g,
		sets:    NewSetsGenerator(g, mode),
		mode:    mode,
		byKey:   map[string]*State{},
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CanonicalCollection) Grammar() *grammar.Grammar {
	return c.grammar
}

func (c *CanonicalCollection) Mode() Mode {
	return c.mode
}

func (c *CanonicalCollection) Sets() *SetsGenerator {
	return c.sets
}

func (c *CanonicalCollection) StartState() *State {
	return c.states[c.start]
}

// States returns all states in state-number order.
func (c *CanonicalCollection) States() []*State {
	return append([]*State(nil), c.states...)
}

func (c *CanonicalCollection) Size() int {
	return len(c.states)
}

// StateByKey returns the state with the given item-set key, if any.
func (c *CanonicalCollection) StateByKey(key string) (*State, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

func (c *CanonicalCollection) stateByNum(num int) *State {
	return c.states[num]
}

// build runs the fixed-point worklist: close the root item into the start
// state, then compute goto successors until no new state appears, then
// apply the mode's finalization.
func (c *CanonicalCollection) build() error {
	rootLookahead := NewSymbolSet()
	if c.mode.contextual() {
		rootLookahead.Add(c.grammar.EndMarker())
	}
	root := &LRItem{
		c:         c,
		prod:      c.grammar.AugmentedProduction(),
		dot:       0,
		lookahead: rootLookahead,
		state:     noState,
	}
	start, _, err := c.close([]*LRItem{root})
	if err != nil {
		return err
	}
	c.start = start.num
	root.Connect(start)

	worklist := []*State{start}
	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		for _, sym := range s.Symbols() {
			succ, created, err := c.gotoState(s, sym)
			if err != nil {
				return err
			}
			s.setTransition(sym, succ.num)
			tracer().Debugf("goto(%s, %s) = %s", s, sym, succ)
			if created {
				worklist = append(worklist, succ)
			}
		}
	}
	tracer().Infof("canonical %s collection has %d states", c.mode, len(c.states))

	switch c.mode {
	case ModeSLR1:
		if err := c.decorateSLR1(); err != nil {
			return err
		}
	case ModeLALR1:
		c.mergeCores()
		tracer().Infof("LALR merge left %d states", len(c.states))
	}

	c.reindex()
	for _, s := range c.states {
		s.seal()
	}
	return nil
}

// close computes the closure of the seed items and interns the resulting
// state. Seeds and closure-derived items are merged per LR(0) core, with
// lookahead sets unioned on collision; an enlarged item re-enters the
// queue so its own closure children widen too. Reports whether a new state
// was created.
func (c *CanonicalCollection) close(seed []*LRItem) (*State, bool, error) {
	var items []*LRItem
	byCore := map[string]*LRItem{}
	var queue []*LRItem
	for _, item := range seed {
		if prev, ok := byCore[item.LR0Key()]; ok {
			prev.MergeLookaheadSet(item.LookaheadSet())
			continue
		}
		byCore[item.LR0Key()] = item
		items = append(items, item)
		queue = append(queue, item)
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if !item.ShouldClosure() {
			continue
		}
		lookahead := c.closureLookahead(item)
		prods := c.grammar.ProductionsFor(item.CurrentSymbol())
		if len(prods) == 0 {
			return nil, false, fmt.Errorf("automaton: non-terminal %q has no productions", item.CurrentSymbol())
		}
		for _, prod := range prods {
			core := lr0ItemKey(prod, 0)
			if prev, ok := byCore[core]; ok {
				if prev.MergeLookaheadSet(lookahead) {
					queue = append(queue, prev)
				}
				continue
			}
			next := &LRItem{
				c:         c,
				prod:      prod,
				dot:       0,
				lookahead: lookahead.Copy(),
				state:     noState,
			}
			byCore[core] = next
			items = append(items, next)
			queue = append(queue, next)
		}
	}

	key := KeyForItems(items)
	if existing, ok := c.byKey[key]; ok {
		return existing, false, nil
	}
	s := newState(c, len(c.states), items)
	c.states = append(c.states, s)
	c.byKey[key] = s
	return s, true, nil
}

// closureLookahead is the lookahead a closure child inherits from item:
// FIRST of the RHS remainder behind the dotted non-terminal, plus the
// item's own lookahead when that remainder is nullable. In the
// non-contextual modes closure children carry no lookahead.
func (c *CanonicalCollection) closureLookahead(item *LRItem) *SymbolSet {
	if !c.mode.contextual() {
		return NewSymbolSet()
	}
	rest := item.Production().RHS()[item.DotPosition()+1:]
	lookahead := c.sets.FirstOf(rest)
	if c.sets.SequenceNullable(rest) {
		lookahead.Merge(item.LookaheadSet())
	}
	return lookahead
}

// gotoState advances every item of s whose current symbol is sym, closes
// the advanced set, and interns the result. Each moved item caches the
// successor.
func (c *CanonicalCollection) gotoState(s *State, sym string) (*State, bool, error) {
	var moved, advanced []*LRItem
	for _, item := range s.items {
		if item.CurrentSymbol() != sym {
			continue
		}
		next, err := item.Advance()
		if err != nil {
			return nil, false, err
		}
		moved = append(moved, item)
		advanced = append(advanced, next)
	}
	if len(advanced) == 0 {
		return nil, false, fmt.Errorf("automaton: internal error: goto on %q moves no item of state %d", sym, s.num)
	}
	succ, created, err := c.close(advanced)
	if err != nil {
		return nil, false, err
	}
	for _, item := range moved {
		item.Connect(succ)
	}
	return succ, created, nil
}

// decorateSLR1 replaces every reduce item's lookahead set with FOLLOW of
// its LHS; the augmented final item accepts on the end marker.
func (c *CanonicalCollection) decorateSLR1() error {
	for _, s := range c.states {
		for _, item := range s.items {
			if !item.IsFinal() {
				continue
			}
			if item.Production().IsAugmented() {
				item.SetLookaheadSet(NewSymbolSet(c.grammar.EndMarker()))
				continue
			}
			flw, err := c.sets.Follow(item.Production().LHS())
			if err != nil {
				return err
			}
			item.SetLookaheadSet(flw.Copy())
		}
	}
	return nil
}

// mergeCores is the LALR(1)-by-CLR(1) finalization: group states by LR(0)
// key, union the members' per-core item lookaheads into one representative
// per group, retarget every transition and item edge to the
// representatives, and discard the rest. Lookahead sets are shared along
// goto chains, so the representative's items are switched to fresh sets
// before any union; merging in place would leak the union backward into
// unmerged predecessor states. The unions read only the untouched LR(1)
// sets, so one pass over the groups suffices and the result does not
// depend on which member is the representative.
func (c *CanonicalCollection) mergeCores() {
	groups := map[string][]*State{}
	var order []string
	for _, s := range c.states {
		k := s.LR0Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}

	remap := make([]int, len(c.states))
	for i := range remap {
		remap[i] = i
	}
	for _, k := range order {
		members := groups[k]
		if len(members) == 1 {
			continue
		}
		rep := members[0]
		for _, item := range rep.items {
			merged := item.LookaheadSet().Copy()
			for _, m := range members[1:] {
				merged.Merge(m.itemByCore(item.LR0Key()).LookaheadSet())
			}
			item.SetLookaheadSet(merged)
		}
		for _, m := range members[1:] {
			remap[m.num] = rep.num
		}
	}

	// Compact the survivors, renumber contiguously in discovery order, and
	// rewrite every state handle.
	newNum := make([]int, len(c.states))
	var survivors []*State
	for _, s := range c.states {
		if remap[s.num] != s.num {
			newNum[s.num] = -1
			continue
		}
		newNum[s.num] = len(survivors)
		survivors = append(survivors, s)
	}
	resolve := func(old int) int {
		return newNum[remap[old]]
	}
	for _, s := range survivors {
		for sym, t := range s.transitions {
			s.transitions[sym] = resolve(t)
		}
		for _, item := range s.items {
			if item.state != noState {
				item.state = resolve(item.state)
			}
		}
	}
	c.start = resolve(c.start)
	for i, s := range survivors {
		s.num = i
	}
	c.states = survivors
}

// reindex rebuilds the interning table; finalization can change item
// lookaheads and with them the state keys.
func (c *CanonicalCollection) reindex() {
	c.byKey = map[string]*State{}
	for _, s := range c.states {
		c.byKey[s.Key()] = s
	}
}
