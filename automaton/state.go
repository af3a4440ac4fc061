package automaton

import (
	"fmt"
	"sort"
)

// State is a set of LR items produced by one closure step, plus the
// outgoing transitions per symbol. Within a state, items are unique per
// LR(0) core; two derivations of the same core have their lookaheads
// merged instead. States are compared and interned solely by their item-set
// key, never by identity or insertion order. Once the collection is built a
// state is sealed and immutable.
type State struct {
	c           *CanonicalCollection
	num         int
	items       []*LRItem
	byCore      map[string]*LRItem
	transitions map[string]int // symbol -> successor state number
	sealed      bool
}

func newState(c *CanonicalCollection, num int, items []*LRItem) *State {
	s := &State{
		c:           c,
		num:         num,
		items:       items,
		byCore:      map[string]*LRItem{},
		transitions: map[string]int{},
	}
	for _, item := range items {
		s.byCore[item.LR0Key()] = item
	}
	return s
}

func (s *State) Number() int {
	return s.num
}

func (s *State) Items() []*LRItem {
	return append([]*LRItem(nil), s.items...)
}

// ItemByKey looks up a specific item by its full key, for re-attachment
// after a goto. Returns nil when no item matches.
func (s *State) ItemByKey(key string) *LRItem {
	for _, item := range s.items {
		if item.Key() == key {
			return item
		}
	}
	return nil
}

func (s *State) itemByCore(core string) *LRItem {
	return s.byCore[core]
}

// Key is the state's identity: the sorted, pipe-joined keys of its items.
func (s *State) Key() string {
	return KeyForItems(s.items)
}

// LR0Key ignores lookaheads; LR(1) states sharing it have the same core
// and are merged in LALR mode.
func (s *State) LR0Key() string {
	return LR0KeyForItems(s.items)
}

// Symbols returns the distinct current symbols of the state's items,
// sorted. These are exactly the symbols with a goto successor.
func (s *State) Symbols() []string {
	seen := map[string]struct{}{}
	var syms []string
	for _, item := range s.items {
		cur := item.CurrentSymbol()
		if cur == "" {
			continue
		}
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		syms = append(syms, cur)
	}
	sort.Strings(syms)
	return syms
}

// Successor returns the state reached by shifting sym, or nil when no
// transition exists.
func (s *State) Successor(sym string) *State {
	num, ok := s.transitions[sym]
	if !ok {
		return nil
	}
	return s.c.stateByNum(num)
}

// Transitions returns the full transition map.
func (s *State) Transitions() map[string]*State {
	m := make(map[string]*State, len(s.transitions))
	for sym, num := range s.transitions {
		m[sym] = s.c.stateByNum(num)
	}
	return m
}

// IsAccept reports whether the state contains the augmented production's
// final item.
func (s *State) IsAccept() bool {
	for _, item := range s.items {
		if item.IsFinal() && item.Production().IsAugmented() {
			return true
		}
	}
	return false
}

func (s *State) setTransition(sym string, num int) {
	if s.sealed {
		panic("automaton: transition added to a sealed state")
	}
	s.transitions[sym] = num
}

// seal freezes the state: items are ordered by key and their lookahead
// sets become immutable.
func (s *State) seal() {
	sort.Slice(s.items, func(i, j int) bool {
		return s.items[i].Key() < s.items[j].Key()
	})
	for _, item := range s.items {
		item.sealed = true
	}
	s.sealed = true
}

func (s *State) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.num, len(s.items))
}
