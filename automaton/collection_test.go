package automaton

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/kumiko-lang/kumiko/grammar"
)

func TestStartState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "kumiko.automaton")
	defer teardown()
	c := arithCollection(t, ModeLR1)

	start := c.StartState()
	if start == nil || start.Number() != 0 {
		t.Fatalf("the start state must be state 0, got %v", start)
	}
	root := start.ItemByKey("0|0|$")
	if root == nil {
		t.Fatalf("start state misses the root item; items: %v", start.Items())
	}
	if !root.IsConnected() || root.State() != start {
		t.Fatalf("the root item must cache its closure state")
	}
	// closure($accept -> • E) pulls in every production of E with
	// lookaheads FIRST(rest) ∪ {$}.
	if len(start.Items()) != 6 {
		t.Fatalf("want 6 items in the start state, got %d", len(start.Items()))
	}
	want := NewSymbolSet("$", "+", "-", "*", "/")
	for _, item := range start.Items() {
		if item.Production().IsAugmented() {
			continue
		}
		if !item.LookaheadSet().Equal(want) {
			t.Fatalf("item %v: want lookaheads %v", item, want)
		}
	}
}

func TestAcceptState(t *testing.T) {
	c := arithCollection(t, ModeLR1)

	accept := c.StartState().Successor("E")
	if accept == nil {
		t.Fatalf("no goto on E from the start state")
	}
	if !accept.IsAccept() {
		t.Fatalf("the state reached on the start symbol must contain the accept item")
	}
	var acceptItem *LRItem
	for _, item := range accept.Items() {
		if item.Production().IsAugmented() && item.IsFinal() {
			acceptItem = item
		}
	}
	if acceptItem == nil || acceptItem.IsReduce() {
		t.Fatalf("the accept item must be final but not a reduce")
	}
}

func TestStateInterning(t *testing.T) {
	c := arithCollection(t, ModeLR1)

	// E -> E • + E and E -> E • * E live in the same state; shifting + from
	// any state with that core must yield the identical state object.
	var targets []*State
	for _, s := range c.States() {
		if succ := s.Successor("+"); succ != nil {
			targets = append(targets, succ)
		}
	}
	if len(targets) == 0 {
		t.Fatalf("no state shifts on +")
	}
	for _, s := range c.States() {
		if other, ok := c.StateByKey(s.Key()); !ok || other != s {
			t.Fatalf("state %v is not interned under its own key", s)
		}
	}
}

func TestClosureIsIdempotent(t *testing.T) {
	c := arithCollection(t, ModeLR1)

	for _, s := range c.States() {
		// Re-close a copy of the state's items: the interned result must be
		// the state itself, with nothing new created.
		var seed []*LRItem
		for _, item := range s.Items() {
			seed = append(seed, &LRItem{
				c:         c,
				prod:      item.Production(),
				dot:       item.DotPosition(),
				lookahead: item.LookaheadSet().Copy(),
				state:     noState,
			})
		}
		got, created, err := c.close(seed)
		if err != nil {
			t.Fatalf("state %v: unexpected error: %v", s, err)
		}
		if created {
			t.Fatalf("state %v: re-closing created a new state", s)
		}
		if got != s {
			t.Fatalf("state %v: re-closing returned %v", s, got)
		}
	}
}

func TestLR0ModeCarriesNoLookaheads(t *testing.T) {
	c := arithCollection(t, ModeLR0)

	for _, s := range c.States() {
		for _, item := range s.Items() {
			if !item.LookaheadSet().Empty() {
				t.Fatalf("LR(0) item %v carries lookaheads", item)
			}
			if strings.Contains(item.Key(), "$") {
				t.Fatalf("LR(0) item key %v leaks lookaheads", item.Key())
			}
		}
	}
}

func TestSLR1UsesFollowSets(t *testing.T) {
	g := exprGrammar(t)
	c, err := NewCanonicalCollection(g, ModeSLR1)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}
	sg := c.Sets()

	checked := 0
	for _, s := range c.States() {
		for _, item := range s.Items() {
			if !item.IsReduce() {
				continue
			}
			flw, err := sg.Follow(item.Production().LHS())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !item.LookaheadSet().Equal(flw) {
				t.Fatalf("reduce item %v: want FOLLOW %v", item, flw)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatalf("no reduce items checked")
	}
}

// mergeGrammar is the textbook grammar whose LR(1) collection is strictly
// larger than its LALR(1) one:
//
//	S : C C
//	C : c C | d
func mergeGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("merge")
	b.LHS("S").N("C").N("C").End()
	b.LHS("C").T("c").N("C").End()
	b.LHS("C").T("d").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("failed to build grammar: %v", err)
	}
	return g
}

func TestLALR1MergesLR1Cores(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "kumiko.automaton")
	defer teardown()
	g := mergeGrammar(t)

	clr, err := NewCanonicalCollection(g, ModeLR1)
	if err != nil {
		t.Fatalf("failed to build LR(1) collection: %v", err)
	}
	lalr, err := NewCanonicalCollection(g, ModeLALR1)
	if err != nil {
		t.Fatalf("failed to build LALR(1) collection: %v", err)
	}

	if clr.Size() != 10 {
		t.Fatalf("want 10 LR(1) states, got %d", clr.Size())
	}
	cores := map[string]struct{}{}
	for _, s := range clr.States() {
		cores[s.LR0Key()] = struct{}{}
	}
	if lalr.Size() != len(cores) {
		t.Fatalf("want one LALR state per LR(0) core (%d), got %d", len(cores), lalr.Size())
	}
	if lalr.Size() != 7 {
		t.Fatalf("want 7 LALR states, got %d", lalr.Size())
	}

	// Each merged item's lookahead set is the union over all pre-merge
	// items sharing its LR(0) core within the same core group.
	for _, ls := range lalr.States() {
		for _, item := range ls.Items() {
			want := NewSymbolSet()
			for _, cs := range clr.States() {
				if cs.LR0Key() != ls.LR0Key() {
					continue
				}
				pre := cs.itemByCore(item.LR0Key())
				if pre == nil {
					t.Fatalf("LR(1) state %v misses core %v", cs, item.LR0Key())
				}
				want.Merge(pre.LookaheadSet())
			}
			if !item.LookaheadSet().Equal(want) {
				t.Fatalf("item %v: want merged lookaheads %v", item, want)
			}
		}
	}

	// C -> d • must end up reducible on c, d, and $ after the merge.
	var reduceD *LRItem
	for _, s := range lalr.States() {
		if item := s.itemByCore("3|1"); item != nil {
			reduceD = item
		}
	}
	if reduceD == nil {
		t.Fatalf("no state holds C -> d •")
	}
	if want := NewSymbolSet("$", "c", "d"); !reduceD.LookaheadSet().Equal(want) {
		t.Fatalf("C -> d •: want lookaheads %v, got %v", want, reduceD.LookaheadSet())
	}
}

func TestLALR1MergeKeepsPredecessorLookaheads(t *testing.T) {
	// p and q put A into different follow contexts; only the two A -> a •
	// states share a core and get merged. The union must stay inside the
	// merge group: the predecessor states still telling the contexts apart
	// keep their own lookaheads, even though their item sets are shared
	// with the merged kernels.
	b := grammar.NewBuilder("ctx")
	b.LHS("S").T("p").N("A").T("x").End()
	b.LHS("S").T("q").N("A").T("y").End()
	b.LHS("A").T("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("failed to build grammar: %v", err)
	}
	c, err := NewCanonicalCollection(g, ModeLALR1)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	sp := c.StartState().Successor("p")
	sq := c.StartState().Successor("q")
	if sp == nil || sq == nil {
		t.Fatalf("the start state must shift on both p and q")
	}
	for _, tt := range []struct {
		state *State
		want  *SymbolSet
	}{
		{sp, NewSymbolSet("x")},
		{sq, NewSymbolSet("y")},
	} {
		item := tt.state.itemByCore("3|0")
		if item == nil {
			t.Fatalf("state %v misses the item A -> • a", tt.state)
		}
		if !item.LookaheadSet().Equal(tt.want) {
			t.Fatalf("state %v item %v: want lookaheads %v", tt.state, item, tt.want)
		}
	}

	ra := sp.Successor("a")
	if ra == nil || ra != sq.Successor("a") {
		t.Fatalf("both contexts must shift a into the one merged state")
	}
	reduce := ra.itemByCore("3|1")
	if reduce == nil {
		t.Fatalf("state %v misses the item A -> a •", ra)
	}
	if want := NewSymbolSet("x", "y"); !reduce.LookaheadSet().Equal(want) {
		t.Fatalf("A -> a •: want lookaheads %v, got %v", want, reduce.LookaheadSet())
	}
}

func TestLALR1TransitionsAreRetargeted(t *testing.T) {
	lalr, err := NewCanonicalCollection(mergeGrammar(t), ModeLALR1)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	// Every transition must point at a surviving, renumbered state, and
	// every state must be reachable from the start state.
	seen := map[int]struct{}{}
	worklist := []*State{lalr.StartState()}
	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		if _, ok := seen[s.Number()]; ok {
			continue
		}
		seen[s.Number()] = struct{}{}
		for sym, succ := range s.Transitions() {
			if succ == nil {
				t.Fatalf("state %v: dangling transition on %q", s, sym)
			}
			if succ.Number() < 0 || succ.Number() >= lalr.Size() {
				t.Fatalf("state %v: transition on %q to invalid state %d", s, sym, succ.Number())
			}
			worklist = append(worklist, succ)
		}
	}
	if len(seen) != lalr.Size() {
		t.Fatalf("only %d of %d states reachable after the merge", len(seen), lalr.Size())
	}
	for _, s := range lalr.States() {
		for _, item := range s.Items() {
			if item.IsConnected() && item.State() == nil {
				t.Fatalf("item %v: dangling state handle", item)
			}
		}
	}
}

func TestLALR1EqualsLR0StateCount(t *testing.T) {
	// LALR merging by construction yields the LR(0) automaton's state
	// count.
	g := mergeGrammar(t)
	lr0, err := NewCanonicalCollection(g, ModeLR0)
	if err != nil {
		t.Fatalf("failed to build LR(0) collection: %v", err)
	}
	lalr, err := NewCanonicalCollection(g, ModeLALR1)
	if err != nil {
		t.Fatalf("failed to build LALR(1) collection: %v", err)
	}
	if lr0.Size() != lalr.Size() {
		t.Fatalf("LR(0) has %d states, LALR(1) has %d", lr0.Size(), lalr.Size())
	}
}

func TestEpsilonProductionClosure(t *testing.T) {
	g := epsilonGrammar(t)
	c, err := NewCanonicalCollection(g, ModeLR1)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	// The start state closes s -> • foo B, so it holds the immediately
	// final item foo -> • with lookahead FIRST(B) = {B}.
	var eps *LRItem
	for _, item := range c.StartState().Items() {
		if item.IsEpsilonTransition() {
			eps = item
		}
	}
	if eps == nil {
		t.Fatalf("start state misses the epsilon item")
	}
	if !eps.IsFinal() || !eps.IsReduce() {
		t.Fatalf("the epsilon item must be final and reduce: %v", eps)
	}
	if want := NewSymbolSet("B"); !eps.LookaheadSet().Equal(want) {
		t.Fatalf("epsilon item: want lookaheads %v, got %v", want, eps.LookaheadSet())
	}
}

func TestSealedStatesRejectMutation(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	item := c.StartState().Items()[0]

	defer func() {
		if recover() == nil {
			t.Fatalf("mutating a sealed item must panic")
		}
	}()
	item.MergeLookaheadSet(NewSymbolSet("+"))
}

func TestNilGrammarFailsFast(t *testing.T) {
	if _, err := NewCanonicalCollection(nil, ModeLR1); err == nil {
		t.Fatalf("a nil grammar must be rejected")
	}
}
