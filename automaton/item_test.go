package automaton

import (
	"testing"

	"github.com/kumiko-lang/kumiko/grammar"
)

// The arithmetic grammar used throughout:
//
//	E -> E + E | E - E | E * E | E / E | NUMBER
//
// augmented as $accept -> E.
func arithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("arith")
	b.LHS("E").N("E").T("+").N("E").End()
	b.LHS("E").N("E").T("-").N("E").End()
	b.LHS("E").N("E").T("*").N("E").End()
	b.LHS("E").N("E").T("/").N("E").End()
	b.LHS("E").T("NUMBER").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("failed to build grammar: %v", err)
	}
	return g
}

func arithCollection(t *testing.T, mode Mode) *CanonicalCollection {
	t.Helper()
	c, err := NewCanonicalCollection(arithGrammar(t), mode)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}
	return c
}

// testItem constructs an unmanaged item for unit tests; the collection is
// only used for symbol classification.
func testItem(c *CanonicalCollection, num int, dot int, lookahead *SymbolSet) *LRItem {
	prod, ok := c.Grammar().Production(num)
	if !ok {
		panic("no such production")
	}
	return &LRItem{c: c, prod: prod, dot: dot, lookahead: lookahead, state: noState}
}

func TestAdvance(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	i := testItem(c, 1, 0, NewSymbolSet("$", "+", "-", "*", "/"))

	j, err := i.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.DotPosition() != i.DotPosition()+1 {
		t.Fatalf("want dot %v, got %v", i.DotPosition()+1, j.DotPosition())
	}
	if j.Production() != i.Production() {
		t.Fatalf("advance must keep the production identity")
	}
	if j.LookaheadSet() != i.LookaheadSet() {
		t.Fatalf("advance must share the lookahead set, not copy it")
	}

	// E -> E • + E  →  E -> E + • E  →  E -> E + E •
	j, err = j.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j, err = j.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !j.IsFinal() || !j.IsReduce() {
		t.Fatalf("item at the RHS end must be final and reduce: %v", j)
	}
	if _, err := j.Advance(); err == nil {
		t.Fatalf("advance on a final item must fail")
	}
}

func TestAcceptItem(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	root := testItem(c, 0, 0, NewSymbolSet("$"))

	accept, err := root.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !accept.IsFinal() {
		t.Fatalf("$accept -> E • must be final")
	}
	if accept.IsReduce() {
		t.Fatalf("the augmented production's final item is the accept action, not a reduce")
	}
}

func TestItemKeys(t *testing.T) {
	c := arithCollection(t, ModeLR1)

	root := testItem(c, 0, 0, NewSymbolSet("$"))
	if root.Key() != "0|0|$" {
		t.Fatalf("want key 0|0|$, got %v", root.Key())
	}

	i := testItem(c, 1, 0, NewSymbolSet("$", "+", "-", "*", "/"))
	// Lookaheads render in name-sorted order.
	if i.Key() != "1|0|$|*|+|-|/" {
		t.Fatalf("unexpected key: %v", i.Key())
	}
	if i.LR0Key() != "1|0" {
		t.Fatalf("unexpected LR0 key: %v", i.LR0Key())
	}

	// The LR0 key ignores lookaheads entirely.
	j := testItem(c, 1, 0, NewSymbolSet("$"))
	if i.Key() == j.Key() {
		t.Fatalf("items with different lookaheads must have different keys")
	}
	if i.LR0Key() != j.LR0Key() {
		t.Fatalf("items differing only in lookahead must share an LR0 key")
	}

	// Item-set keys are insertion-order independent.
	if KeyForItems([]*LRItem{i, root}) != KeyForItems([]*LRItem{root, i}) {
		t.Fatalf("KeyForItems must not depend on item order")
	}
}

func TestItemClassification(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	tests := []struct {
		caption       string
		item          *LRItem
		cur           string
		shouldClosure bool
		isShift       bool
		isFinal       bool
		isReduce      bool
	}{
		{
			caption:       "dot before a non-terminal",
			item:          testItem(c, 1, 0, NewSymbolSet()),
			cur:           "E",
			shouldClosure: true,
		},
		{
			caption: "dot before a terminal",
			item:    testItem(c, 1, 1, NewSymbolSet()),
			cur:     "+",
			isShift: true,
		},
		{
			caption:  "dot at the end",
			item:     testItem(c, 1, 3, NewSymbolSet()),
			isFinal:  true,
			isReduce: true,
		},
		{
			caption: "accept item",
			item:    testItem(c, 0, 1, NewSymbolSet()),
			isFinal: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if v := tt.item.CurrentSymbol(); v != tt.cur {
				t.Errorf("CurrentSymbol: want %q, got %q", tt.cur, v)
			}
			if v := tt.item.ShouldClosure(); v != tt.shouldClosure {
				t.Errorf("ShouldClosure: want %v, got %v", tt.shouldClosure, v)
			}
			if v := tt.item.IsShift(); v != tt.isShift {
				t.Errorf("IsShift: want %v, got %v", tt.isShift, v)
			}
			if v := tt.item.IsFinal(); v != tt.isFinal {
				t.Errorf("IsFinal: want %v, got %v", tt.isFinal, v)
			}
			if v := tt.item.IsReduce(); v != tt.isReduce {
				t.Errorf("IsReduce: want %v, got %v", tt.isReduce, v)
			}
		})
	}
}

func TestEpsilonItem(t *testing.T) {
	b := grammar.NewBuilder("eps")
	b.LHS("s").N("foo").T("B").End()
	b.LHS("foo").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("failed to build grammar: %v", err)
	}
	c, err := NewCanonicalCollection(g, ModeLR1)
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	i := testItem(c, 2, 0, NewSymbolSet("B"))
	if !i.IsEpsilonTransition() {
		t.Fatalf("an item over an epsilon production must report IsEpsilonTransition")
	}
	if !i.IsFinal() {
		t.Fatalf("an item over an epsilon production is immediately final")
	}

	j := testItem(c, 1, 0, NewSymbolSet())
	if j.IsEpsilonTransition() {
		t.Fatalf("non-empty RHS must not report IsEpsilonTransition")
	}
}

func TestMergeLookaheadSet(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	i := testItem(c, 1, 3, NewSymbolSet("$", "+"))

	if changed := i.MergeLookaheadSet(NewSymbolSet("*")); !changed {
		t.Fatalf("merging a new symbol must report a change")
	}
	if changed := i.MergeLookaheadSet(NewSymbolSet("*")); changed {
		t.Fatalf("re-merging the same symbol must not report a change")
	}
	want := NewSymbolSet("$", "+", "*")
	if !i.LookaheadSet().Equal(want) {
		t.Fatalf("want lookaheads %v, got %v", want, i.LookaheadSet())
	}
	if got := i.String(); got != `E -> E + E •, #lookaheads= ["$", "*", "+"]` {
		t.Fatalf("unexpected string form: %v", got)
	}
}

func TestItemString(t *testing.T) {
	c := arithCollection(t, ModeLR1)
	tests := []struct {
		item *LRItem
		want string
	}{
		{
			item: testItem(c, 0, 0, NewSymbolSet("$")),
			want: `$accept -> • E, #lookaheads= ["$"]`,
		},
		{
			item: testItem(c, 0, 1, NewSymbolSet("$")),
			want: `$accept -> E •, #lookaheads= ["$"]`,
		},
		{
			item: testItem(c, 1, 1, NewSymbolSet("$", "+")),
			want: `E -> E • + E, #lookaheads= ["$", "+"]`,
		},
		{
			// No lookahead marker when the set is empty.
			item: testItem(c, 5, 0, NewSymbolSet()),
			want: `E -> • NUMBER`,
		},
	}
	for _, tt := range tests {
		if got := tt.item.String(); got != tt.want {
			t.Errorf("want %q, got %q", tt.want, got)
		}
	}
}

func TestSymbolSetMergeIsOrderIndependent(t *testing.T) {
	a := NewSymbolSet("$", "+")
	b := NewSymbolSet("*", "+")

	ab := a.Copy()
	ab.Merge(b)
	ba := b.Copy()
	ba.Merge(a)
	if !ab.Equal(ba) {
		t.Fatalf("set union must be order-independent: %v vs %v", ab, ba)
	}
	if ab.key() != ba.key() {
		t.Fatalf("canonical serialization must be order-independent: %v vs %v", ab.key(), ba.key())
	}
}
