/*
Package automaton builds the canonical collection of LR states for a
context-free grammar: the item sets, their goto transitions, and the
per-item lookahead sets needed to derive SLR(1), canonical LR(1), or
LALR(1) parsing tables (the latter by merging the LR(1) collection by
core).

Clients construct a grammar, then ask for a collection in one of the four
modes:

	c, err := automaton.NewCanonicalCollection(g, automaton.ModeLALR1)
	if err != nil { ... }
	start := c.StartState()

The collection and its states are immutable after construction. Conflict
detection is the table builder's concern; the collection reports the
automaton faithfully for the chosen mode.
*/
package automaton

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'kumiko.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("kumiko.automaton")
}
