// Package bnf reads grammar definitions in a small BNF dialect and turns
// them into grammar objects. A definition is a sequence of rules
//
//	expr : expr '+' term | term ;
//
// optionally preceded by a %start directive naming the start symbol.
// Identifiers that never appear on a left-hand side, and all quoted
// literals, are terminals.
package bnf

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'kumiko.bnf'.
func tracer() tracing.Trace {
	return tracing.Select("kumiko.bnf")
}
