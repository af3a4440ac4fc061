// Package tables derives ACTION/GOTO parsing tables from a canonical LR
// collection. Conflicting entries are kept side by side and reported as
// conflicts; the package never resolves them by precedence.
package tables

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'kumiko.tables'.
func tracer() tracing.Trace {
	return tracing.Select("kumiko.tables")
}
