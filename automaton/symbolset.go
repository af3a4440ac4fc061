package automaton

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// SymbolSet is a set of terminal symbol names. Members are kept ordered by
// name, which makes the serialization used for item keys and diagnostics
// deterministic.
type SymbolSet struct {
	set *treeset.Set
}

func NewSymbolSet(syms ...string) *SymbolSet {
	s := &SymbolSet{set: treeset.NewWith(utils.StringComparator)}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

// Add inserts sym, reporting whether the set changed.
func (s *SymbolSet) Add(sym string) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

func (s *SymbolSet) Contains(sym string) bool {
	return s.set.Contains(sym)
}

func (s *SymbolSet) Size() int {
	return s.set.Size()
}

func (s *SymbolSet) Empty() bool {
	return s.set.Empty()
}

// Merge unions other into s in place, reporting whether s changed.
func (s *SymbolSet) Merge(other *SymbolSet) bool {
	if other == nil {
		return false
	}
	changed := false
	for _, sym := range other.Symbols() {
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *SymbolSet) Copy() *SymbolSet {
	return NewSymbolSet(s.Symbols()...)
}

// Symbols returns the members sorted by name.
func (s *SymbolSet) Symbols() []string {
	syms := make([]string, 0, s.set.Size())
	for _, v := range s.set.Values() {
		syms = append(syms, v.(string))
	}
	return syms
}

// Equal reports whether both sets contain the same names.
func (s *SymbolSet) Equal(other *SymbolSet) bool {
	if other == nil || s.Size() != other.Size() {
		return false
	}
	for _, sym := range other.Symbols() {
		if !s.Contains(sym) {
			return false
		}
	}
	return true
}

// key renders the members for item-key construction: name-sorted,
// pipe-joined.
func (s *SymbolSet) key() string {
	return strings.Join(s.Symbols(), "|")
}

// String renders the set as a quoted list, e.g. ["$", "+"].
func (s *SymbolSet) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, sym := range s.Symbols() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", sym)
	}
	b.WriteString("]")
	return b.String()
}
