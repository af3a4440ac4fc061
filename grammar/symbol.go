package grammar

// Reserved symbol names. SymbolAccept is the LHS of the augmented start
// production, SymbolEOF is the end-of-input marker. Neither may appear in a
// user-defined production.
const (
	SymbolAccept = "$accept"
	SymbolEOF    = "$"
)

type SymbolKind int

const (
	SymbolNonTerminal SymbolKind = iota
	SymbolTerminal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNonTerminal:
		return "non-terminal"
	case SymbolTerminal:
		return "terminal"
	}
	return "unknown"
}
