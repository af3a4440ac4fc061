package tables

import (
	"encoding/json"
	"io"

	"github.com/kumiko-lang/kumiko/automaton"
)

// CompiledGrammar is the serialized form of a grammar and its parsing
// table, as written by `kumiko compile`.
type CompiledGrammar struct {
	Name        string                      `json:"name"`
	Fingerprint string                      `json:"fingerprint"`
	Mode        string                      `json:"mode"`
	Start       string                      `json:"start"`
	Productions []CompiledProduction        `json:"productions"`
	StartState  int                         `json:"start_state"`
	Actions     map[int]map[string][]Action `json:"actions"`
	Gotos       map[int]map[string]int      `json:"gotos,omitempty"`
	Conflicts   []CompiledConflict          `json:"conflicts,omitempty"`
}

type CompiledProduction struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
}

type CompiledConflict struct {
	State   int      `json:"state"`
	Symbol  string   `json:"symbol"`
	Kind    string   `json:"kind"`
	Actions []Action `json:"actions"`
}

// Compile bundles the grammar and the table built from c into one
// serializable value.
func Compile(c *automaton.CanonicalCollection) *CompiledGrammar {
	g := c.Grammar()
	t := Build(c)
	cg := &CompiledGrammar{
		Name:        g.Name(),
		Fingerprint: g.Fingerprint(),
		Mode:        t.Mode.String(),
		Start:       g.StartSymbol(),
		StartState:  t.StartState,
		Actions:     t.Actions,
		Gotos:       t.Gotos,
	}
	for _, p := range g.Productions() {
		cg.Productions = append(cg.Productions, CompiledProduction{
			Number: p.Number(),
			LHS:    p.LHS(),
			RHS:    p.RHS(),
		})
	}
	for _, conflict := range t.Conflicts {
		cg.Conflicts = append(cg.Conflicts, CompiledConflict{
			State:   conflict.State,
			Symbol:  conflict.Symbol,
			Kind:    conflict.Kind.String(),
			Actions: conflict.Actions,
		})
	}
	return cg
}

// Write serializes the compiled grammar as indented JSON.
func (cg *CompiledGrammar) Write(w io.Writer) error {
	out, err := json.MarshalIndent(cg, "", "    ")
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
