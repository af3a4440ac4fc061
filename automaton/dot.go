package automaton

import (
	"fmt"
	"io"
	"strings"
)

// WriteDot exports the collection to the Graphviz dot format, one Mrecord
// node per state listing its items.
func (c *CanonicalCollection) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprint(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`); err != nil {
		return err
	}
	for _, s := range c.states {
		var lines []string
		for _, item := range s.items {
			lines = append(lines, dotEscape(item.String()))
		}
		color := "white"
		if s.IsAccept() {
			color = "lightgray"
		}
		if _, err := fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.num, color, s.num, strings.Join(lines, "\\n")); err != nil {
			return err
		}
	}
	for _, s := range c.states {
		for _, sym := range s.Symbols() {
			succ := s.Successor(sym)
			if succ == nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "s%03d -> s%03d [label=\"%s\"]\n",
				s.num, succ.num, dotEscape(sym)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func dotEscape(s string) string {
	r := strings.NewReplacer(`"`, `\"`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`)
	return r.Replace(s)
}
