package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kumiko-lang/kumiko/tables"
)

var showFlags = struct {
	mode *string
	dot  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a grammar's LR automaton in a readable format",
		Example: `  kumiko show grammar.bnf --mode lr1 --dot automaton.dot`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.mode = cmd.Flags().String("mode", "lalr1", "construction mode [lr0|slr1|lr1|lalr1]")
	showFlags.dot = cmd.Flags().String("dot", "", "also write the automaton as a Graphviz dot file")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := buildCollection(args[0], *showFlags.mode)
	if err != nil {
		return err
	}

	g := c.Grammar()
	pterm.Info.Printf("grammar %s, start symbol %s, %v collection with %d states\n",
		g.Name(), g.StartSymbol(), c.Mode(), c.Size())

	pterm.DefaultSection.Println("Symbols")
	for _, sym := range append(g.NonTerminals(), g.Terminals()...) {
		fmt.Printf("  %-12v %s\n", g.KindOf(sym), sym)
	}

	pterm.DefaultSection.Println("Productions")
	for _, p := range g.Productions() {
		fmt.Printf("  %3d: %v\n", p.Number(), p)
	}

	pterm.DefaultSection.Println("States")
	for _, s := range c.States() {
		accept := ""
		if s.IsAccept() {
			accept = "  (accept)"
		}
		fmt.Printf("state %d%s\n", s.Number(), accept)
		for _, item := range s.Items() {
			fmt.Printf("    %v\n", item)
		}
		for _, sym := range s.Symbols() {
			if succ := s.Successor(sym); succ != nil {
				fmt.Printf("    %s -> state %d\n", sym, succ.Number())
			}
		}
		fmt.Println()
	}

	t := tables.Build(c)
	if t.HasConflicts() {
		pterm.DefaultSection.Println("Conflicts")
		for _, conflict := range t.Conflicts {
			pterm.Error.Println(conflict)
		}
	} else {
		pterm.Info.Println("no conflicts")
	}

	if *showFlags.dot != "" {
		f, err := os.OpenFile(*showFlags.dot, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the dot file %s: %w", *showFlags.dot, err)
		}
		defer f.Close()
		if err := c.WriteDot(f); err != nil {
			return fmt.Errorf("Cannot write the dot file: %w", err)
		}
	}
	return nil
}
