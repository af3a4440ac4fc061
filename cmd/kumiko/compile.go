package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumiko-lang/kumiko/automaton"
	"github.com/kumiko-lang/kumiko/bnf"
	kerr "github.com/kumiko-lang/kumiko/error"
	"github.com/kumiko-lang/kumiko/tables"
)

var compileFlags = struct {
	output *string
	mode   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a parsing table",
		Example: `  kumiko compile grammar.bnf -o grammar.json --mode lalr1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.mode = cmd.Flags().String("mode", "lalr1", "construction mode [lr0|slr1|lr1|lalr1]")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	c, err := buildCollection(args[0], *compileFlags.mode)
	if err != nil {
		return err
	}

	cg := tables.Compile(c)
	w := io.Writer(os.Stdout)
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		w = f
	}
	if err := cg.Write(w); err != nil {
		return fmt.Errorf("Cannot write the compiled grammar: %w", err)
	}
	if n := len(cg.Conflicts); n > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", n)
	}
	return nil
}

// buildCollection reads a grammar file and builds its collection in the
// given mode. Syntax errors come back annotated with the source file.
func buildCollection(path, modeName string) (*automaton.CanonicalCollection, error) {
	mode, err := automaton.ModeFromString(modeName)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g, err := bnf.Parse(name, string(src))
	if err != nil {
		var perr *bnf.ParseError
		if errors.As(err, &perr) {
			return nil, &kerr.SourceError{
				Cause:      err,
				FilePath:   path,
				SourceName: path,
				Row:        perr.Row,
				Col:        perr.Col,
			}
		}
		return nil, &kerr.SourceError{Cause: err, SourceName: path}
	}
	return automaton.NewCanonicalCollection(g, mode)
}
