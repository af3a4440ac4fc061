package bnf

import (
	"fmt"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind int

const (
	tokenDirective tokenKind = iota
	tokenIdent
	tokenLiteral
	tokenColon
	tokenPipe
	tokenSemicolon
)

func (k tokenKind) String() string {
	switch k {
	case tokenDirective:
		return "directive"
	case tokenIdent:
		return "identifier"
	case tokenLiteral:
		return "literal"
	case tokenColon:
		return "':'"
	case tokenPipe:
		return "'|'"
	case tokenSemicolon:
		return "';'"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string
	row  int
	col  int
}

// ParseError reports a syntax error in a grammar definition, with the
// 1-based source position it occurred at.
type ParseError struct {
	Msg string
	Row int
	Col int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Row, e.Col, e.Msg)
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	lexerErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

func newLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`( |\t|\n|\r)+`), skip)
		l.Add([]byte(`#[^\n]*`), skip)
		l.Add([]byte(`%[a-z]+`), emit(tokenDirective))
		l.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), emit(tokenIdent))
		l.Add([]byte(`'[^']*'`), emit(tokenLiteral))
		l.Add([]byte(`:`), emit(tokenColon))
		l.Add([]byte(`\|`), emit(tokenPipe))
		l.Add([]byte(`;`), emit(tokenSemicolon))
		lexerErr = l.Compile()
		lexer = l
	})
	return lexer, lexerErr
}

// tokenize scans a complete grammar definition. The first character the
// scanner cannot consume aborts the scan.
func tokenize(input string) ([]token, error) {
	l, err := newLexer()
	if err != nil {
		return nil, fmt.Errorf("bnf: failed to compile the scanner: %w", err)
	}
	s, err := l.Scanner([]byte(input))
	if err != nil {
		return nil, fmt.Errorf("bnf: %w", err)
	}
	var tokens []token
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, &ParseError{
					Msg: fmt.Sprintf("unexpected input %q", string(ui.Text[ui.StartTC:ui.FailTC])),
					Row: ui.StartLine,
					Col: ui.StartColumn,
				}
			}
			return nil, fmt.Errorf("bnf: %w", err)
		}
		t := tok.(*lexmachine.Token)
		tokens = append(tokens, token{
			kind: tokenKind(t.Type),
			text: string(t.Lexeme),
			row:  t.StartLine,
			col:  t.StartColumn,
		})
	}
	tracer().Debugf("scanned %d tokens", len(tokens))
	return tokens, nil
}
