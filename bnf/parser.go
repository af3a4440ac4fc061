package bnf

import (
	"fmt"

	"github.com/kumiko-lang/kumiko/grammar"
)

// rawRule is one parsed rule before symbol classification.
type rawRule struct {
	lhs  string
	alts [][]token
}

// Parse reads a complete grammar definition and assembles a grammar named
// name. The start symbol is the %start directive's argument, or the first
// rule's left-hand side when the directive is absent.
func Parse(name, input string) (*grammar.Grammar, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	rules, start, err := p.parse()
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, &ParseError{Msg: "a grammar needs at least one rule", Row: 1, Col: 1}
	}

	lhsSet := map[string]struct{}{}
	for _, r := range rules {
		lhsSet[r.lhs] = struct{}{}
	}
	if start == "" {
		start = rules[0].lhs
	}

	b := grammar.NewBuilder(name)
	b.SetStart(start)
	for _, r := range rules {
		for _, alt := range r.alts {
			rb := b.LHS(r.lhs)
			if len(alt) == 0 {
				rb.Epsilon()
				continue
			}
			for _, t := range alt {
				sym := t.text
				if t.kind == tokenLiteral {
					sym = sym[1 : len(sym)-1]
					if sym == "" {
						return nil, &ParseError{Msg: "empty literal", Row: t.row, Col: t.col}
					}
					rb.T(sym)
					continue
				}
				if _, ok := lhsSet[sym]; ok {
					rb.N(sym)
				} else {
					rb.T(sym)
				}
			}
			rb.End()
		}
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	tracer().Infof("parsed grammar %q: %d rules, start symbol %q", name, len(rules), start)
	return g, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t, ok := p.next()
	if !ok {
		return token{}, p.eof(fmt.Sprintf("expected %v", kind))
	}
	if t.kind != kind {
		return token{}, &ParseError{
			Msg: fmt.Sprintf("expected %v, found %q", kind, t.text),
			Row: t.row,
			Col: t.col,
		}
	}
	return t, nil
}

func (p *parser) eof(msg string) error {
	row, col := 1, 1
	if n := len(p.tokens); n > 0 {
		row, col = p.tokens[n-1].row, p.tokens[n-1].col
	}
	return &ParseError{Msg: msg + ", found end of input", Row: row, Col: col}
}

func (p *parser) parse() ([]rawRule, string, error) {
	var rules []rawRule
	start := ""
	for {
		t, ok := p.peek()
		if !ok {
			return rules, start, nil
		}
		switch t.kind {
		case tokenDirective:
			p.next()
			if t.text != "%start" {
				return nil, "", &ParseError{
					Msg: fmt.Sprintf("unknown directive %q", t.text),
					Row: t.row,
					Col: t.col,
				}
			}
			arg, err := p.expect(tokenIdent)
			if err != nil {
				return nil, "", err
			}
			if start != "" {
				return nil, "", &ParseError{Msg: "duplicate %start directive", Row: t.row, Col: t.col}
			}
			start = arg.text
		case tokenIdent:
			r, err := p.rule()
			if err != nil {
				return nil, "", err
			}
			rules = append(rules, r)
		default:
			return nil, "", &ParseError{
				Msg: fmt.Sprintf("expected a rule, found %q", t.text),
				Row: t.row,
				Col: t.col,
			}
		}
	}
}

// rule parses `lhs : alt | alt | ... ;`. An empty alternative stands for
// epsilon.
func (p *parser) rule() (rawRule, error) {
	lhs, err := p.expect(tokenIdent)
	if err != nil {
		return rawRule{}, err
	}
	if _, err := p.expect(tokenColon); err != nil {
		return rawRule{}, err
	}
	r := rawRule{lhs: lhs.text}
	var alt []token
	for {
		t, ok := p.next()
		if !ok {
			return rawRule{}, p.eof(fmt.Sprintf("unterminated rule for %q", r.lhs))
		}
		switch t.kind {
		case tokenIdent, tokenLiteral:
			alt = append(alt, t)
		case tokenPipe:
			r.alts = append(r.alts, alt)
			alt = nil
		case tokenSemicolon:
			r.alts = append(r.alts, alt)
			return r, nil
		default:
			return rawRule{}, &ParseError{
				Msg: fmt.Sprintf("unexpected %q in rule for %q", t.text, r.lhs),
				Row: t.row,
				Col: t.col,
			}
		}
	}
}
