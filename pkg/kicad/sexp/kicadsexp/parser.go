package kicadsexp

import (
	"io"
	"strings"
)

// Parser parses S-expressions from a lexer
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// Parse parses all top-level S-expressions from r.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses S-expressions from a string.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()
	case TokenSymbol, TokenString:
		return Symbol(p.current.Value), nil
	case TokenRightParen:
		return nil, &SyntaxError{Line: p.current.Line, Msg: "unexpected ')'"}
	default:
		return nil, &SyntaxError{Line: p.current.Line, Msg: "unexpected " + p.current.Type.String()}
	}
}

func (p *Parser) parseList() (Sexp, error) {
	open := p.current.Line
	list := &List{line: open}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.current.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, &SyntaxError{Line: open, Msg: "unexpected EOF in list"}
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.elements = append(list.elements, elem)
	}
}
