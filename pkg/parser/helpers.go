package parser

import (
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	if p.current == 0 {
		return p.peek()
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

// report records a diagnostic without interrupting the parse.
func (p *Parser) report(tok token.Token, message string) {
	p.diags = append(p.diags, diagnostics.AtToken(tok, message))
}

// errorAt records a diagnostic and returns the error that aborts the current
// declaration.
func (p *Parser) errorAt(tok token.Token, message string) error {
	p.report(tok, message)
	return &ParseError{Token: tok, Message: message}
}

// synchronize discards tokens until a likely statement boundary: just past a
// ';' or right before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
