package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

// ParseError marks a fatal fault inside one declaration. It unwinds the
// recursive descent back to declaration, which reports it and resynchronizes.
type ParseError struct {
	Token   token.Token
	Message string
}

func (e *ParseError) Error() string {
	return diagnostics.AtToken(e.Token, e.Message).String()
}

// Parser turns a token sequence into statements by recursive descent.
type Parser struct {
	tokens  []token.Token
	current int
	diags   []diagnostics.Diagnostic
}

// New creates a parser over tokens. The slice must end with an EOF token, as
// the scanner guarantees; one is appended if missing.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens}
}

// Parse parses tokens into statements. It never fails as a whole: every
// syntax fault becomes a diagnostic and the faulty declaration is dropped, so
// the result may hold fewer statements than the source declares.
func Parse(tokens []token.Token) ([]ast.Statement, []diagnostics.Diagnostic) {
	return New(tokens).Parse()
}

// Parse runs the parser to EOF.
func (p *Parser) Parse() ([]ast.Statement, []diagnostics.Diagnostic) {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		if stmt, ok := p.declaration(); ok {
			statements = append(statements, stmt)
		}
	}
	return statements, p.diags
}

// ParseExpression parses a single expression followed by EOF.
func (p *Parser) ParseExpression() (ast.Expression, []diagnostics.Diagnostic) {
	expr, err := p.expression()
	if err == nil && !p.isAtEnd() {
		err = p.errorAt(p.peek(), "Expect end of expression.")
	}
	if err != nil {
		return nil, p.diags
	}
	return expr, p.diags
}
