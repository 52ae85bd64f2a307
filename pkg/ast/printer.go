package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders statements as parenthesized prefix forms, one per line.
func Format(stmts []Statement) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(FormatStatement(stmt))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatStatement renders a single statement.
func FormatStatement(stmt Statement) string {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		return parenthesize(";", FormatExpression(s.Expression))
	case *PrintStatement:
		return parenthesize("print", FormatExpression(s.Expression))
	case *VarDeclaration:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, "=", FormatExpression(s.Initializer))
	case *Block:
		parts := make([]string, 0, len(s.Body))
		for _, inner := range s.Body {
			parts = append(parts, FormatStatement(inner))
		}
		return parenthesize("block", parts...)
	case *IfStatement:
		if s.ElseBranch == nil {
			return parenthesize("if", FormatExpression(s.Condition), FormatStatement(s.ThenBranch))
		}
		return parenthesize("if-else", FormatExpression(s.Condition), FormatStatement(s.ThenBranch), FormatStatement(s.ElseBranch))
	case *WhileLoop:
		return parenthesize("while", FormatExpression(s.Condition), FormatStatement(s.Body))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%s>", s.NodeType())
	}
}

// FormatExpression renders a single expression.
func FormatExpression(expr Expression) string {
	switch e := expr.(type) {
	case *Literal:
		return formatLiteral(e.Value)
	case *Grouping:
		return parenthesize("group", FormatExpression(e.Expression))
	case *UnaryExpression:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Operand))
	case *BinaryExpression:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Left), FormatExpression(e.Right))
	case *LogicalExpression:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Left), FormatExpression(e.Right))
	case *Variable:
		return e.Name.Lexeme
	case *Assignment:
		return parenthesize("=", e.Name.Lexeme, FormatExpression(e.Value))
	case *Call:
		parts := make([]string, 0, len(e.Arguments)+1)
		parts = append(parts, FormatExpression(e.Callee))
		for _, arg := range e.Arguments {
			parts = append(parts, FormatExpression(arg))
		}
		return parenthesize("call", parts...)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%s>", e.NodeType())
	}
}

func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		b.WriteString(part)
	}
	b.WriteByte(')')
	return b.String()
}
