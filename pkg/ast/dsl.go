package ast

import "lox/interpreter-go/pkg/token"

// Builders for hand-assembled trees. Synthesized tokens sit on line 1.

var operatorKinds = map[string]token.Kind{
	"-":   token.Minus,
	"+":   token.Plus,
	"/":   token.Slash,
	"*":   token.Star,
	"!":   token.Bang,
	"!=":  token.BangEqual,
	"=":   token.Equal,
	"==":  token.EqualEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"<":   token.Less,
	"<=":  token.LessEqual,
	"and": token.And,
	"or":  token.Or,
}

// Op synthesizes an operator token from its lexeme.
func Op(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return token.New(kind, lexeme, nil, 1)
}

// Name synthesizes an identifier token.
func Name(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}

func Num(value float64) *Literal {
	return NewLiteral(value)
}

func Str(value string) *Literal {
	return NewLiteral(value)
}

func Bool(value bool) *Literal {
	return NewLiteral(value)
}

func Nil() *Literal {
	return NewLiteral(nil)
}

func ID(name string) *Variable {
	return NewVariable(Name(name))
}

func Group(inner Expression) *Grouping {
	return NewGrouping(inner)
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(Op(op), operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Op(op), right)
}

func And(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op("and"), right)
}

func Or(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op("or"), right)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(Name(name), value)
}

func CallExpr(callee Expression, args ...Expression) *Call {
	return NewCall(callee, token.New(token.RightParen, ")", nil, 1), args)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Var(name string, initializer Expression) *VarDeclaration {
	return NewVarDeclaration(Name(name), initializer)
}

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func If(condition Expression, thenBranch, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, thenBranch, elseBranch)
}

func While(condition Expression, body Statement) *WhileLoop {
	return NewWhileLoop(condition, body)
}
