package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n, env)
	case *ast.VarDeclaration:
		return i.evaluateVarDeclaration(n, env)
	case *ast.Block:
		return i.evaluateBlock(n, env)
	case *ast.IfStatement:
		return i.evaluateIfStatement(n, env)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, env)
	case nil:
		return fmt.Errorf("nil statement")
	default:
		return fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(i.out, valueToString(val))
	return err
}

// evaluateVarDeclaration always defines in env, shadowing any outer binding.
// A missing initializer binds nil.
func (i *Interpreter) evaluateVarDeclaration(decl *ast.VarDeclaration, env *runtime.Environment) error {
	var value runtime.Value = runtime.NilValue{}
	if decl.Initializer != nil {
		val, err := i.evaluateExpression(decl.Initializer, env)
		if err != nil {
			return err
		}
		value = val
	}
	env.Define(decl.Name.Lexeme, value)
	return nil
}

// evaluateBlock runs the body in a fresh child scope. The scope is only
// reachable through this call, so it is dropped on every exit path.
func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) error {
	scope := runtime.NewEnvironment(env)
	for _, stmt := range block.Body {
		if err := i.evaluateStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement, env *runtime.Environment) error {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if isTruthy(cond) {
		return i.evaluateStatement(stmt.ThenBranch, env)
	}
	if stmt.ElseBranch != nil {
		return i.evaluateStatement(stmt.ElseBranch, env)
	}
	return nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !isTruthy(cond) {
			return nil
		}
		if err := i.evaluateStatement(loop.Body, env); err != nil {
			return err
		}
	}
}
