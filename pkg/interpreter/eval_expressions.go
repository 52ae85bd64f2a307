package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(n.Value)
	case *ast.Grouping:
		return i.evaluateExpression(n.Expression, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n, env)
	case *ast.Variable:
		return env.Get(n.Name)
	case *ast.Assignment:
		return i.evaluateAssignment(n, env)
	case *ast.Call:
		return i.evaluateCall(n, env)
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

// evaluateBinaryExpression evaluates both operands left to right before
// applying the operator.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

// evaluateLogicalExpression short-circuits and yields one of the operand
// values, not a coerced bool.
func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Or:
		if isTruthy(left) {
			return left, nil
		}
	case token.And:
		if !isTruthy(left) {
			return left, nil
		}
	default:
		return nil, fmt.Errorf("unsupported logical operator %s", expr.Operator.Lexeme)
	}
	return i.evaluateExpression(expr.Right, env)
}

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(assign.Value, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(assign.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evaluateCall(call *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		arg, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtime.NewError(call.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtime.NewError(call.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	result, err := fn.Call(&runtime.NativeCallContext{Env: i.global}, args)
	if err != nil {
		var rtErr *runtime.Error
		if errors.As(err, &rtErr) {
			return nil, rtErr
		}
		return nil, runtime.NewError(call.Paren, err.Error())
	}
	if result == nil {
		return runtime.NilValue{}, nil
	}
	return result, nil
}
