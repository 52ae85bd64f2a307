package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// applyBinaryOperator implements the arithmetic, comparison, and equality
// operators. Division by zero follows IEEE-754.
func applyBinaryOperator(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	switch op.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case token.Plus:
		if l, ok := left.(runtime.NumberValue); ok {
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		}
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, runtime.NewError(op, "Operands must be two numbers or two strings.")
	}

	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	switch op.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", op.Lexeme)
	}
}

func numberOperands(op token.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtime.NewError(op, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

// valuesEqual never faults: values of different kinds are unequal and nil
// equals only nil. NaN is unequal to itself, as in IEEE-754.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.NativeFunctionValue:
		r, ok := right.(runtime.NativeFunctionValue)
		return ok && l.Name == r.Name
	default:
		return false
	}
}

// isTruthy: only false and nil are falsy.
func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	default:
		return true
	}
}
