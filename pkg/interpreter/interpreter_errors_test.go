package interpreter

import (
	"errors"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func expectRuntimeError(t *testing.T, err error, message string) *runtime.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected runtime error %q, got nil", message)
	}
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *runtime.Error, got %T: %v", err, err)
	}
	if rtErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, rtErr.Message)
	}
	return rtErr
}

func TestUnaryMinusRequiresNumber(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.Un("-", ast.Str("x")))
	rtErr := expectRuntimeError(t, err, "Operand must be a number.")
	if rtErr.Token.Kind != token.Minus {
		t.Fatalf("expected fault at '-', got %v", rtErr.Token)
	}
}

func TestArithmeticRequiresNumbers(t *testing.T) {
	for _, op := range []string{"-", "*", "/", ">", ">=", "<", "<="} {
		interp, _ := newTestInterpreter()
		_, err := interp.Evaluate(ast.Bin(op, ast.Num(1), ast.Str("a")))
		rtErr := expectRuntimeError(t, err, "Operands must be numbers.")
		if rtErr.Token.Lexeme != op {
			t.Fatalf("expected fault at %q, got %q", op, rtErr.Token.Lexeme)
		}
	}
}

func TestPlusRejectsMixedOperands(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.Bin("+", ast.Num(1), ast.Str("a")))
	expectRuntimeError(t, err, "Operands must be two numbers or two strings.")
	_, err = interp.Evaluate(ast.Bin("+", ast.Bool(true), ast.Bool(false)))
	expectRuntimeError(t, err, "Operands must be two numbers or two strings.")
}

func TestUndefinedVariableRead(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.ID("ghost"))
	expectRuntimeError(t, err, "Undefined variable 'ghost'.")
}

func TestAssignmentNeverCreatesBinding(t *testing.T) {
	interp, _ := newTestInterpreter()
	err := interp.Interpret([]ast.Statement{ast.Expr(ast.Assign("ghost", ast.Num(1)))})
	expectRuntimeError(t, err, "Undefined variable 'ghost'.")
	if _, ok := interp.GlobalEnvironment().Lookup("ghost"); ok {
		t.Fatalf("failed assignment must not define a binding")
	}
}

func TestCallingNonCallable(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.CallExpr(ast.Str("not a function")))
	rtErr := expectRuntimeError(t, err, "Can only call functions and classes.")
	if rtErr.Token.Kind != token.RightParen {
		t.Fatalf("expected fault at ')', got %v", rtErr.Token)
	}
}

func TestCallArityMismatch(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.CallExpr(ast.ID("clock"), ast.Num(1)))
	expectRuntimeError(t, err, "Expected 0 arguments but got 1.")
}

func TestRuntimeErrorStopsExecution(t *testing.T) {
	interp, out := newTestInterpreter()
	program := []ast.Statement{
		ast.PrintStmt(ast.Str("before")),
		ast.Var("kept", ast.Num(1)),
		ast.PrintStmt(ast.Un("-", ast.Nil())),
		ast.PrintStmt(ast.Str("after")),
	}
	err := interp.Interpret(program)
	expectRuntimeError(t, err, "Operand must be a number.")
	if got := out.String(); got != "before\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, ok := interp.GlobalEnvironment().Lookup("kept"); !ok {
		t.Fatalf("bindings made before the fault should survive")
	}
}

func TestFaultInsideBlockDoesNotLeakScope(t *testing.T) {
	interp, out := newTestInterpreter()
	global := interp.GlobalEnvironment()
	failing := []ast.Statement{
		ast.Var("a", ast.Str("outer")),
		ast.Blk(
			ast.Var("a", ast.Str("inner")),
			ast.Expr(ast.Un("-", ast.ID("a"))),
		),
	}
	expectRuntimeError(t, interp.Interpret(failing), "Operand must be a number.")

	if err := interp.Interpret([]ast.Statement{ast.PrintStmt(ast.ID("a"))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "outer\n" {
		t.Fatalf("expected outer binding after fault, got %q", got)
	}
	if v, ok := global.Lookup("a"); !ok || v.(runtime.StringValue).Val != "outer" {
		t.Fatalf("global binding changed: %#v", v)
	}
}

func TestNativeFailureBecomesRuntimeError(t *testing.T) {
	interp, _ := newTestInterpreter()
	interp.GlobalEnvironment().Define("boom", runtime.NativeFunctionValue{
		Name: "boom",
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return nil, errors.New("native exploded")
		},
	})
	_, err := interp.Evaluate(ast.CallExpr(ast.ID("boom")))
	rtErr := expectRuntimeError(t, err, "native exploded")
	if rtErr.Token.Kind != token.RightParen {
		t.Fatalf("expected fault at call paren, got %v", rtErr.Token)
	}
}
