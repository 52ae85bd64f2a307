package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// Interpreter walks Lox statements against a chain of environments.
type Interpreter struct {
	global *runtime.Environment
	out    io.Writer
	now    func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects `print` output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		i.out = w
	}
}

// WithClock replaces the time source behind the clock() native.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		i.now = now
	}
}

// New returns an interpreter whose global environment holds the natives.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.registerBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes statements in the global environment. It stops at the
// first runtime fault and returns it as a *runtime.Error; bindings made by
// earlier statements stay in place.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	return i.ExecuteIn(statements, i.global)
}

// ExecuteIn executes statements directly in env without opening a new scope.
func (i *Interpreter) ExecuteIn(statements []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.evaluateStatement(stmt, env); err != nil {
			return asRuntimeError(err)
		}
	}
	return nil
}

// Evaluate evaluates a single expression in the global environment.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr, i.global)
	if err != nil {
		return nil, asRuntimeError(err)
	}
	return val, nil
}

// asRuntimeError keeps runtime faults as they are and folds anything else
// (an interpreter bug, a failing native) into a fault without a location.
func asRuntimeError(err error) error {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return runtime.NewError(token.New(token.EOF, "", nil, 0), fmt.Sprintf("internal error: %v", err))
}
