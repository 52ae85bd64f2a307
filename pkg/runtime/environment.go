package runtime

import (
	"fmt"
	"sort"

	"lox/interpreter-go/pkg/token"
)

// Environment provides lexical scoping for Lox runtime values.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Snapshot returns a copy of the bindings in this scope only.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the first scope where it appears. It
// never creates a binding.
func (e *Environment) Assign(name token.Token, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return undefinedVariable(name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name token.Token) (Value, error) {
	if v, ok := e.Lookup(name.Lexeme); ok {
		return v, nil
	}
	return nil, undefinedVariable(name)
}

// Lookup is Get by plain name, for hosts that hold no token.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a new child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

func undefinedVariable(name token.Token) *Error {
	return NewError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}
