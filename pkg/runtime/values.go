package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// NumberValue is the only numeric type: an IEEE-754 double.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// FromLiteral converts a parsed literal (nil, bool, float64, string) into a
// runtime value.
func FromLiteral(literal any) (Value, error) {
	switch v := literal.(type) {
	case nil:
		return NilValue{}, nil
	case bool:
		return BoolValue{Val: v}, nil
	case float64:
		return NumberValue{Val: v}, nil
	case string:
		return StringValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", literal)
	}
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Callable is implemented by every value a call expression may invoke.
type Callable interface {
	Value
	Arity() int
	Call(ctx *NativeCallContext, args []Value) (Value, error)
}

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name       string
	ParamCount int
	Impl       NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v NativeFunctionValue) Arity() int { return v.ParamCount }

func (v NativeFunctionValue) Call(ctx *NativeCallContext, args []Value) (Value, error) {
	return v.Impl(ctx, args)
}

func (v NativeFunctionValue) String() string {
	return "<native fn>"
}
