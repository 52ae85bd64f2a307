package interpreter

import (
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerBuiltins() {
	i.global.Define("clock", runtime.NativeFunctionValue{
		Name:       "clock",
		ParamCount: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			now := i.now()
			return runtime.NumberValue{Val: float64(now.UnixNano()) / 1e9}, nil
		},
	})
}
