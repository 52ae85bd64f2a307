package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"lox/interpreter-go/pkg/runtime"
)

// Stringify renders a value the way `print` does.
func Stringify(val runtime.Value) string {
	return valueToString(val)
}

func valueToString(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.NilValue:
		return "nil"
	case runtime.NativeFunctionValue:
		return v.String()
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// formatNumber prints integral values without a fractional part ("10", not
// "10.0") and everything else in the shortest form that round-trips.
// Magnitudes from 1e21 up switch to exponent form.
func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	if math.Abs(n) >= 1e21 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
