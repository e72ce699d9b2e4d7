package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// IsTruthy reports whether v counts as true in a condition. Only nil and
// false are falsy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal compares scalars by value and everything else by identity. Values of
// different kinds are never equal.
func Equal(a, b Value) bool {
	if a == nil {
		a = Nil
	}
	if b == nil {
		b = Nil
	}
	switch left := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case StringValue:
		right, ok := b.(StringValue)
		return ok && left.Val == right.Val
	case NumberValue:
		right, ok := b.(NumberValue)
		return ok && left.Val == right.Val
	case BoolValue:
		right, ok := b.(BoolValue)
		return ok && left.Val == right.Val
	case *FunctionValue:
		right, ok := b.(*FunctionValue)
		return ok && left == right
	case *NativeFunctionValue:
		right, ok := b.(*NativeFunctionValue)
		return ok && left == right
	case *ClassValue:
		right, ok := b.(*ClassValue)
		return ok && left == right
	case *InstanceValue:
		right, ok := b.(*InstanceValue)
		return ok && left == right
	default:
		return false
	}
}

// FormatNumber renders integral values without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Stringify renders v the way `print` shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return "nil"
	case StringValue:
		return val.Val
	case NumberValue:
		return FormatNumber(val.Val)
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case *FunctionValue:
		return fmt.Sprintf("<fn %s>", val.Name())
	case *NativeFunctionValue:
		return fmt.Sprintf("<native fn %s>", val.Name)
	case *ClassValue:
		return val.Name
	case *InstanceValue:
		return val.Class.Name + " instance"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Inspect is Stringify with strings quoted, for diagnostics and the REPL.
func Inspect(v Value) string {
	if s, ok := v.(StringValue); ok {
		return strconv.Quote(s.Val)
	}
	return Stringify(v)
}
