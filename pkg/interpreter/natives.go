package interpreter

import (
	"fmt"
	"time"

	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerNatives() {
	i.global.Define("clock", &runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
		},
	})
	i.global.Define("assertEqual", &runtime.NativeFunctionValue{
		Name:  "assertEqual",
		Arity: 2,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			actual, expected := args[0], args[1]
			if !runtime.Equal(actual, expected) {
				return nil, fmt.Errorf("assertEqual failed: %s is not equal to expected %s",
					runtime.Inspect(actual), runtime.Inspect(expected))
			}
			return runtime.Nil, nil
		},
	})
}
