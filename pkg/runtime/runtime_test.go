package runtime

import (
	"math"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
)

func TestIsTruthy(t *testing.T) {
	class := &ClassValue{Name: "A"}
	cases := []struct {
		value Value
		want  bool
	}{
		{Nil, false},
		{BoolValue{Val: false}, false},
		{BoolValue{Val: true}, true},
		{NumberValue{Val: 0}, true},
		{StringValue{Val: ""}, true},
		{class, true},
		{NewInstance(class), true},
		{&NativeFunctionValue{Name: "clock"}, true},
	}
	for _, tc := range cases {
		if got := IsTruthy(tc.value); got != tc.want {
			t.Fatalf("IsTruthy(%s) = %v, want %v", Inspect(tc.value), got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	class := &ClassValue{Name: "A"}
	first := NewInstance(class)
	second := NewInstance(class)
	first.Set("x", NumberValue{Val: 1})
	second.Set("x", NumberValue{Val: 1})

	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", Nil, Nil, true},
		{"numbers", NumberValue{Val: 3}, NumberValue{Val: 3}, true},
		{"different numbers", NumberValue{Val: 3}, NumberValue{Val: 4}, false},
		{"number string", NumberValue{Val: 3}, StringValue{Val: "3"}, false},
		{"strings", StringValue{Val: "a"}, StringValue{Val: "a"}, true},
		{"bools", BoolValue{Val: true}, BoolValue{Val: true}, true},
		{"nil false", Nil, BoolValue{Val: false}, false},
		{"same instance", first, first, true},
		{"identical instances", first, second, false},
		{"same class", class, class, true},
		{"nan", NumberValue{Val: math.NaN()}, NumberValue{Val: math.NaN()}, false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: Equal = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStringify(t *testing.T) {
	class := &ClassValue{Name: "Cake"}
	fn := &FunctionValue{Declaration: ast.Fun("bake", nil)}
	cases := []struct {
		value Value
		want  string
	}{
		{NumberValue{Val: 3}, "3"},
		{NumberValue{Val: 2.5}, "2.5"},
		{NumberValue{Val: -0.125}, "-0.125"},
		{NumberValue{Val: math.Inf(1)}, "inf"},
		{NumberValue{Val: math.Inf(-1)}, "-inf"},
		{NumberValue{Val: math.NaN()}, "nan"},
		{StringValue{Val: "hi"}, "hi"},
		{BoolValue{Val: false}, "false"},
		{Nil, "nil"},
		{class, "Cake"},
		{NewInstance(class), "Cake instance"},
		{fn, "<fn bake>"},
		{&NativeFunctionValue{Name: "clock"}, "<native fn clock>"},
	}
	for _, tc := range cases {
		if got := Stringify(tc.value); got != tc.want {
			t.Fatalf("Stringify = %q, want %q", got, tc.want)
		}
	}
	if got := Inspect(StringValue{Val: "hi"}); got != `"hi"` {
		t.Fatalf("Inspect should quote strings, got %s", got)
	}
}

func TestEnvironmentChain(t *testing.T) {
	globals := NewEnvironment(nil)
	globals.Define("a", NumberValue{Val: 1})
	block := NewEnvironment(globals)
	inner := NewEnvironment(block)
	block.Define("b", StringValue{Val: "block"})

	if v, err := inner.Get("a"); err != nil || !Equal(v, NumberValue{Val: 1}) {
		t.Fatalf("Get(a) = %v, %v", v, err)
	}
	if err := inner.Assign("b", StringValue{Val: "changed"}); err != nil {
		t.Fatalf("Assign(b): %v", err)
	}
	if v, err := inner.GetAt(1, "b"); err != nil || Stringify(v) != "changed" {
		t.Fatalf("GetAt(1, b) = %v, %v", v, err)
	}
	if err := inner.AssignAt(2, "a", NumberValue{Val: 2}); err != nil {
		t.Fatalf("AssignAt: %v", err)
	}
	if v, _ := globals.Get("a"); !Equal(v, NumberValue{Val: 2}) {
		t.Fatalf("expected a=2 in globals, got %s", Inspect(v))
	}
	if inner.Ancestor(2) != globals || inner.Ancestor(0) != inner || inner.Parent() != block {
		t.Fatalf("unexpected ancestor chain")
	}

	if _, err := inner.Get("missing"); err == nil || !strings.Contains(err.Error(), "undefined variable 'missing'") {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
	if err := inner.Assign("missing", Nil); err == nil {
		t.Fatalf("expected assign to missing name to fail")
	}
}

func TestEnvironmentDeclareIsDistinctFromAbsent(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("Pending")
	if _, err := env.Get("Pending"); err == nil || !strings.Contains(err.Error(), "uninitialized") {
		t.Fatalf("expected uninitialized error, got %v", err)
	}
	if err := env.Assign("Pending", BoolValue{Val: true}); err != nil {
		t.Fatalf("Assign after Declare: %v", err)
	}
	if v, err := env.Get("Pending"); err != nil || !IsTruthy(v) {
		t.Fatalf("Get after Assign = %v, %v", v, err)
	}
	if keys := env.Keys(); len(keys) != 1 || keys[0] != "Pending" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestInstanceGetBindsMethods(t *testing.T) {
	closure := NewEnvironment(nil)
	base := &ClassValue{
		Name:    "Base",
		Methods: map[string]*FunctionValue{"greet": {Declaration: ast.Fun("greet", nil), Closure: closure}},
	}
	derived := &ClassValue{
		Name:       "Derived",
		Superclass: base,
		Methods:    map[string]*FunctionValue{"init": {Declaration: ast.Fun("init", []string{"a", "b"}), Closure: closure, IsInitializer: true}},
	}
	if derived.Arity() != 2 || base.Arity() != 0 {
		t.Fatalf("unexpected class arities %d %d", derived.Arity(), base.Arity())
	}

	instance := NewInstance(derived)
	v, ok := instance.Get("greet")
	if !ok {
		t.Fatalf("expected inherited method")
	}
	bound, ok := v.(*FunctionValue)
	if !ok {
		t.Fatalf("expected *FunctionValue, got %T", v)
	}
	if bound.Closure.Parent() != closure {
		t.Fatalf("bound closure should wrap the method closure")
	}
	if this, err := bound.Closure.GetAt(0, "this"); err != nil || this != Value(instance) {
		t.Fatalf("expected this bound to instance, got %v, %v", this, err)
	}

	instance.Set("greet", StringValue{Val: "field"})
	if v, _ := instance.Get("greet"); Stringify(v) != "field" {
		t.Fatalf("fields should shadow methods, got %s", Inspect(v))
	}
	if _, ok := instance.Get("missing"); ok {
		t.Fatalf("expected missing property")
	}
}
