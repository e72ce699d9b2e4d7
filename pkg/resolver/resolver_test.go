package resolver_test

import (
	"errors"
	"reflect"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
)

func parseProgram(t *testing.T, source string) []ast.Statement {
	t.Helper()
	tokens := lexer.NewScanner(source, func(err error) {
		t.Fatalf("scan error in %q: %v", source, err)
	}).ScanTokens()
	stmts := parser.New(tokens, func(err error) {
		t.Fatalf("parse error in %q: %v", source, err)
	}).Parse()
	return stmts
}

func resolveProgram(t *testing.T, stmts []ast.Statement) (resolver.Locals, []*resolver.Error) {
	t.Helper()
	var errs []*resolver.Error
	r := resolver.New(func(err error) {
		var resolveErr *resolver.Error
		if !errors.As(err, &resolveErr) {
			t.Fatalf("expected *resolver.Error, got %T", err)
		}
		errs = append(errs, resolveErr)
	})
	locals := r.Resolve(stmts)
	if r.ErrorCount() != len(errs) {
		t.Fatalf("ErrorCount() = %d, callback saw %d", r.ErrorCount(), len(errs))
	}
	return locals, errs
}

func TestResolverErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		kind   resolver.ErrorKind
		line   int
		column int
	}{
		{
			name:   "self referencing initializer",
			source: "var a = \"outer\";\n{\n  var a = a;\n}",
			kind:   resolver.SelfReferencingInitializer,
			line:   3, column: 11,
		},
		{
			name:   "duplicate scoped variable",
			source: "{\n  var a = \"first\";\n  var a = \"second\";\n}",
			kind:   resolver.DuplicateVariable,
			line:   3, column: 7,
		},
		{
			name:   "top level return",
			source: "return 1;",
			kind:   resolver.TopLevelReturn,
			line:   1, column: 1,
		},
		{
			name:   "self inheritance",
			source: "class Foo < Foo {}",
			kind:   resolver.SelfInheritance,
			line:   1, column: 13,
		},
		{
			name:   "this at top level",
			source: "print this;",
			kind:   resolver.InvalidThis,
			line:   1, column: 7,
		},
		{
			name:   "this in plain function",
			source: "fun notAMethod() {\n  print this;\n}",
			kind:   resolver.InvalidThis,
			line:   2, column: 9,
		},
		{
			name:   "value returned from initializer",
			source: "class Foo {\n  init() {\n    return \"something else\";\n  }\n}",
			kind:   resolver.InvalidInitializerReturn,
			line:   3, column: 5,
		},
		{
			name:   "super outside class",
			source: "fun f() { super.m(); }",
			kind:   resolver.SuperOutsideClass,
			line:   1, column: 11,
		},
		{
			name:   "super without superclass",
			source: "class A { m() { super.m(); } }",
			kind:   resolver.SuperWithoutSuperclass,
			line:   1, column: 17,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := resolveProgram(t, parseProgram(t, tc.source))
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			err := errs[0]
			if err.Kind != tc.kind || err.Token.Line != tc.line || err.Token.Column != tc.column {
				t.Fatalf("expected %s at %d:%d, got %s at %d:%d (%s)",
					tc.kind, tc.line, tc.column, err.Kind, err.Token.Line, err.Token.Column, err.Message)
			}
		})
	}
}

func TestResolverAllowsBareReturnInInitializer(t *testing.T) {
	_, errs := resolveProgram(t, parseProgram(t, "class Foo { init() { return; } }"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolverAllowsGlobalRedeclaration(t *testing.T) {
	_, errs := resolveProgram(t, parseProgram(t, "var a = 1; var a = a;"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestResolverKeepsGoingAfterErrors(t *testing.T) {
	_, errs := resolveProgram(t, parseProgram(t, "return 1;\nprint this;\n{ var b; var b; }"))
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestResolverDistances(t *testing.T) {
	a := ast.ID("a")
	b := ast.ID("b")
	global := ast.ID("g")
	assign := ast.Assign("b", ast.Num(2))
	program := []ast.Statement{
		ast.Block(
			ast.Decl("a", ast.Num(1)),
			ast.Block(
				ast.Decl("b", nil),
				ast.Print(a),
				ast.Print(b),
				ast.Print(global),
				ast.Expr(assign),
			),
		),
	}
	locals, errs := resolveProgram(t, program)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if d, ok := locals[a.ID()]; !ok || d != 1 {
		t.Fatalf("expected a at distance 1, got %d (%v)", d, ok)
	}
	if d, ok := locals[b.ID()]; !ok || d != 0 {
		t.Fatalf("expected b at distance 0, got %d (%v)", d, ok)
	}
	if d, ok := locals[assign.ID()]; !ok || d != 0 {
		t.Fatalf("expected assignment at distance 0, got %d (%v)", d, ok)
	}
	if _, ok := locals[global.ID()]; ok {
		t.Fatalf("expected global reference to be unresolved")
	}
}

func TestResolverIdenticalReferencesResolveIndependently(t *testing.T) {
	inner := ast.ID("a")
	outer := ast.ID("a")
	program := []ast.Statement{
		ast.Block(
			ast.Decl("a", ast.Num(1)),
			ast.Block(
				ast.Decl("a", ast.Num(2)),
				ast.Print(inner),
			),
			ast.Print(outer),
		),
	}
	locals, _ := resolveProgram(t, program)
	if locals[inner.ID()] != 0 || locals[outer.ID()] != 0 {
		t.Fatalf("expected both references at distance 0, got %v", locals)
	}
	if len(locals) != 2 {
		t.Fatalf("expected two entries, got %v", locals)
	}
}

func TestResolverMethodScopes(t *testing.T) {
	this := ast.This()
	super := ast.Super("m")
	program := []ast.Statement{
		ast.Class("A", ""),
		ast.Class("B", "A",
			ast.Fun("m", []string{"x"},
				ast.Ret(ast.Call(super)),
				ast.Print(this),
			),
		),
	}
	locals, errs := resolveProgram(t, program)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// params scope -> this scope -> super scope
	if d := locals[this.ID()]; d != 1 {
		t.Fatalf("expected this at distance 1, got %d", d)
	}
	if d := locals[super.ID()]; d != 2 {
		t.Fatalf("expected super at distance 2, got %d", d)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	program := parseProgram(t, `
fun counter() {
  var i = 0;
  fun inc() { i = i + 1; return i; }
  return inc;
}
class A { m() { return this; } }
class B < A { m() { var f = super.m; { var g = f; return g(); } } }
`)
	first, errs := resolveProgram(t, program)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	second, _ := resolveProgram(t, program)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical locals, got %v and %v", first, second)
	}
	if len(first) == 0 {
		t.Fatalf("expected some local resolutions")
	}
}
