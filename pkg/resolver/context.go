package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/lexer"
)

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

// beginScopeWith opens a scope holding one ready binding.
func (r *Resolver) beginScopeWith(name string) {
	r.scopes = append(r.scopes, map[string]bool{name: true})
}

func (r *Resolver) endScope() {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet initialized. Globals
// are not tracked.
func (r *Resolver) declare(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.report(DuplicateVariable, name, fmt.Sprintf("already a variable named '%s' in this scope", name.Lexeme))
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
