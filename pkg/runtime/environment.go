package runtime

import (
	"fmt"
	"sort"
)

// Environment provides lexical scoping for Lox runtime values. A name bound
// to nil has been declared but not yet initialized.
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

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Declare reserves a name in the current scope without a value.
func (e *Environment) Declare(name string) {
	e.values[name] = nil
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			if v == nil {
				return nil, fmt.Errorf("uninitialized variable '%s'", name)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Ancestor walks distance parents up the chain.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from exactly the environment distance hops away.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, fmt.Errorf("no scope %d levels up for '%s'", distance, name)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	if v == nil {
		return nil, fmt.Errorf("uninitialized variable '%s'", name)
	}
	return v, nil
}

// AssignAt writes name into exactly the environment distance hops away.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return fmt.Errorf("no scope %d levels up for '%s'", distance, name)
	}
	env.values[name] = value
	return nil
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
