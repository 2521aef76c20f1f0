package value

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Environment is a mutable frame of bindings with an optional enclosing
// frame. Environments have reference identity: two distinct frames are
// never the same value, whatever they hold.
type Environment struct {
	mu     sync.RWMutex
	id     uuid.UUID
	name   string
	store  map[string]Value
	outer  *Environment
	attrs  *Attributes
	locked bool
}

// NewEnvironment returns an empty top-level frame.
func NewEnvironment() *Environment {
	return &Environment{id: uuid.New(), store: make(map[string]Value)}
}

// NewEnclosedEnvironment returns an empty frame enclosed by outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// NewNamedEnvironment returns a frame that reports name when inspected.
func NewNamedEnvironment(name string, outer *Environment) *Environment {
	env := NewEnclosedEnvironment(outer)
	env.name = name
	return env
}

// EmptyEnv is the frame that encloses nothing.
var EmptyEnv = NewNamedEnvironment("R_EmptyEnv", nil)

func (e *Environment) Type() Kind { return KindEnvironment }

func (e *Environment) Inspect() string {
	if e.name != "" {
		return fmt.Sprintf("<environment: %s>", e.name)
	}
	return fmt.Sprintf("<environment: %s>", e.id)
}

// ID returns the frame's identity tag.
func (e *Environment) ID() uuid.UUID { return e.id }

// Outer returns the enclosing frame, or nil.
func (e *Environment) Outer() *Environment { return e.outer }

// Get looks name up in this frame and then in the enclosing frames.
func (e *Environment) Get(name string) (Value, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// GetLocal looks name up in this frame only.
func (e *Environment) GetLocal(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	obj, ok := e.store[name]
	return obj, ok
}

// Set binds name in this frame. A bound vector gains a reference and
// becomes shared once it is reachable from a second binding.
func (e *Environment) Set(name string, val Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked {
		if _, ok := e.store[name]; !ok {
			return fmt.Errorf("cannot add binding %q to a locked environment", name)
		}
	}
	if val == nil {
		val = Null
	}
	retain(val)
	e.store[name] = val
	return nil
}

// Lock forbids new bindings.
func (e *Environment) Lock() {
	e.mu.Lock()
	e.locked = true
	e.mu.Unlock()
}

// Names returns the names bound in this frame, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) Attributes() *Attributes { return e.attrs }

// SetAttr stores an attribute on the frame.
func (e *Environment) SetAttr(name string, val Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if IsNull(val) {
		e.attrs.Delete(name)
		return
	}
	if e.attrs == nil {
		e.attrs = NewAttributes()
	}
	retain(val)
	e.attrs.Set(name, val)
}
