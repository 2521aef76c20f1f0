package value

import (
	"fmt"
	"strings"
	"sync"
)

// Closure is a user function: formal arguments, a body and the frame it
// captured.
type Closure struct {
	Formals  Value // pairlist of defaults tagged by argument name, or Null
	Body     Value
	Env      *Environment
	ByteCode Value // compiled form, or nil
	attrs    *Attributes
}

// NewClosure returns a closure over env.
func NewClosure(formals, body Value, env *Environment) *Closure {
	if formals == nil {
		formals = Null
	}
	if body == nil {
		body = Null
	}
	return &Closure{Formals: formals, Body: body, Env: env}
}

func (c *Closure) Type() Kind { return KindClosure }

func (c *Closure) Inspect() string {
	var params []string
	if p, ok := c.Formals.(*PairList); ok {
		for _, cell := range p.Cells() {
			params = append(params, cell.TagName())
		}
	}
	return fmt.Sprintf("function(%s) %s", strings.Join(params, ", "), inspectShort(c.Body))
}

func (c *Closure) Attributes() *Attributes { return c.attrs }

// SetAttr stores an attribute on the closure.
func (c *Closure) SetAttr(name string, val Value) {
	if IsNull(val) {
		c.attrs.Delete(name)
		return
	}
	if c.attrs == nil {
		c.attrs = NewAttributes()
	}
	retain(val)
	c.attrs.Set(name, val)
}

// BuiltinDescriptor identifies one primitive. Two builtin values are the
// same function exactly when they share a descriptor.
type BuiltinDescriptor struct {
	Name  string
	Arity int // -1 for variadic
}

// Builtin is a primitive function value.
type Builtin struct {
	Desc *BuiltinDescriptor
}

var builtins = struct {
	sync.Mutex
	m map[string]*BuiltinDescriptor
}{m: make(map[string]*BuiltinDescriptor)}

// RegisterBuiltin returns the descriptor for name, creating it on first use.
func RegisterBuiltin(name string, arity int) *BuiltinDescriptor {
	builtins.Lock()
	defer builtins.Unlock()
	if d, ok := builtins.m[name]; ok {
		return d
	}
	d := &BuiltinDescriptor{Name: name, Arity: arity}
	builtins.m[name] = d
	return d
}

// NewBuiltin returns a builtin value for d.
func NewBuiltin(d *BuiltinDescriptor) *Builtin { return &Builtin{Desc: d} }

func (b *Builtin) Type() Kind      { return KindBuiltin }
func (b *Builtin) Inspect() string { return fmt.Sprintf(".Primitive(%q)", b.Desc.Name) }
