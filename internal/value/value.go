package value

import (
	"sync"
)

// Value is the universal handle for every runtime datum.
type Value interface {
	Type() Kind
	Inspect() string
}

// NullValue is the empty object. Use the Null singleton.
type NullValue struct{}

func (*NullValue) Type() Kind      { return KindNull }
func (*NullValue) Inspect() string { return "NULL" }

// MissingValue marks an absent argument. Use the Missing singleton.
type MissingValue struct{}

func (*MissingValue) Type() Kind      { return KindMissing }
func (*MissingValue) Inspect() string { return "<missing>" }

var (
	Null    = &NullValue{}
	Missing = &MissingValue{}
)

// IsNull reports whether v is nil or the Null singleton.
func IsNull(v Value) bool {
	return v == nil || v == Value(Null)
}

// Symbol is an interned name. Symbols compare by identity.
type Symbol struct {
	name string
}

func (s *Symbol) Type() Kind      { return KindSymbol }
func (s *Symbol) Inspect() string { return s.name }

// Name returns the symbol's text.
func (s *Symbol) Name() string { return s.name }

var symtab = struct {
	sync.Mutex
	m map[string]*Symbol
}{m: make(map[string]*Symbol)}

// Intern returns the unique symbol for name.
func Intern(name string) *Symbol {
	symtab.Lock()
	defer symtab.Unlock()
	if s, ok := symtab.m[name]; ok {
		return s
	}
	s := &Symbol{name: name}
	symtab.m[name] = s
	return s
}

// EmptySymbol is the zero-length symbol, used as "no tag" in cons chains.
var EmptySymbol = Intern("")

// MarkShared records that v is reachable from more than one place. Only
// vectors track sharing; other values are immutable or reference types.
func MarkShared(v Value) {
	if vec, ok := v.(*Vector); ok {
		vec.MarkShared()
	}
}

// retain records one more binding of v.
func retain(v Value) {
	if vec, ok := v.(*Vector); ok {
		vec.addRef()
	}
}
