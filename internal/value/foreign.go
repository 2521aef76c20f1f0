package value

import (
	"fmt"
	"reflect"

	"github.com/funvibe/vcore/internal/config"
)

// ForeignRef wraps an externally owned object that has not been adapted to
// a vector. It is compared by identity only.
type ForeignRef struct {
	Obj any
}

func (f *ForeignRef) Type() Kind { return KindForeign }

func (f *ForeignRef) Inspect() string {
	return fmt.Sprintf("<foreign: %T>", f.Obj)
}

// InteropScalar is a typed scalar handed across the interop boundary. It
// carries the element kind the sender declared.
type InteropScalar struct {
	Elem Kind
	Val  any
}

// NewInteropScalar checks that val is a Go scalar matching kind.
func NewInteropScalar(kind Kind, val any) (*InteropScalar, error) {
	ok := false
	switch kind {
	case KindLogical:
		_, ok = val.(bool)
	case KindInteger:
		switch val.(type) {
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			ok = true
		}
	case KindDouble:
		switch val.(type) {
		case float32, float64:
			ok = true
		}
	case KindComplex:
		_, ok = val.(complex128)
	case KindCharacter:
		_, ok = val.(string)
	case KindRaw:
		_, ok = val.(byte)
	}
	if !ok {
		return nil, fmt.Errorf("interop %s scalar cannot hold %T", kind, val)
	}
	return &InteropScalar{Elem: kind, Val: val}, nil
}

func (s *InteropScalar) Type() Kind { return KindInteropScalar }

func (s *InteropScalar) Inspect() string {
	return fmt.Sprintf("<interop %s: %v>", s.Elem, s.Val)
}

// Unwrap returns the scalar as a length-one vector of its declared kind.
func (s *InteropScalar) Unwrap() *Vector {
	switch s.Elem {
	case KindLogical:
		return Logicals(FromBool(s.Val.(bool)))
	case KindInteger:
		r, _ := foreignInt(s.Val)
		return Ints(r)
	case KindDouble:
		d, _ := foreignNumber(s.Val)
		return Doubles(d)
	case KindComplex:
		return Complexes(s.Val.(complex128))
	case KindCharacter:
		return Strings(s.Val.(string))
	case KindRaw:
		return Raws(s.Val.(byte))
	}
	Fail(PanicUnreachable, "interop scalar of %s kind", s.Elem)
	return nil
}

// ExternalPtr is an opaque native address with a tag and a protected value.
type ExternalPtr struct {
	Addr  uintptr
	Tag   Value
	Prot  Value
	attrs *Attributes
}

// NewExternalPtr returns a pointer value for addr.
func NewExternalPtr(addr uintptr, tag, prot Value) *ExternalPtr {
	if tag == nil {
		tag = Null
	}
	if prot == nil {
		prot = Null
	}
	return &ExternalPtr{Addr: addr, Tag: tag, Prot: prot}
}

// ExternalPtrOf returns a pointer value holding the address of p, which must
// be a pointer.
func ExternalPtrOf(p any) *ExternalPtr {
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.UnsafePointer {
		Fail(PanicUnsupportedAccess, "external pointer to non-pointer %T", p)
	}
	return NewExternalPtr(rv.Pointer(), nil, nil)
}

func (p *ExternalPtr) Type() Kind { return KindExternalPtr }

func (p *ExternalPtr) Inspect() string {
	return fmt.Sprintf("<pointer: 0x%x>", p.Addr)
}

func (p *ExternalPtr) Attributes() *Attributes { return p.attrs }

// SetAttr stores an attribute on the pointer.
func (p *ExternalPtr) SetAttr(name string, val Value) {
	if IsNull(val) {
		p.attrs.Delete(name)
		return
	}
	if p.attrs == nil {
		p.attrs = NewAttributes()
	}
	retain(val)
	p.attrs.Set(name, val)
}

// S4Object is an instance of a formal class. Its slots are attributes.
type S4Object struct {
	S4    bool
	attrs *Attributes
}

// NewS4Object returns an S4 instance of class.
func NewS4Object(class string) *S4Object {
	o := &S4Object{S4: true}
	if class != "" {
		o.SetAttr(config.ClassAttr, Strings(class))
	}
	return o
}

func (o *S4Object) Type() Kind { return KindS4 }

func (o *S4Object) Inspect() string {
	if c, ok := o.attrs.Get(config.ClassAttr); ok {
		if cv, ok := c.(*Vector); ok && cv.kind == KindCharacter && cv.Len() > 0 {
			return fmt.Sprintf("<S4 object of class %q>", cv.StringAt(0))
		}
	}
	return "<S4 object>"
}

func (o *S4Object) Attributes() *Attributes { return o.attrs }

// SetAttr stores a slot.
func (o *S4Object) SetAttr(name string, val Value) {
	if IsNull(val) {
		o.attrs.Delete(name)
		return
	}
	if o.attrs == nil {
		o.attrs = NewAttributes()
	}
	retain(val)
	o.attrs.Set(name, val)
}
