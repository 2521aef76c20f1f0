package value

import (
	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
)

// Vector is the container shared by every atomic and generic vector kind.
// Its storage is an implementation detail: callers read it through the
// access protocol and mutate it only through Mutable.
type Vector struct {
	kind     Kind
	length   int
	complete bool
	refs     uint8
	writers  int
	attrs    *Attributes
	store    store
}

func newVector(k Kind, s store, n int, complete bool) *Vector {
	return &Vector{kind: k, store: s, length: n, complete: complete}
}

// NewLogical returns a logical vector owning data.
func NewLogical(data []int8) *Vector {
	s := denseLogical(data)
	return newVector(KindLogical, s, len(data), scanComplete(KindLogical, s, len(data)))
}

// NewInteger returns an integer vector owning data.
func NewInteger(data []int32) *Vector {
	s := denseInteger(data)
	return newVector(KindInteger, s, len(data), scanComplete(KindInteger, s, len(data)))
}

// NewDouble returns a double vector owning data.
func NewDouble(data []float64) *Vector {
	s := denseDouble(data)
	return newVector(KindDouble, s, len(data), scanComplete(KindDouble, s, len(data)))
}

// NewComplex returns a complex vector owning data.
func NewComplex(data []complex128) *Vector {
	s := denseComplex(data)
	return newVector(KindComplex, s, len(data), scanComplete(KindComplex, s, len(data)))
}

// NewCharacter returns a character vector owning data.
func NewCharacter(data []string) *Vector {
	s := denseString(data)
	return newVector(KindCharacter, s, len(data), scanComplete(KindCharacter, s, len(data)))
}

// NewRaw returns a raw vector owning data.
func NewRaw(data []byte) *Vector {
	return newVector(KindRaw, denseRaw(data), len(data), true)
}

// NewList returns a list vector owning elems. Nil elements become Null.
func NewList(elems []Value) *Vector {
	return newGeneric(KindList, elems)
}

// NewExpression returns an expression vector owning elems.
func NewExpression(elems []Value) *Vector {
	return newGeneric(KindExpression, elems)
}

func newGeneric(k Kind, elems []Value) *Vector {
	for i, e := range elems {
		if e == nil {
			elems[i] = Null
			continue
		}
		retain(e)
	}
	return newVector(k, denseList(elems), len(elems), true)
}

// NewVector returns a zero-filled vector of kind k and length n.
func NewVector(k Kind, n int) *Vector {
	return newVector(k, newDenseStore(k, n, false), n, true)
}

// NewNAVector returns a vector of kind k and length n holding only NA.
func NewNAVector(k Kind, n int) *Vector {
	v := newVector(k, newDenseStore(k, n, true), n, true)
	if n > 0 && k.IsAtomic() && k != KindRaw {
		v.complete = false
	}
	return v
}

// Convenience constructors.

func Logicals(xs ...int8) *Vector         { return NewLogical(xs) }
func Ints(xs ...int32) *Vector            { return NewInteger(xs) }
func Doubles(xs ...float64) *Vector       { return NewDouble(xs) }
func Complexes(xs ...complex128) *Vector  { return NewComplex(xs) }
func Strings(xs ...string) *Vector        { return NewCharacter(xs) }
func Raws(xs ...byte) *Vector             { return NewRaw(xs) }
func ListOf(xs ...Value) *Vector          { return NewList(xs) }
func ExpressionOf(xs ...Value) *Vector    { return NewExpression(xs) }
func Bool(b bool) *Vector                 { return Logicals(FromBool(b)) }

// FromBool returns the logical element for b.
func FromBool(b bool) int8 {
	if b {
		return na.True
	}
	return na.False
}

func (v *Vector) Type() Kind { return v.kind }

// Len returns the number of elements. Foreign-backed vectors forward the
// query to the external value.
func (v *Vector) Len() int {
	if f, ok := v.store.(*foreignStore); ok {
		return f.size()
	}
	return v.length
}

// IsComplete reports whether no element is NA. Dense and sequence storage
// keep the flag incrementally; foreign and view storage answer by reading.
func (v *Vector) IsComplete() bool {
	switch v.store.(type) {
	case *foreignStore, *viewStore:
		return scanElements(v.kind, v.store, v.Len())
	}
	return v.complete
}

// Storage reports the representation currently backing v.
func (v *Vector) Storage() StorageKind { return v.store.storage() }

// IsShared reports whether v is reachable from more than one binding and
// must therefore be copied before any in-place update.
func (v *Vector) IsShared() bool { return v.refs > 1 }

// MarkShared pins v as shared.
func (v *Vector) MarkShared() { v.refs = 2 }

func (v *Vector) addRef() {
	if v.refs < 2 {
		v.refs++
	}
}

// Attributes returns the attribute set, nil when there is none.
func (v *Vector) Attributes() *Attributes { return v.attrs }

// Attr returns the attribute stored under name.
func (v *Vector) Attr(name string) (Value, bool) { return v.attrs.Get(name) }

// SetAttr stores an attribute. Setting Null removes it.
func (v *Vector) SetAttr(name string, val Value) {
	v.checkNotShared("set attribute")
	if IsNull(val) {
		v.attrs.Delete(name)
		return
	}
	if v.attrs == nil {
		v.attrs = NewAttributes()
	}
	retain(val)
	v.attrs.Set(name, val)
}

// ResetAttributes drops every attribute.
func (v *Vector) ResetAttributes() {
	v.checkNotShared("reset attributes")
	v.attrs = nil
}

// Names returns the names attribute, or nil.
func (v *Vector) Names() *Vector {
	if n, ok := v.attrs.Get(config.NamesAttr); ok {
		if nv, ok := n.(*Vector); ok && nv.kind == KindCharacter {
			return nv
		}
	}
	return nil
}

// Dim returns the dim attribute, or nil.
func (v *Vector) Dim() []int32 {
	if d, ok := v.attrs.Get(config.DimAttr); ok {
		if dv, ok := d.(*Vector); ok && dv.kind == KindInteger {
			return dv.Ints()
		}
	}
	return nil
}

// DimNames returns the dimnames attribute, or nil.
func (v *Vector) DimNames() Value {
	if d, ok := v.attrs.Get(config.DimNamesAttr); ok {
		return d
	}
	return nil
}

func (v *Vector) checkNotShared(op string) {
	if v.IsShared() {
		Fail(PanicSharedMutation, "%s on shared %s vector", op, v.kind)
	}
	if v.writers > 0 {
		Fail(PanicSessionMisuse, "%s while a write session is open", op)
	}
}

// Copy returns an unshared copy with its own storage and attributes.
// Sequences stay compact; foreign and view storage is materialised.
func (v *Vector) Copy() *Vector {
	n := v.Len()
	var s store
	switch st := v.store.(type) {
	case *intSeq:
		c := *st
		s = &c
	case *doubleSeq:
		c := *st
		s = &c
	default:
		s = copyStore(v.kind, v.store, n)
	}
	c := newVector(v.kind, s, n, v.IsComplete())
	c.attrs = v.attrs.Copy()
	return c
}

// Materialize returns v itself when its storage is dense, otherwise a dense
// copy carrying the same attributes.
func (v *Vector) Materialize() *Vector {
	if v.Storage() == StorageDense {
		return v
	}
	n := v.Len()
	c := newVector(v.kind, materializeStore(v.kind, v.store, n), n, v.IsComplete())
	c.attrs = v.attrs.Copy()
	return c
}

// Mutable is the single entry point for in-place updates. It returns v when
// v may be written directly, a fresh copy when v is shared, and an error for
// externally owned storage. Sequences are switched to dense storage in place.
func (v *Vector) Mutable() (*Vector, error) {
	switch v.Storage() {
	case StorageForeign:
		return nil, &UnsupportedError{Op: "write", Kind: v.kind, Reason: "foreign values are externally owned"}
	case StorageView:
		return nil, &UnsupportedError{Op: "write", Kind: v.kind, Reason: "view storage is read-only"}
	}
	if v.IsShared() {
		c := v.Copy()
		c.densify()
		return c, nil
	}
	v.densify()
	return v, nil
}

func (v *Vector) densify() {
	if v.Storage() == StorageSequence {
		v.store = materializeStore(v.kind, v.store, v.length)
	}
}

func (v *Vector) beginWrite(i int) {
	if v.Storage() != StorageDense {
		Fail(PanicUnsupportedAccess, "element write on %s %s storage; call Mutable first", v.Storage(), v.kind)
	}
	v.checkNotShared("element write")
	if i < 0 || i >= v.length {
		Fail(PanicUnsupportedAccess, "index %d out of range [0, %d)", i, v.length)
	}
}

// noteWrite keeps the complete flag exact after replacing one element.
func (v *Vector) noteWrite(wasNA, isNA bool) {
	switch {
	case isNA:
		v.complete = false
	case wasNA && !v.complete:
		v.complete = scanComplete(v.kind, v.store, v.length)
	}
}

// SetLogical replaces element i of a logical vector.
func (v *Vector) SetLogical(i int, x int8) {
	v.beginWrite(i)
	s := v.store.(denseLogical)
	old := s[i]
	s[i] = x
	v.noteWrite(na.IsLogical(old), na.IsLogical(x))
}

// SetInt replaces element i of an integer vector.
func (v *Vector) SetInt(i int, x int32) {
	v.beginWrite(i)
	s := v.store.(denseInteger)
	old := s[i]
	s[i] = x
	v.noteWrite(na.IsInteger(old), na.IsInteger(x))
}

// SetDouble replaces element i of a double vector.
func (v *Vector) SetDouble(i int, x float64) {
	v.beginWrite(i)
	s := v.store.(denseDouble)
	old := s[i]
	s[i] = x
	v.noteWrite(na.IsDouble(old), na.IsDouble(x))
}

// SetComplex replaces element i of a complex vector.
func (v *Vector) SetComplex(i int, x complex128) {
	v.beginWrite(i)
	s := v.store.(denseComplex)
	old := s[i]
	s[i] = x
	v.noteWrite(na.IsComplex(old), na.IsComplex(x))
}

// SetString replaces element i of a character vector.
func (v *Vector) SetString(i int, x string) {
	v.beginWrite(i)
	var old string
	switch s := v.store.(type) {
	case denseString:
		old = s[i]
		s[i] = x
	case wrappedString:
		old = s[i].contents
		s[i] = NewCharSXP(x)
	default:
		Fail(PanicUnsupportedAccess, "SetString on %s vector", v.kind)
	}
	v.noteWrite(na.IsString(old), na.IsString(x))
}

// SetRaw replaces element i of a raw vector.
func (v *Vector) SetRaw(i int, x byte) {
	v.beginWrite(i)
	v.store.(denseRaw)[i] = x
}

// SetElem replaces element i of a list or expression vector.
func (v *Vector) SetElem(i int, x Value) {
	v.beginWrite(i)
	if x == nil {
		x = Null
	}
	retain(x)
	v.store.(denseList)[i] = x
}

// Resize returns a copy of length n. Growing fills with NA when fillNA is
// set, otherwise it recycles the existing elements (an empty vector always
// fills with NA). Names are carried over padded with "", dimensions and
// other attributes are dropped.
func (v *Vector) Resize(n int, fillNA bool) *Vector {
	old := v.Len()
	src := v.Materialize()
	if old == 0 {
		fillNA = true
	}
	out := newDenseStore(v.kind, n, fillNA)
	m := min(n, old)
	copyPrefix(out, src.store, m)
	if !fillNA {
		for i := old; i < n; i++ {
			copyElem(out, i, src.store, i%old)
		}
	}
	complete := v.IsComplete()
	switch {
	case n < old:
		complete = scanComplete(v.kind, out, n)
	case fillNA && n > old && v.kind.IsAtomic() && v.kind != KindRaw:
		complete = false
	}
	r := newVector(v.kind, out, n, complete)
	if names := v.Names(); names != nil {
		r.SetAttr(config.NamesAttr, names.ResizeWithEmpty(n))
	}
	return r
}

// ResizeWithEmpty resizes a character vector padding with "".
func (v *Vector) ResizeWithEmpty(n int) *Vector {
	r := v.Resize(n, true)
	if v.kind != KindCharacter {
		return r
	}
	s := r.store.(denseString)
	for i := v.Len(); i < n; i++ {
		s[i] = ""
	}
	if n >= v.Len() {
		r.complete = v.IsComplete()
	}
	return r
}

// CopyWithNewDimensions returns a copy with dims as its only attribute.
func (v *Vector) CopyWithNewDimensions(dims []int32) *Vector {
	c := v.Copy()
	c.attrs = nil
	c.SetAttr(config.DimAttr, NewInteger(append([]int32(nil), dims...)))
	return c
}

func copyPrefix(dst, src store, n int) {
	for i := 0; i < n; i++ {
		copyElem(dst, i, src, i)
	}
}

func copyElem(dst store, i int, src store, j int) {
	switch d := dst.(type) {
	case denseLogical:
		d[i] = src.(denseLogical)[j]
	case denseInteger:
		d[i] = src.(denseInteger)[j]
	case denseDouble:
		d[i] = src.(denseDouble)[j]
	case denseComplex:
		d[i] = src.(denseComplex)[j]
	case denseString:
		d[i] = src.(stringReader).stringAt(j)
	case denseRaw:
		d[i] = src.(denseRaw)[j]
	case denseList:
		e := src.(denseList)[j]
		MarkShared(e)
		d[i] = e
	}
}
