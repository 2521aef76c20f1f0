package value

import (
	"math"

	"fortio.org/safecast"

	"github.com/funvibe/vcore/internal/na"
)

// ForeignSource is the protocol an externally owned array must expose to be
// read as a vector. The adapter never writes through it.
type ForeignSource interface {
	Size() (int, error)
	ReadAt(i int) (any, error)
	IsNull(v any) bool
	IsBoxed(v any) bool
	Unbox(v any) (any, error)
}

// foreignStore forwards every read to its source. Nothing is cached, so a
// source that changes is observed as changed.
type foreignStore struct {
	src ForeignSource
}

func (*foreignStore) storage() StorageKind { return StorageForeign }

// NewForeignVector adapts src as a read-only vector of kind k.
func NewForeignVector(k Kind, src ForeignSource) *Vector {
	if !k.IsVector() {
		Fail(PanicUnsupportedAccess, "foreign vector of %s kind", k)
	}
	return newVector(k, &foreignStore{src: src}, 0, false)
}

// ForeignSource returns the source behind a foreign-backed vector.
func (v *Vector) ForeignSource() (ForeignSource, bool) {
	f, ok := v.store.(*foreignStore)
	if !ok {
		return nil, false
	}
	return f.src, true
}

func (f *foreignStore) size() int {
	n, err := f.src.Size()
	if err != nil {
		Fail(PanicForeignProtocol, "foreign size: %v", err)
	}
	if n < 0 {
		Fail(PanicForeignProtocol, "foreign size %d is negative", n)
	}
	return n
}

// read fetches element i and unwraps at most one box. A nil result means the
// source reported null.
func (f *foreignStore) read(i int) any {
	x, err := f.src.ReadAt(i)
	if err != nil {
		Fail(PanicForeignProtocol, "foreign read at %d: %v", i, err)
	}
	if f.src.IsNull(x) {
		return nil
	}
	if f.src.IsBoxed(x) {
		x, err = f.src.Unbox(x)
		if err != nil {
			Fail(PanicForeignProtocol, "foreign unbox at %d: %v", i, err)
		}
		if f.src.IsBoxed(x) {
			Fail(PanicForeignProtocol, "foreign element %d is boxed twice", i)
		}
		if f.src.IsNull(x) {
			return nil
		}
	}
	return x
}

func (f *foreignStore) logicalAt(i int) int8 {
	switch x := f.read(i).(type) {
	case nil:
		return na.Logical
	case bool:
		return FromBool(x)
	case string:
		return LogicalFromString(x)
	default:
		d, ok := foreignNumber(x)
		if !ok {
			f.shape(i, x, KindLogical)
		}
		return LogicalFromDouble(d)
	}
}

func (f *foreignStore) integerAt(i int) int32 {
	x := f.read(i)
	r, ok := foreignInt(x)
	if !ok {
		f.shape(i, x, KindInteger)
	}
	return r
}

// foreignInt narrows a Go scalar to an integer element.
func foreignInt(x any) (int32, bool) {
	switch n := x.(type) {
	case nil:
		return na.Integer, true
	case bool:
		return IntFromLogical(FromBool(n)), true
	case string:
		r, _ := IntFromString(n)
		return r, true
	case int:
		return narrowInt(n), true
	case int64:
		return narrowInt(n), true
	case int32:
		return n, true
	case int16:
		return int32(n), true
	case int8:
		return int32(n), true
	case uint:
		return narrowInt(n), true
	case uint64:
		return narrowInt(n), true
	case uint32:
		return narrowInt(n), true
	case uint16:
		return int32(n), true
	case uint8:
		return int32(n), true
	case float64:
		r, _ := IntFromDouble(n)
		return r, true
	case float32:
		r, _ := IntFromDouble(float64(n))
		return r, true
	}
	return na.Integer, false
}

// narrowInt converts with a range check; anything that does not fit, or
// lands on the sentinel, reads as NA.
func narrowInt[T safecast.Integer](x T) int32 {
	r, err := safecast.Conv[int32](x)
	if err != nil {
		return na.Integer
	}
	return r
}

func (f *foreignStore) doubleAt(i int) float64 {
	switch x := f.read(i).(type) {
	case nil:
		return na.Double
	case bool:
		return DoubleFromLogical(FromBool(x))
	case string:
		d, _ := DoubleFromString(x)
		return d
	default:
		d, ok := foreignNumber(x)
		if !ok {
			f.shape(i, x, KindDouble)
		}
		return d
	}
}

func (f *foreignStore) complexAt(i int) complex128 {
	switch x := f.read(i).(type) {
	case nil:
		return na.Complex
	case complex128:
		return x
	case complex64:
		return complex128(x)
	case string:
		c, _ := ComplexFromString(x)
		return c
	default:
		d, ok := foreignNumber(x)
		if !ok {
			f.shape(i, x, KindComplex)
		}
		return ComplexFromDouble(d)
	}
}

func (f *foreignStore) stringAt(i int) string {
	switch x := f.read(i).(type) {
	case nil:
		return na.String
	case string:
		return x
	case bool:
		return StringFromLogical(FromBool(x))
	case []byte:
		return string(x)
	default:
		if d, ok := foreignNumber(x); ok {
			return StringFromDouble(d)
		}
		f.shape(i, x, KindCharacter)
		return na.String
	}
}

func (f *foreignStore) rawAt(i int) byte {
	switch x := f.read(i).(type) {
	case nil:
		return 0
	case byte:
		return x
	default:
		d, ok := foreignNumber(x)
		if !ok {
			f.shape(i, x, KindRaw)
		}
		r, _ := RawFromDouble(d)
		return r
	}
}

func (f *foreignStore) elemAt(i int) Value {
	switch x := f.read(i).(type) {
	case nil:
		return Null
	case Value:
		return x
	case bool:
		return Logicals(FromBool(x))
	case string:
		return Strings(x)
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16:
		r, _ := foreignInt(x)
		return Ints(r)
	case uint8:
		return Raws(x)
	case float64, float32:
		d, _ := foreignNumber(x)
		return Doubles(d)
	case complex128:
		return Complexes(x)
	default:
		return &ForeignRef{Obj: x}
	}
}

func (f *foreignStore) shape(i int, x any, k Kind) {
	Fail(PanicForeignProtocol, "foreign element %d of type %T cannot be read as %s", i, x, k)
}

// foreignNumber widens any Go numeric to float64.
func foreignNumber(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return math.NaN(), false
}

// viewStore converts the elements of a source vector on every read. It
// backs the lazy results of reuse coercions.
type viewStore struct {
	src *Vector
	cur *Session
}

func (*viewStore) storage() StorageKind { return StorageView }

// NewView returns a read-only vector of kind k whose elements are those of
// src converted on read. src is marked shared so it cannot change beneath
// the view. Views are not safe for concurrent reads.
func NewView(src *Vector, k Kind) (*Vector, error) {
	if !src.kind.IsAtomic() || !k.IsAtomic() {
		return nil, &CoercionError{From: src.kind, To: k, Detail: "a non-atomic vector through a view"}
	}
	src.MarkShared()
	cur, err := GenericAccessor(src.kind).Open(src, Read)
	if err != nil {
		return nil, err
	}
	return newVector(k, &viewStore{src: src, cur: cur}, src.Len(), false), nil
}

// ViewSource returns the vector a view reads from.
func (v *Vector) ViewSource() (*Vector, bool) {
	vs, ok := v.store.(*viewStore)
	if !ok {
		return nil, false
	}
	return vs.src, true
}

func (vs *viewStore) at(i int) *Session {
	vs.cur.Seek(i)
	return vs.cur
}

func (vs *viewStore) logicalAt(i int) int8       { return vs.at(i).Logical() }
func (vs *viewStore) integerAt(i int) int32      { return vs.at(i).Int() }
func (vs *viewStore) doubleAt(i int) float64     { return vs.at(i).Double() }
func (vs *viewStore) complexAt(i int) complex128 { return vs.at(i).Complex() }
func (vs *viewStore) stringAt(i int) string      { return vs.at(i).Str() }
func (vs *viewStore) rawAt(i int) byte           { return vs.at(i).Raw() }
