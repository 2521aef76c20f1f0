package value

import (
	"github.com/funvibe/vcore/internal/na"
)

// Mode selects whether a session may write.
type Mode uint8

const (
	Read Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read"
}

// Accessor opens sessions over vectors. A specialised accessor is bound to
// one kind and storage shape and serves only vectors passing Supports; a
// generic accessor serves every vector of its kind.
type Accessor interface {
	Supports(v *Vector) bool
	Generic() bool
	Open(v *Vector, mode Mode) (*Session, error)
}

// Session is a positional cursor over one vector. It starts before the first
// element; call Next to advance. Getters convert from the vector's kind to
// the requested one, propagating NA and recording coercion warnings.
//
// Sessions are not safe for concurrent use and must be closed, usually with
// defer, before the vector is mutated by other means.
type Session struct {
	v       *Vector
	kind    Kind
	mode    Mode
	n       int
	i       int
	closed  bool
	generic bool

	check na.Check
	warn  Warning

	// write bookkeeping, applied to v on Close
	wroteNA   bool
	clearedNA bool

	// specialised path: exactly one group is bound
	lgl     []int8
	ints    []int32
	dbls    []float64
	cplx    []complex128
	strs    []string
	wrapped []*CharSXP
	raws    []byte
	elems   []Value
	iseq    *intSeq
	dseq    *doubleSeq

	// generic path
	lr logicalReader
	ir integerReader
	dr doubleReader
	cr complexReader
	sr stringReader
	rr rawReader
	er elemReader
}

// Access opens a session through the accessor matching v's current shape.
func Access(v *Vector, mode Mode) (*Session, error) {
	if acc, ok := SpecializedAccessor(v); ok {
		return acc.Open(v, mode)
	}
	return GenericAccessor(v.kind).Open(v, mode)
}

// openSession performs the checks common to both paths and returns a session
// positioned before the first element.
func openSession(v *Vector, mode Mode, generic bool) (*Session, error) {
	if mode == ReadWrite {
		switch v.Storage() {
		case StorageForeign, StorageView:
			return nil, &UnsupportedError{Op: "write session", Kind: v.kind, Reason: v.Storage().String() + " storage is read-only"}
		}
		if v.IsShared() {
			Fail(PanicSharedMutation, "write session on shared %s vector", v.kind)
		}
		if v.writers > 0 {
			Fail(PanicSessionMisuse, "second write session on %s vector", v.kind)
		}
		v.densify()
		v.writers++
	}
	return &Session{v: v, kind: v.kind, mode: mode, n: v.Len(), i: -1, generic: generic}, nil
}

// Len returns the number of elements.
func (s *Session) Len() int { return s.n }

// Kind returns the element kind of the underlying vector.
func (s *Session) Kind() Kind { return s.kind }

// Generic reports whether the generic path serves this session.
func (s *Session) Generic() bool { return s.generic }

// Vector returns the vector the session reads.
func (s *Session) Vector() *Vector { return s.v }

// Next advances the cursor and reports whether it is on an element.
func (s *Session) Next() bool {
	s.live()
	if s.i < s.n {
		s.i++
	}
	return s.i < s.n
}

// Index returns the cursor position.
func (s *Session) Index() int { return s.i }

// Seek moves the cursor to element i.
func (s *Session) Seek(i int) {
	s.live()
	if i < 0 || i >= s.n {
		Fail(PanicUnsupportedAccess, "seek to %d outside [0, %d)", i, s.n)
	}
	s.i = i
}

// Reset moves the cursor back before the first element.
func (s *Session) Reset() {
	s.live()
	s.i = -1
}

// NeverSeenNA reports whether no read or write so far produced NA.
func (s *Session) NeverSeenNA() bool { return s.check.NeverSeenNA() }

// NeverSeenNAOrNaN is NeverSeenNA that also counts plain NaN.
func (s *Session) NeverSeenNAOrNaN() bool { return s.check.NeverSeenNAOrNaN() }

// Warnings returns the coercion warnings raised by conversions so far.
func (s *Session) Warnings() Warning { return s.warn }

// Close releases the session. A write session settles the vector's
// completeness flag. Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.mode != ReadWrite {
		return
	}
	v := s.v
	v.writers--
	switch {
	case s.wroteNA:
		v.complete = false
	case s.clearedNA && !v.complete:
		v.complete = scanComplete(v.kind, v.store, v.length)
	}
}

func (s *Session) live() {
	if s.closed {
		Fail(PanicSessionMisuse, "use of closed %s session", s.kind)
	}
}

func (s *Session) pos() int {
	s.live()
	if s.i < 0 || s.i >= s.n {
		Fail(PanicUnsupportedAccess, "read at position %d outside [0, %d)", s.i, s.n)
	}
	return s.i
}

// Raw element fetches in the vector's own kind.

func (s *Session) lglAt(i int) int8 {
	if s.lr != nil {
		return s.lr.logicalAt(i)
	}
	return s.lgl[i]
}

func (s *Session) intAt(i int) int32 {
	switch {
	case s.iseq != nil:
		return s.iseq.integerAt(i)
	case s.ir != nil:
		return s.ir.integerAt(i)
	}
	return s.ints[i]
}

func (s *Session) dblAt(i int) float64 {
	switch {
	case s.dseq != nil:
		return s.dseq.doubleAt(i)
	case s.dr != nil:
		return s.dr.doubleAt(i)
	}
	return s.dbls[i]
}

func (s *Session) cplxAt(i int) complex128 {
	if s.cr != nil {
		return s.cr.complexAt(i)
	}
	return s.cplx[i]
}

func (s *Session) strAt(i int) string {
	switch {
	case s.wrapped != nil:
		return s.wrapped[i].contents
	case s.sr != nil:
		return s.sr.stringAt(i)
	}
	return s.strs[i]
}

func (s *Session) rawAt(i int) byte {
	if s.rr != nil {
		return s.rr.rawAt(i)
	}
	return s.raws[i]
}

func (s *Session) elemAt(i int) Value {
	if s.er != nil {
		return s.er.elemAt(i)
	}
	return s.elems[i]
}

// IsNA reports whether the current element is its kind's NA.
func (s *Session) IsNA() bool {
	i := s.pos()
	switch s.kind {
	case KindLogical:
		return na.IsLogical(s.lglAt(i))
	case KindInteger:
		return na.IsInteger(s.intAt(i))
	case KindDouble:
		return na.IsDouble(s.dblAt(i))
	case KindComplex:
		return na.IsComplex(s.cplxAt(i))
	case KindCharacter:
		return na.IsString(s.strAt(i))
	}
	return false
}

// Logical returns the current element as a logical.
func (s *Session) Logical() int8 {
	i := s.pos()
	var r int8
	switch s.kind {
	case KindLogical:
		r = s.lglAt(i)
	case KindInteger:
		r = LogicalFromInt(s.intAt(i))
	case KindDouble:
		r = LogicalFromDouble(s.dblAt(i))
	case KindComplex:
		r = LogicalFromComplex(s.cplxAt(i))
	case KindCharacter:
		r = LogicalFromString(s.strAt(i))
	case KindRaw:
		r = LogicalFromRaw(s.rawAt(i))
	default:
		s.unsupported(KindLogical)
	}
	s.check.Logical(r)
	return r
}

// Int returns the current element as an integer.
func (s *Session) Int() int32 {
	i := s.pos()
	var r int32
	var w Warning
	switch s.kind {
	case KindLogical:
		r = IntFromLogical(s.lglAt(i))
	case KindInteger:
		r = s.intAt(i)
	case KindDouble:
		r, w = IntFromDouble(s.dblAt(i))
	case KindComplex:
		r, w = IntFromComplex(s.cplxAt(i))
	case KindCharacter:
		r, w = IntFromString(s.strAt(i))
	case KindRaw:
		r = int32(s.rawAt(i))
	default:
		s.unsupported(KindInteger)
	}
	s.warn |= w
	s.check.Integer(r)
	return r
}

// Double returns the current element as a double.
func (s *Session) Double() float64 {
	i := s.pos()
	var r float64
	var w Warning
	switch s.kind {
	case KindLogical:
		r = DoubleFromLogical(s.lglAt(i))
	case KindInteger:
		r = DoubleFromInt(s.intAt(i))
	case KindDouble:
		r = s.dblAt(i)
	case KindComplex:
		r, w = DoubleFromComplex(s.cplxAt(i))
	case KindCharacter:
		r, w = DoubleFromString(s.strAt(i))
	case KindRaw:
		r = float64(s.rawAt(i))
	default:
		s.unsupported(KindDouble)
	}
	s.warn |= w
	s.check.Double(r)
	return r
}

// Complex returns the current element as a complex.
func (s *Session) Complex() complex128 {
	i := s.pos()
	var r complex128
	var w Warning
	switch s.kind {
	case KindLogical:
		r = ComplexFromDouble(DoubleFromLogical(s.lglAt(i)))
	case KindInteger:
		r = ComplexFromDouble(DoubleFromInt(s.intAt(i)))
	case KindDouble:
		d := s.dblAt(i)
		if na.IsDouble(d) {
			r = na.Complex
		} else {
			r = complex(d, 0)
		}
	case KindComplex:
		r = s.cplxAt(i)
	case KindCharacter:
		r, w = ComplexFromString(s.strAt(i))
	case KindRaw:
		r = complex(float64(s.rawAt(i)), 0)
	default:
		s.unsupported(KindComplex)
	}
	s.warn |= w
	s.check.Complex(r)
	return r
}

// Str returns the current element as a string.
func (s *Session) Str() string {
	i := s.pos()
	var r string
	switch s.kind {
	case KindLogical:
		r = StringFromLogical(s.lglAt(i))
	case KindInteger:
		r = StringFromInt(s.intAt(i))
	case KindDouble:
		r = StringFromDouble(s.dblAt(i))
	case KindComplex:
		r = StringFromComplex(s.cplxAt(i))
	case KindCharacter:
		r = s.strAt(i)
	case KindRaw:
		r = StringFromRaw(s.rawAt(i))
	default:
		s.unsupported(KindCharacter)
	}
	s.check.String(r)
	return r
}

// Raw returns the current element as a byte.
func (s *Session) Raw() byte {
	i := s.pos()
	var r byte
	var w Warning
	switch s.kind {
	case KindLogical:
		r, w = RawFromInt(IntFromLogical(s.lglAt(i)))
	case KindInteger:
		r, w = RawFromInt(s.intAt(i))
	case KindDouble:
		r, w = RawFromDouble(s.dblAt(i))
	case KindComplex:
		d, w1 := DoubleFromComplex(s.cplxAt(i))
		r, w = RawFromDouble(d)
		w |= w1
	case KindCharacter:
		n, w1 := IntFromString(s.strAt(i))
		r, w = RawFromInt(n)
		w |= w1
	case KindRaw:
		r = s.rawAt(i)
	default:
		s.unsupported(KindRaw)
	}
	s.warn |= w
	return r
}

// Elem returns the current element as a Value: the element itself for
// lists, a length-one vector otherwise.
func (s *Session) Elem() Value {
	i := s.pos()
	switch s.kind {
	case KindList, KindExpression:
		return s.elemAt(i)
	case KindLogical:
		return Logicals(s.Logical())
	case KindInteger:
		return Ints(s.Int())
	case KindDouble:
		return Doubles(s.Double())
	case KindComplex:
		return Complexes(s.Complex())
	case KindCharacter:
		return Strings(s.Str())
	case KindRaw:
		return Raws(s.Raw())
	}
	s.unsupported(KindList)
	return nil
}

func (s *Session) unsupported(want Kind) {
	Fail(PanicUnsupportedAccess, "%s read from %s session", want, s.kind)
}

// Writes. Each setter requires a read-write session of the matching kind.

func (s *Session) beginSet(k Kind) int {
	i := s.pos()
	if s.mode != ReadWrite {
		Fail(PanicSessionMisuse, "write through a read session")
	}
	if s.kind != k && !(k == KindList && s.kind.IsList()) {
		Fail(PanicUnsupportedAccess, "%s write into %s session", k, s.kind)
	}
	return i
}

func (s *Session) noteSet(wasNA, isNA bool) {
	if isNA {
		s.wroteNA = true
		s.check.SeenNA()
	} else if wasNA {
		s.clearedNA = true
	}
}

// SetLogical stores x at the cursor.
func (s *Session) SetLogical(x int8) {
	i := s.beginSet(KindLogical)
	d := s.v.store.(denseLogical)
	s.noteSet(na.IsLogical(d[i]), na.IsLogical(x))
	d[i] = x
}

// SetInt stores x at the cursor.
func (s *Session) SetInt(x int32) {
	i := s.beginSet(KindInteger)
	d := s.v.store.(denseInteger)
	s.noteSet(na.IsInteger(d[i]), na.IsInteger(x))
	d[i] = x
}

// SetDouble stores x at the cursor.
func (s *Session) SetDouble(x float64) {
	i := s.beginSet(KindDouble)
	d := s.v.store.(denseDouble)
	s.noteSet(na.IsDouble(d[i]), na.IsDouble(x))
	d[i] = x
}

// SetComplex stores x at the cursor.
func (s *Session) SetComplex(x complex128) {
	i := s.beginSet(KindComplex)
	d := s.v.store.(denseComplex)
	s.noteSet(na.IsComplex(d[i]), na.IsComplex(x))
	d[i] = x
}

// SetString stores x at the cursor.
func (s *Session) SetString(x string) {
	i := s.beginSet(KindCharacter)
	switch d := s.v.store.(type) {
	case denseString:
		s.noteSet(na.IsString(d[i]), na.IsString(x))
		d[i] = x
	case wrappedString:
		s.noteSet(d[i] == NACharSXP, na.IsString(x))
		d[i] = NewCharSXP(x)
	}
}

// SetRaw stores x at the cursor.
func (s *Session) SetRaw(x byte) {
	i := s.beginSet(KindRaw)
	s.v.store.(denseRaw)[i] = x
}

// SetElem stores x at the cursor of a list session.
func (s *Session) SetElem(x Value) {
	i := s.beginSet(KindList)
	if x == nil {
		x = Null
	}
	retain(x)
	s.v.store.(denseList)[i] = x
}
