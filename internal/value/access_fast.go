package value

// shape is the storage layout a specialised accessor is bound to.
type shape uint8

const (
	shapeDense shape = iota
	shapeWrapped
	shapeSequence
)

func (s shape) String() string {
	switch s {
	case shapeWrapped:
		return "wrapped"
	case shapeSequence:
		return "sequence"
	}
	return "dense"
}

// fastAccess serves one kind x shape pair by binding the backing slice or
// sequence parameters once at open.
type fastAccess struct {
	kind  Kind
	shape shape
}

var fastAccessors = func() map[fastAccess]*fastAccess {
	m := make(map[fastAccess]*fastAccess)
	add := func(k Kind, sh shape) { m[fastAccess{k, sh}] = &fastAccess{k, sh} }
	for k := KindLogical; k <= KindExpression; k++ {
		add(k, shapeDense)
	}
	add(KindCharacter, shapeWrapped)
	add(KindInteger, shapeSequence)
	add(KindDouble, shapeSequence)
	return m
}()

// SpecializedAccessor returns the specialised accessor for v's current kind
// and storage. ok is false for foreign and view storage, which only the
// generic path serves.
func SpecializedAccessor(v *Vector) (Accessor, bool) {
	sh, ok := shapeOf(v)
	if !ok {
		return nil, false
	}
	a, ok := fastAccessors[fastAccess{v.kind, sh}]
	if !ok {
		return nil, false
	}
	return a, true
}

func shapeOf(v *Vector) (shape, bool) {
	switch v.store.(type) {
	case *intSeq, *doubleSeq:
		return shapeSequence, true
	case wrappedString:
		return shapeWrapped, true
	case *foreignStore, *viewStore:
		return 0, false
	}
	return shapeDense, true
}

func (a *fastAccess) Generic() bool { return false }

// Supports is the guard: v must still have the kind and storage this
// accessor was bound to.
func (a *fastAccess) Supports(v *Vector) bool {
	if v.kind != a.kind {
		return false
	}
	switch a.shape {
	case shapeSequence:
		return v.Storage() == StorageSequence
	case shapeWrapped:
		_, ok := v.store.(wrappedString)
		return ok
	}
	if a.kind == KindCharacter && !NoWrappedStrings() {
		_, ok := v.store.(denseString)
		return ok
	}
	return v.Storage() == StorageDense
}

func (a *fastAccess) Open(v *Vector, mode Mode) (*Session, error) {
	if !a.Supports(v) {
		Fail(PanicUnsupportedAccess, "%s %s accessor opened on %s %s vector", a.shape, a.kind, v.Storage(), v.kind)
	}
	s, err := openSession(v, mode, false)
	if err != nil {
		return nil, err
	}
	// A write session densifies sequences, so bind after opening.
	switch st := v.store.(type) {
	case denseLogical:
		s.lgl = st
	case denseInteger:
		s.ints = st
	case denseDouble:
		s.dbls = st
	case denseComplex:
		s.cplx = st
	case denseString:
		s.strs = st
	case wrappedString:
		s.wrapped = st
	case denseRaw:
		s.raws = st
	case denseList:
		s.elems = st
	case *intSeq:
		s.iseq = st
	case *doubleSeq:
		s.dseq = st
	default:
		Fail(PanicUnreachable, "fast accessor bound to %T", st)
	}
	return s, nil
}
