package value

// Whole-vector readers. Dense storage is returned without copying and must
// not be modified; other storage is read into a fresh slice. Each reader
// requires v to be of the matching kind.

func (v *Vector) Logicals() []int8 {
	v.want(KindLogical)
	if d, ok := v.store.(denseLogical); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseLogical)
}

func (v *Vector) Ints() []int32 {
	v.want(KindInteger)
	if d, ok := v.store.(denseInteger); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseInteger)
}

func (v *Vector) Doubles() []float64 {
	v.want(KindDouble)
	if d, ok := v.store.(denseDouble); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseDouble)
}

func (v *Vector) Complexes() []complex128 {
	v.want(KindComplex)
	if d, ok := v.store.(denseComplex); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseComplex)
}

func (v *Vector) Strings() []string {
	v.want(KindCharacter)
	if d, ok := v.store.(denseString); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseString)
}

func (v *Vector) Raws() []byte {
	v.want(KindRaw)
	if d, ok := v.store.(denseRaw); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseRaw)
}

// Elems returns the elements of a list or expression vector.
func (v *Vector) Elems() []Value {
	if !v.kind.IsList() {
		Fail(PanicUnsupportedAccess, "Elems on %s vector", v.kind)
	}
	if d, ok := v.store.(denseList); ok {
		return d
	}
	return materializeStore(v.kind, v.store, v.Len()).(denseList)
}

func (v *Vector) want(k Kind) {
	if v.kind != k {
		Fail(PanicUnsupportedAccess, "%s read of %s vector", k, v.kind)
	}
}

// Single-element readers.

func (v *Vector) LogicalAt(i int) int8 {
	v.want(KindLogical)
	return v.store.(logicalReader).logicalAt(i)
}

func (v *Vector) IntAt(i int) int32 {
	v.want(KindInteger)
	return v.store.(integerReader).integerAt(i)
}

func (v *Vector) DoubleAt(i int) float64 {
	v.want(KindDouble)
	return v.store.(doubleReader).doubleAt(i)
}

func (v *Vector) ComplexAt(i int) complex128 {
	v.want(KindComplex)
	return v.store.(complexReader).complexAt(i)
}

func (v *Vector) StringAt(i int) string {
	v.want(KindCharacter)
	return v.store.(stringReader).stringAt(i)
}

func (v *Vector) RawAt(i int) byte {
	v.want(KindRaw)
	return v.store.(rawReader).rawAt(i)
}

// ElemAt returns element i as a Value: the element itself for lists, a
// length-one vector of the same kind otherwise.
func (v *Vector) ElemAt(i int) Value {
	switch v.kind {
	case KindList, KindExpression:
		return v.store.(elemReader).elemAt(i)
	case KindLogical:
		return Logicals(v.LogicalAt(i))
	case KindInteger:
		return Ints(v.IntAt(i))
	case KindDouble:
		return Doubles(v.DoubleAt(i))
	case KindComplex:
		return Complexes(v.ComplexAt(i))
	case KindCharacter:
		return Strings(v.StringAt(i))
	case KindRaw:
		return Raws(v.RawAt(i))
	}
	Fail(PanicUnreachable, "ElemAt on %s vector", v.kind)
	return nil
}
