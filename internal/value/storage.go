package value

import (
	"github.com/funvibe/vcore/internal/na"
)

// store is the representation behind a Vector. Each concrete store serves
// exactly one element kind; the element readers it implements are what the
// generic access path dispatches through.
type store interface {
	storage() StorageKind
}

type (
	logicalReader interface{ logicalAt(i int) int8 }
	integerReader interface{ integerAt(i int) int32 }
	doubleReader  interface{ doubleAt(i int) float64 }
	complexReader interface{ complexAt(i int) complex128 }
	stringReader  interface{ stringAt(i int) string }
	rawReader     interface{ rawAt(i int) byte }
	elemReader    interface{ elemAt(i int) Value }
)

// Dense stores.
type (
	denseLogical []int8
	denseInteger []int32
	denseDouble  []float64
	denseComplex []complex128
	denseString  []string
	denseRaw     []byte
	denseList    []Value
)

func (denseLogical) storage() StorageKind { return StorageDense }
func (denseInteger) storage() StorageKind { return StorageDense }
func (denseDouble) storage() StorageKind  { return StorageDense }
func (denseComplex) storage() StorageKind { return StorageDense }
func (denseString) storage() StorageKind  { return StorageDense }
func (denseRaw) storage() StorageKind     { return StorageDense }
func (denseList) storage() StorageKind    { return StorageDense }

func (s denseLogical) logicalAt(i int) int8      { return s[i] }
func (s denseInteger) integerAt(i int) int32     { return s[i] }
func (s denseDouble) doubleAt(i int) float64     { return s[i] }
func (s denseComplex) complexAt(i int) complex128 { return s[i] }
func (s denseString) stringAt(i int) string      { return s[i] }
func (s denseRaw) rawAt(i int) byte              { return s[i] }
func (s denseList) elemAt(i int) Value           { return s[i] }

// copyStore returns a dense copy of s holding n elements of kind k. Foreign,
// sequence and view stores are read element by element.
func copyStore(k Kind, s store, n int) store {
	switch d := s.(type) {
	case denseLogical:
		return denseLogical(append([]int8(nil), d[:n]...))
	case denseInteger:
		return denseInteger(append([]int32(nil), d[:n]...))
	case denseDouble:
		return denseDouble(append([]float64(nil), d[:n]...))
	case denseComplex:
		return denseComplex(append([]complex128(nil), d[:n]...))
	case denseString:
		return denseString(append([]string(nil), d[:n]...))
	case wrappedString:
		return wrappedString(append([]*CharSXP(nil), d[:n]...))
	case denseRaw:
		return denseRaw(append([]byte(nil), d[:n]...))
	case denseList:
		out := denseList(append([]Value(nil), d[:n]...))
		for _, e := range out {
			MarkShared(e)
		}
		return out
	}
	return materializeStore(k, s, n)
}

// materializeStore reads every element of s into a fresh dense store.
func materializeStore(k Kind, s store, n int) store {
	switch k {
	case KindLogical:
		r := s.(logicalReader)
		out := make(denseLogical, n)
		for i := range out {
			out[i] = r.logicalAt(i)
		}
		return out
	case KindInteger:
		r := s.(integerReader)
		out := make(denseInteger, n)
		for i := range out {
			out[i] = r.integerAt(i)
		}
		return out
	case KindDouble:
		r := s.(doubleReader)
		out := make(denseDouble, n)
		for i := range out {
			out[i] = r.doubleAt(i)
		}
		return out
	case KindComplex:
		r := s.(complexReader)
		out := make(denseComplex, n)
		for i := range out {
			out[i] = r.complexAt(i)
		}
		return out
	case KindCharacter:
		r := s.(stringReader)
		out := make(denseString, n)
		for i := range out {
			out[i] = r.stringAt(i)
		}
		return out
	case KindRaw:
		r := s.(rawReader)
		out := make(denseRaw, n)
		for i := range out {
			out[i] = r.rawAt(i)
		}
		return out
	case KindList, KindExpression:
		r := s.(elemReader)
		out := make(denseList, n)
		for i := range out {
			out[i] = r.elemAt(i)
		}
		return out
	}
	Fail(PanicUnreachable, "materialize of %s storage", k)
	return nil
}

// newDenseStore allocates a zero-filled dense store. List elements start as
// Null; with fillNA every atomic element starts as the kind's NA.
func newDenseStore(k Kind, n int, fillNA bool) store {
	switch k {
	case KindLogical:
		s := make(denseLogical, n)
		if fillNA {
			for i := range s {
				s[i] = na.Logical
			}
		}
		return s
	case KindInteger:
		s := make(denseInteger, n)
		if fillNA {
			for i := range s {
				s[i] = na.Integer
			}
		}
		return s
	case KindDouble:
		s := make(denseDouble, n)
		if fillNA {
			for i := range s {
				s[i] = na.Double
			}
		}
		return s
	case KindComplex:
		s := make(denseComplex, n)
		if fillNA {
			for i := range s {
				s[i] = na.Complex
			}
		}
		return s
	case KindCharacter:
		s := make(denseString, n)
		if fillNA {
			for i := range s {
				s[i] = na.String
			}
		}
		return s
	case KindRaw:
		return make(denseRaw, n)
	case KindList, KindExpression:
		s := make(denseList, n)
		for i := range s {
			s[i] = Null
		}
		return s
	}
	Fail(PanicUnreachable, "dense storage for %s", k)
	return nil
}

// scanComplete reports whether no element of s is NA.
func scanComplete(k Kind, s store, n int) bool {
	switch d := s.(type) {
	case denseLogical:
		for _, x := range d {
			if na.IsLogical(x) {
				return false
			}
		}
		return true
	case denseInteger:
		for _, x := range d {
			if na.IsInteger(x) {
				return false
			}
		}
		return true
	case denseDouble:
		for _, x := range d {
			if na.IsDouble(x) {
				return false
			}
		}
		return true
	case denseComplex:
		for _, x := range d {
			if na.IsComplex(x) {
				return false
			}
		}
		return true
	case denseString:
		for _, x := range d {
			if na.IsString(x) {
				return false
			}
		}
		return true
	case wrappedString:
		for _, x := range d {
			if x == NACharSXP {
				return false
			}
		}
		return true
	case denseRaw, denseList, *intSeq, *doubleSeq:
		return true
	}
	return scanElements(k, s, n)
}

func scanElements(k Kind, s store, n int) bool {
	for i := 0; i < n; i++ {
		switch k {
		case KindLogical:
			if na.IsLogical(s.(logicalReader).logicalAt(i)) {
				return false
			}
		case KindInteger:
			if na.IsInteger(s.(integerReader).integerAt(i)) {
				return false
			}
		case KindDouble:
			if na.IsDouble(s.(doubleReader).doubleAt(i)) {
				return false
			}
		case KindComplex:
			if na.IsComplex(s.(complexReader).complexAt(i)) {
				return false
			}
		case KindCharacter:
			if na.IsString(s.(stringReader).stringAt(i)) {
				return false
			}
		default:
			return true
		}
	}
	return true
}
