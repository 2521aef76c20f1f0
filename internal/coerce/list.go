package coerce

import (
	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
)

// listElements converts each element of a generic vector to one element of
// kind target. Elements that are not a single atomic value become NA.
func (e *Engine) listElements(v *value.Vector, target value.Kind) (*value.Vector, error) {
	elems := v.Elems()
	r := value.NewVector(target, len(elems))
	out, err := value.Access(r, value.ReadWrite)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	var warn value.Warning
	for _, el := range elems {
		out.Next()
		x, err := e.element(el, target)
		if err != nil {
			return nil, err
		}
		if x == nil {
			setNA(out, target)
			continue
		}
		in, err := e.sites[target].Open(x, value.Read)
		if err != nil {
			return nil, err
		}
		in.Next()
		copyElement(out, in, target)
		warn |= in.Warnings()
		in.Close()
	}
	e.report(warn)
	return r, nil
}

// element resolves one list element to a length-one atomic vector, or nil
// when the element stands for NA.
func (e *Engine) element(el value.Value, target value.Kind) (*value.Vector, error) {
	switch x := el.(type) {
	case *value.Vector:
		if !x.Type().IsAtomic() || x.Len() != 1 {
			return nil, nil
		}
		return x, nil
	case *value.NullValue:
		return nil, nil
	case *value.InteropScalar:
		return x.Unwrap(), nil
	case *value.Symbol:
		if target == value.KindCharacter {
			return value.Strings(x.Name()), nil
		}
		return nil, nil
	}
	return nil, &value.CoercionError{From: el.Type(), To: target, Detail: "list element of type '" + el.Type().String() + "'"}
}

func setNA(out *value.Session, target value.Kind) {
	switch target {
	case value.KindLogical:
		out.SetLogical(na.Logical)
	case value.KindInteger:
		out.SetInt(na.Integer)
	case value.KindDouble:
		out.SetDouble(na.Double)
	case value.KindComplex:
		out.SetComplex(na.Complex)
	case value.KindCharacter:
		out.SetString(na.String)
	case value.KindRaw:
		out.SetRaw(0)
	}
}

func copyElement(out, in *value.Session, target value.Kind) {
	switch target {
	case value.KindLogical:
		out.SetLogical(in.Logical())
	case value.KindInteger:
		out.SetInt(in.Int())
	case value.KindDouble:
		out.SetDouble(in.Double())
	case value.KindComplex:
		out.SetComplex(in.Complex())
	case value.KindCharacter:
		out.SetString(in.Str())
	case value.KindRaw:
		out.SetRaw(in.Raw())
	case value.KindList, value.KindExpression:
		out.SetElem(in.Elem())
	}
}
