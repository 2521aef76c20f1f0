package foreign

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/value"
)

// ErrNotConvertible is returned by Normalize for objects it has no adapter
// for.
var ErrNotConvertible = errors.New("foreign object has no vector form")

// Kinded is implemented by sources that know their element kind, which
// spares Normalize a scan of the elements.
type Kinded interface {
	ElemKind() value.Kind
}

// Normalize turns the object behind ref into a runtime value: sequences
// become foreign-backed vectors, string-keyed maps and messages become named
// lists. Elements are not read except to infer the kind of a source that
// does not declare one.
func Normalize(ref *value.ForeignRef) (value.Value, error) {
	return normalize(ref.Obj)
}

func normalize(obj any) (value.Value, error) {
	switch x := obj.(type) {
	case nil:
		return value.Null, nil
	case value.Value:
		return x, nil
	case value.ForeignSource:
		return Vector(x)
	case *structpb.ListValue:
		return Vector(NewStructListSource(x))
	case *structpb.Struct:
		return structList(x)
	case protoreflect.List:
		return Vector(NewRepeatedFieldSource(x))
	case yamlMapping:
		return yamlList(x.node)
	case map[string]any:
		names := make([]string, 0, len(x))
		for k := range x {
			names = append(names, k)
		}
		sort.Strings(names)
		elems := make([]value.Value, len(names))
		for i, k := range names {
			el, err := element(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			elems[i] = el
		}
		return named(elems, names), nil
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		src, err := NewSliceSource(obj)
		if err != nil {
			return nil, err
		}
		return Vector(src)
	}
	return nil, fmt.Errorf("%T: %w", obj, ErrNotConvertible)
}

// Vector wraps src as a foreign-backed vector of its inferred kind.
func Vector(src value.ForeignSource) (*value.Vector, error) {
	k, err := InferKind(src)
	if err != nil {
		return nil, err
	}
	return value.NewForeignVector(k, src), nil
}

// InferKind returns the smallest element kind that holds every element of
// src: logical < integer < double < complex < character, and list as soon
// as one element is not a scalar. An empty or all-null source is logical.
func InferKind(src value.ForeignSource) (value.Kind, error) {
	if k, ok := src.(Kinded); ok {
		return k.ElemKind(), nil
	}
	n, err := src.Size()
	if err != nil {
		return value.KindInvalid, fmt.Errorf("foreign size: %w", err)
	}
	kind := value.KindLogical
	for i := 0; i < n; i++ {
		x, err := src.ReadAt(i)
		if err != nil {
			return value.KindInvalid, fmt.Errorf("foreign read at %d: %w", i, err)
		}
		if src.IsNull(x) {
			continue
		}
		if src.IsBoxed(x) {
			if x, err = src.Unbox(x); err != nil {
				return value.KindInvalid, fmt.Errorf("foreign unbox at %d: %w", i, err)
			}
			if src.IsNull(x) {
				continue
			}
		}
		k := scalarKind(x)
		if k == value.KindList {
			return value.KindList, nil
		}
		if k > kind {
			kind = k
		}
	}
	return kind, nil
}

func scalarKind(x any) value.Kind {
	switch x.(type) {
	case bool:
		return value.KindLogical
	case int, int8, int16, int32, uint8, uint16:
		return value.KindInteger
	case int64, uint, uint32, uint64, float32, float64:
		return value.KindDouble
	case complex64, complex128:
		return value.KindComplex
	case string:
		return value.KindCharacter
	}
	return value.KindList
}

// element converts one nested object to a list element. Scalars become
// length-one vectors; containers are normalised.
func element(x any) (value.Value, error) {
	switch y := x.(type) {
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(y), nil
	case string:
		return value.Strings(y), nil
	case float64:
		return value.Doubles(y), nil
	case int:
		if int(int32(y)) == y {
			return value.Ints(int32(y)), nil
		}
		return value.Doubles(float64(y)), nil
	case int32:
		return value.Ints(y), nil
	case int64:
		return value.Doubles(float64(y)), nil
	}
	v, err := normalize(x)
	if errors.Is(err, ErrNotConvertible) {
		return &value.ForeignRef{Obj: x}, nil
	}
	return v, err
}

func named(elems []value.Value, names []string) *value.Vector {
	l := value.NewList(elems)
	if len(names) > 0 {
		l.SetAttr(config.NamesAttr, value.NewCharacter(names))
	}
	return l
}

func structList(s *structpb.Struct) (*value.Vector, error) {
	fields := s.GetFields()
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	elems := make([]value.Value, len(names))
	for i, k := range names {
		el, err := element(fields[k].AsInterface())
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		elems[i] = el
	}
	return named(elems, names), nil
}

func yamlList(n *yaml.Node) (*value.Vector, error) {
	var names []string
	var elems []value.Value
	src := &YAMLSource{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		names = append(names, n.Content[i].Value)
		x := any(n.Content[i+1])
		if src.IsNull(x) {
			elems = append(elems, value.Null)
			continue
		}
		x, err := src.Unbox(x)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", n.Content[i].Value, err)
		}
		el, err := element(x)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", n.Content[i].Value, err)
		}
		elems = append(elems, el)
	}
	return named(elems, names), nil
}
