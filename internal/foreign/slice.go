// Package foreign provides ForeignSource implementations over values owned
// outside the runtime: Go slices, protobuf lists, dynamic protobuf messages,
// SQLite columns and YAML sequences.
package foreign

import (
	"fmt"
	"reflect"
)

// SliceSource exposes a Go slice or array. A non-nil pointer element is a
// box around its target; a nil pointer or nil interface is null. When built
// from a pointer to a slice, size and elements are read through the pointer
// on every call.
type SliceSource struct {
	rv reflect.Value
}

// NewSliceSource adapts s, which must be a slice, an array, or a pointer to
// either.
func NewSliceSource(s any) (*SliceSource, error) {
	rv := reflect.ValueOf(s)
	t := rv.Type()
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil %s", t)
		}
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("%s is not a slice or array", rv.Type())
	}
	return &SliceSource{rv: rv}, nil
}

func (s *SliceSource) slice() reflect.Value {
	return reflect.Indirect(s.rv)
}

func (s *SliceSource) Size() (int, error) {
	return s.slice().Len(), nil
}

func (s *SliceSource) ReadAt(i int) (any, error) {
	sl := s.slice()
	if i < 0 || i >= sl.Len() {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, sl.Len())
	}
	return sl.Index(i).Interface(), nil
}

func (s *SliceSource) IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func (s *SliceSource) IsBoxed(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && !rv.IsNil()
}

func (s *SliceSource) Unbox(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("%T is not a box", v)
	}
	return rv.Elem().Interface(), nil
}
