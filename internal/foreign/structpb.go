package foreign

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// StructListSource exposes a google.protobuf.ListValue. Every element is a
// structpb.Value box; NullValue is null.
type StructListSource struct {
	list *structpb.ListValue
}

// NewStructListSource adapts l.
func NewStructListSource(l *structpb.ListValue) *StructListSource {
	return &StructListSource{list: l}
}

func (s *StructListSource) Size() (int, error) {
	return len(s.list.GetValues()), nil
}

func (s *StructListSource) ReadAt(i int) (any, error) {
	vals := s.list.GetValues()
	if i < 0 || i >= len(vals) {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, len(vals))
	}
	return vals[i], nil
}

func (s *StructListSource) IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *structpb.Value:
		if x == nil {
			return true
		}
		_, null := x.GetKind().(*structpb.Value_NullValue)
		return null || x.GetKind() == nil
	}
	return false
}

func (s *StructListSource) IsBoxed(v any) bool {
	_, ok := v.(*structpb.Value)
	return ok
}

// Unbox opens a structpb.Value. Nested lists and structs come back as their
// message, which the adapter exposes as a foreign reference.
func (s *StructListSource) Unbox(v any) (any, error) {
	x, ok := v.(*structpb.Value)
	if !ok {
		return nil, fmt.Errorf("%T is not a structpb.Value", v)
	}
	switch k := x.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue, nil
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_BoolValue:
		return k.BoolValue, nil
	case *structpb.Value_ListValue:
		return k.ListValue, nil
	case *structpb.Value_StructValue:
		return k.StructValue, nil
	case *structpb.Value_NullValue, nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown structpb kind %T", x.GetKind())
}

// RepeatedFieldSource exposes a repeated protobuf field. Well-known wrapper
// messages such as google.protobuf.Int64Value are boxes; no element is null.
type RepeatedFieldSource struct {
	list protoreflect.List
}

// NewRepeatedFieldSource adapts l.
func NewRepeatedFieldSource(l protoreflect.List) *RepeatedFieldSource {
	return &RepeatedFieldSource{list: l}
}

// RepeatedField returns the named repeated field of m as a source.
func RepeatedField(m protoreflect.Message, name string) (*RepeatedFieldSource, error) {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, fmt.Errorf("message %s has no field %q", m.Descriptor().FullName(), name)
	}
	if !fd.IsList() {
		return nil, fmt.Errorf("field %s is not repeated", fd.FullName())
	}
	return NewRepeatedFieldSource(m.Get(fd).List()), nil
}

func (s *RepeatedFieldSource) Size() (int, error) {
	return s.list.Len(), nil
}

func (s *RepeatedFieldSource) ReadAt(i int) (any, error) {
	if i < 0 || i >= s.list.Len() {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, s.list.Len())
	}
	switch x := s.list.Get(i).Interface().(type) {
	case protoreflect.EnumNumber:
		return int32(x), nil
	case protoreflect.Message:
		return x.Interface(), nil
	default:
		return x, nil
	}
}

func (s *RepeatedFieldSource) IsNull(v any) bool { return v == nil }

func (s *RepeatedFieldSource) IsBoxed(v any) bool {
	_, ok := unwrapWrapper(v)
	return ok
}

func (s *RepeatedFieldSource) Unbox(v any) (any, error) {
	x, ok := unwrapWrapper(v)
	if !ok {
		return nil, fmt.Errorf("%T is not a wrapper message", v)
	}
	return x, nil
}

// unwrapWrapper opens the google.protobuf wrapper messages.
func unwrapWrapper(v any) (any, bool) {
	switch w := v.(type) {
	case *wrapperspb.BoolValue:
		return w.GetValue(), true
	case *wrapperspb.Int32Value:
		return w.GetValue(), true
	case *wrapperspb.Int64Value:
		return w.GetValue(), true
	case *wrapperspb.UInt32Value:
		return w.GetValue(), true
	case *wrapperspb.UInt64Value:
		return w.GetValue(), true
	case *wrapperspb.FloatValue:
		return w.GetValue(), true
	case *wrapperspb.DoubleValue:
		return w.GetValue(), true
	case *wrapperspb.StringValue:
		return w.GetValue(), true
	case *wrapperspb.BytesValue:
		return string(w.GetValue()), true
	}
	return nil, false
}
