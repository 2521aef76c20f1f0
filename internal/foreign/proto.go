package foreign

import (
	"fmt"
	"sort"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/vcore/internal/value"
)

// ProtoSchema holds message descriptors parsed from .proto source text.
type ProtoSchema struct {
	files []*desc.FileDescriptor
}

// ParseProto parses the named files. Contents are looked up in sources first
// and then on disk relative to importPaths.
func ParseProto(sources map[string]string, importPaths []string, names ...string) (*ProtoSchema, error) {
	parser := protoparse.Parser{ImportPaths: importPaths}
	if len(sources) > 0 {
		parser.Accessor = protoparse.FileContentsFromMap(sources)
	}
	if len(names) == 0 {
		for name := range sources {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	fds, err := parser.ParseFiles(names...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proto: %w", err)
	}
	return &ProtoSchema{files: fds}, nil
}

// Message finds a message descriptor by its fully qualified name.
func (p *ProtoSchema) Message(name string) (*desc.MessageDescriptor, error) {
	for _, fd := range p.files {
		if md := fd.FindMessage(name); md != nil {
			return md, nil
		}
	}
	return nil, fmt.Errorf("message %s not found", name)
}

// Decode unmarshals wire-format bytes into a dynamic message of type name.
func (p *ProtoSchema) Decode(name string, data []byte) (*dynamic.Message, error) {
	md, err := p.Message(name)
	if err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(md)
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	return msg, nil
}

// DecodeJSON is Decode for the protobuf JSON mapping.
func (p *ProtoSchema) DecodeJSON(name string, data []byte) (*dynamic.Message, error) {
	md, err := p.Message(name)
	if err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(md)
	if err := msg.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	return msg, nil
}

// DynamicFieldSource exposes a repeated field of a dynamic message. Reads go
// through the message, so later changes to the field are observed.
type DynamicFieldSource struct {
	msg *dynamic.Message
	fd  *desc.FieldDescriptor
}

// LoadProtoField returns the repeated field name of msg as a foreign-backed
// vector whose kind follows the field's declared type.
func LoadProtoField(msg *dynamic.Message, name string) (*value.Vector, error) {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return nil, fmt.Errorf("message %s has no field %q", msg.GetMessageDescriptor().GetFullyQualifiedName(), name)
	}
	if !fd.IsRepeated() || fd.IsMap() {
		return nil, fmt.Errorf("field %s is not a repeated field", fd.GetFullyQualifiedName())
	}
	return value.NewForeignVector(protoKind(fd), &DynamicFieldSource{msg: msg, fd: fd}), nil
}

func (s *DynamicFieldSource) Size() (int, error) {
	return s.msg.FieldLength(s.fd), nil
}

func (s *DynamicFieldSource) ReadAt(i int) (any, error) {
	return s.msg.TryGetRepeatedField(s.fd, i)
}

func (s *DynamicFieldSource) IsNull(v any) bool { return v == nil }

// IsBoxed reports bytes and wrapper messages, which dynamic decoding yields
// as dynamic messages with a single value field.
func (s *DynamicFieldSource) IsBoxed(v any) bool {
	switch x := v.(type) {
	case []byte:
		return true
	case *dynamic.Message:
		return isWrapper(x.GetMessageDescriptor())
	}
	_, ok := unwrapWrapper(v)
	return ok
}

func (s *DynamicFieldSource) Unbox(v any) (any, error) {
	switch x := v.(type) {
	case []byte:
		return string(x), nil
	case *dynamic.Message:
		if isWrapper(x.GetMessageDescriptor()) {
			inner := x.GetFieldByNumber(1)
			if b, ok := inner.([]byte); ok {
				return string(b), nil
			}
			return inner, nil
		}
	}
	if x, ok := unwrapWrapper(v); ok {
		return x, nil
	}
	return nil, fmt.Errorf("%T is not a box", v)
}

func isWrapper(md *desc.MessageDescriptor) bool {
	switch md.GetFullyQualifiedName() {
	case "google.protobuf.BoolValue", "google.protobuf.Int32Value", "google.protobuf.Int64Value",
		"google.protobuf.UInt32Value", "google.protobuf.UInt64Value", "google.protobuf.FloatValue",
		"google.protobuf.DoubleValue", "google.protobuf.StringValue", "google.protobuf.BytesValue":
		return true
	}
	return false
}

// protoKind maps a field's scalar type to an element kind. Wrapper messages
// take the kind of the value they box; other messages give a list.
func protoKind(fd *desc.FieldDescriptor) value.Kind {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return value.KindLogical
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32, descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return value.KindInteger
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64, descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64, descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return value.KindDouble
	case descriptorpb.FieldDescriptorProto_TYPE_STRING, descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return value.KindCharacter
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		if md := fd.GetMessageType(); md != nil && isWrapper(md) {
			return protoKind(md.FindFieldByNumber(1))
		}
	}
	return value.KindList
}
