package foreign

import (
	"context"
	"errors"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
)

func TestSliceSourceNullsAndBoxes(t *testing.T) {
	x := 2.5
	src, err := NewSliceSource([]any{10, nil, &x, (*float64)(nil)})
	qt.Assert(t, qt.IsNil(err))
	v := value.NewForeignVector(value.KindDouble, src)

	d := v.Doubles()
	qt.Assert(t, qt.Equals(d[0], 10.0))
	qt.Assert(t, qt.IsTrue(na.IsDouble(d[1])))
	qt.Assert(t, qt.Equals(d[2], 2.5))
	qt.Assert(t, qt.IsTrue(na.IsDouble(d[3])))
}

func TestSliceSourceDoubleBoxIsFatal(t *testing.T) {
	x := 1.5
	px := &x
	src, err := NewSliceSource([]any{px, &px})
	qt.Assert(t, qt.IsNil(err))
	v := value.NewForeignVector(value.KindDouble, src)

	qt.Assert(t, qt.Equals(v.DoubleAt(0), 1.5))
	qt.Assert(t, qt.PanicMatches(func() { v.DoubleAt(1) }, `internal error VC1004: .*boxed twice`))
}

func TestSliceSourceFollowsPointer(t *testing.T) {
	s := []int32{1, 2}
	src, err := NewSliceSource(&s)
	qt.Assert(t, qt.IsNil(err))
	v := value.NewForeignVector(value.KindInteger, src)
	qt.Assert(t, qt.Equals(v.Len(), 2))

	s = append(s, 3)
	s[0] = 7
	qt.Assert(t, qt.Equals(v.Len(), 3))
	qt.Assert(t, qt.DeepEquals(v.Ints(), []int32{7, 2, 3}))
}

func TestSliceSourceRejectsScalars(t *testing.T) {
	_, err := NewSliceSource(42)
	qt.Assert(t, qt.ErrorMatches(err, `int is not a slice or array`))
}

func TestStructListSource(t *testing.T) {
	l, err := structpb.NewList([]any{10, nil, 30})
	qt.Assert(t, qt.IsNil(err))
	v, err := Vector(NewStructListSource(l))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindDouble))

	d := v.Doubles()
	qt.Assert(t, qt.Equals(d[0], 10.0))
	qt.Assert(t, qt.IsTrue(na.IsDouble(d[1])))
	qt.Assert(t, qt.Equals(d[2], 30.0))
	qt.Assert(t, qt.IsFalse(v.IsComplete()))

	l.Values = append(l.Values, structpb.NewStringValue("x"))
	qt.Assert(t, qt.Equals(v.Len(), 4))
	qt.Assert(t, qt.IsTrue(na.IsDouble(v.DoubleAt(3))))
}

func TestStructListNestedValuesAreForeign(t *testing.T) {
	l, err := structpb.NewList([]any{[]any{1, 2}, map[string]any{"b": "x", "a": true}})
	qt.Assert(t, qt.IsNil(err))
	v, err := Vector(NewStructListSource(l))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindList))

	ref, ok := v.ElemAt(0).(*value.ForeignRef)
	qt.Assert(t, qt.IsTrue(ok))
	inner, err := Normalize(ref)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(inner.(*value.Vector).Doubles(), []float64{1, 2}))

	ref, ok = v.ElemAt(1).(*value.ForeignRef)
	qt.Assert(t, qt.IsTrue(ok))
	rec, err := Normalize(ref)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(rec.(*value.Vector).Names().Strings(), []string{"a", "b"}))
}

func TestRepeatedFieldSource(t *testing.T) {
	fdp := &descriptorpb.FileDescriptorProto{PublicDependency: []int32{4, 5, 6}}
	src, err := RepeatedField(fdp.ProtoReflect(), "public_dependency")
	qt.Assert(t, qt.IsNil(err))
	v, err := Vector(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindInteger))
	qt.Assert(t, qt.DeepEquals(v.Ints(), []int32{4, 5, 6}))

	_, err = RepeatedField(durationpb.New(0).ProtoReflect(), "seconds")
	qt.Assert(t, qt.ErrorMatches(err, `field google.protobuf.Duration.seconds is not repeated`))
	_, err = RepeatedField(fdp.ProtoReflect(), "nope")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestWrapperMessagesAreBoxes(t *testing.T) {
	src := NewRepeatedFieldSource(nil)
	qt.Assert(t, qt.IsTrue(src.IsBoxed(wrapperspb.Int64(5))))
	x, err := src.Unbox(wrapperspb.Int64(5))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(x, any(int64(5))))
	qt.Assert(t, qt.IsFalse(src.IsBoxed(int64(5))))
}

const sampleProto = `
syntax = "proto3";
package sample;

message Series {
  string name = 1;
  repeated double points = 2;
  repeated string labels = 3;
}
`

func TestLoadProtoField(t *testing.T) {
	schema, err := ParseProto(map[string]string{"sample.proto": sampleProto}, nil)
	qt.Assert(t, qt.IsNil(err))

	msg, err := schema.DecodeJSON("sample.Series", []byte(`{"name": "s", "points": [1.5, 2.5], "labels": ["a", "b"]}`))
	qt.Assert(t, qt.IsNil(err))

	v, err := LoadProtoField(msg, "points")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindDouble))
	qt.Assert(t, qt.DeepEquals(v.Doubles(), []float64{1.5, 2.5}))

	qt.Assert(t, qt.IsNil(msg.TryAddRepeatedFieldByName("points", 4.0)))
	qt.Assert(t, qt.Equals(v.Len(), 3))

	labels, err := LoadProtoField(msg, "labels")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(labels.Strings(), []string{"a", "b"}))

	_, err = LoadProtoField(msg, "name")
	qt.Assert(t, qt.ErrorMatches(err, `field sample.Series.name is not a repeated field`))

	data, err := msg.Marshal()
	qt.Assert(t, qt.IsNil(err))
	again, err := schema.Decode("sample.Series", data)
	qt.Assert(t, qt.IsNil(err))
	pts, err := LoadProtoField(again, "points")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(pts.Doubles(), []float64{1.5, 2.5, 4}))

	_, err = schema.Message("sample.Missing")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestSQLSourceReadsLazily(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	qt.Assert(t, qt.IsNil(err))
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE obs (x REAL, tag BLOB)`)
	qt.Assert(t, qt.IsNil(err))
	_, err = db.ExecContext(ctx, `INSERT INTO obs VALUES (10, x'6869'), (NULL, NULL), (30, x'6f6b')`)
	qt.Assert(t, qt.IsNil(err))

	v, err := SQLColumn(ctx, db, "obs", "x", value.KindDouble)
	qt.Assert(t, qt.IsNil(err))
	d := v.Doubles()
	qt.Assert(t, qt.Equals(len(d), 3))
	qt.Assert(t, qt.Equals(d[0], 10.0))
	qt.Assert(t, qt.IsTrue(na.IsDouble(d[1])))
	qt.Assert(t, qt.Equals(d[2], 30.0))

	tags, err := SQLColumn(ctx, db, "obs", "tag", value.KindCharacter)
	qt.Assert(t, qt.IsNil(err))
	if diff := cmp.Diff([]string{"hi", na.String, "ok"}, tags.Strings()); diff != "" {
		t.Errorf("blob column mismatch (-want +got):\n%s", diff)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO obs VALUES (40, NULL)`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Len(), 4))
	qt.Assert(t, qt.Equals(v.DoubleAt(3), 40.0))
}

func TestSQLSourceMissingTable(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	qt.Assert(t, qt.IsNil(err))
	defer db.Close()
	_, err = NewSQLSource(context.Background(), db, "nope", "x")
	qt.Assert(t, qt.ErrorMatches(err, `counting rows: .*`))
}

func TestYAMLSource(t *testing.T) {
	src, err := ParseYAML([]byte("[1, ~, 2.5, true]"))
	qt.Assert(t, qt.IsNil(err))
	v, err := Vector(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindDouble))
	d := v.Doubles()
	qt.Assert(t, qt.Equals(d[0], 1.0))
	qt.Assert(t, qt.IsTrue(na.IsDouble(d[1])))
	qt.Assert(t, qt.Equals(d[2], 2.5))
	qt.Assert(t, qt.Equals(d[3], 1.0))

	ints, err := ParseYAML([]byte("- 1\n- 0x10\n"))
	qt.Assert(t, qt.IsNil(err))
	k, err := InferKind(ints)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(k, value.KindInteger))

	_, err = ParseYAML([]byte("a: 1\n"))
	qt.Assert(t, qt.ErrorMatches(err, `line 1: yaml node is not a sequence`))
}

func TestYAMLNestedNodes(t *testing.T) {
	src, err := ParseYAML([]byte("- [1, 2]\n- {a: 1, b: x}\n"))
	qt.Assert(t, qt.IsNil(err))
	v, err := Vector(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindList))

	seq, err := Normalize(v.ElemAt(0).(*value.ForeignRef))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(seq.(*value.Vector).Ints(), []int32{1, 2}))

	m, err := Normalize(v.ElemAt(1).(*value.ForeignRef))
	qt.Assert(t, qt.IsNil(err))
	rec := m.(*value.Vector)
	qt.Assert(t, qt.DeepEquals(rec.Names().Strings(), []string{"a", "b"}))
	qt.Assert(t, qt.DeepEquals(rec.ElemAt(0).(*value.Vector).Ints(), []int32{1}))
	qt.Assert(t, qt.DeepEquals(rec.ElemAt(1).(*value.Vector).Strings(), []string{"x"}))
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name  string
		items any
		want  value.Kind
	}{
		{"empty", []any{}, value.KindLogical},
		{"all null", []any{nil, nil}, value.KindLogical},
		{"bools", []bool{true, false}, value.KindLogical},
		{"ints", []any{1, nil, int16(2)}, value.KindInteger},
		{"int64 widens", []int64{1, 2}, value.KindDouble},
		{"mixed numbers", []any{1, 2.5}, value.KindDouble},
		{"complex", []any{1, 2i}, value.KindComplex},
		{"strings win", []any{1, "a", true}, value.KindCharacter},
		{"raw bytes are integers", []byte{1, 2}, value.KindInteger},
		{"structs make a list", []any{1, struct{}{}}, value.KindList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSliceSource(tt.items)
			qt.Assert(t, qt.IsNil(err))
			got, err := InferKind(src)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(got, tt.want))
		})
	}
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(&value.ForeignRef{Obj: map[string]any{"z": 1, "a": []any{"p", "q"}}})
	qt.Assert(t, qt.IsNil(err))
	rec := v.(*value.Vector)
	qt.Assert(t, qt.DeepEquals(rec.Names().Strings(), []string{"a", "z"}))
	qt.Assert(t, qt.DeepEquals(rec.ElemAt(0).(*value.Vector).Strings(), []string{"p", "q"}))
	qt.Assert(t, qt.DeepEquals(rec.ElemAt(1).(*value.Vector).Ints(), []int32{1}))

	s, err := structpb.NewStruct(map[string]any{"n": 2})
	qt.Assert(t, qt.IsNil(err))
	v, err = Normalize(&value.ForeignRef{Obj: s})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(v.(*value.Vector).ElemAt(0).(*value.Vector).Doubles(), []float64{2}))

	_, err = Normalize(&value.ForeignRef{Obj: 42})
	qt.Assert(t, qt.IsTrue(errors.Is(err, ErrNotConvertible)))
}
