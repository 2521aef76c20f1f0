package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/identical"
	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
)

func roundTrip(t *testing.T, v value.Value) value.Value {
	t.Helper()
	data, err := Marshal(v)
	qt.Assert(t, qt.IsNil(err))
	out, err := Unmarshal(data)
	qt.Assert(t, qt.IsNil(err))
	return out
}

// bitwise compares doubles by bit pattern and attributes in order.
var bitwise = identical.Options{}

func TestRoundTrip(t *testing.T) {
	named := value.Doubles(1.5, na.Double, math.Inf(-1))
	named.SetAttr(config.NamesAttr, value.Strings("a", na.String, "c"))

	matrix := value.Ints(1, 2, 3, 4)
	matrix.SetAttr(config.DimAttr, value.Ints(2, 2))

	tests := []struct {
		name string
		v    value.Value
	}{
		{"null", value.Null},
		{"logical", value.Logicals(1, 0, na.Logical)},
		{"integer", value.Ints(1, na.Integer, -7)},
		{"named double", named},
		{"matrix", matrix},
		{"nan payload", value.Doubles(math.Float64frombits(0x7FF8000000000123))},
		{"complex", value.Complexes(complex(1, -2), na.Complex)},
		{"character", value.Strings("", "x", na.String)},
		{"raw", value.Raws(0, 255)},
		{"empty", value.Doubles()},
		{"list", value.ListOf(value.Ints(1), value.Null, value.ListOf(value.Strings("deep")))},
		{"expression", value.ExpressionOf(value.Intern("x"), value.Doubles(2))},
		{"symbol", value.Intern("alpha")},
		{"pairlist", value.NewPairList([]value.Value{value.Ints(1), value.Strings("b")}, []string{"a", "b"})},
		{"call", value.Call(value.Intern("f"), []value.Value{value.Intern("x"), value.Doubles(1)}, []string{"", "y"})},
		{"builtin", value.NewBuiltin(value.RegisterBuiltin("length", 1))},
		{"s4", value.NewS4Object("Point")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := roundTrip(t, tt.v)
			qt.Assert(t, qt.Equals(out.Type(), tt.v.Type()))
			if !identical.Identical(tt.v, out, bitwise) {
				t.Errorf("round trip changed %s into %s", tt.v.Inspect(), out.Inspect())
			}
		})
	}
}

func TestSequencesStayCompact(t *testing.T) {
	out := roundTrip(t, value.Colon(5, 1)).(*value.Vector)
	qt.Assert(t, qt.Equals(out.Storage(), value.StorageSequence))
	qt.Assert(t, qt.DeepEquals(out.Ints(), []int32{5, 4, 3, 2, 1}))

	ds, err := value.NewDoubleSequence(0.5, 0.25, 3)
	qt.Assert(t, qt.IsNil(err))
	out = roundTrip(t, ds).(*value.Vector)
	qt.Assert(t, qt.Equals(out.Storage(), value.StorageSequence))
	qt.Assert(t, qt.DeepEquals(out.Doubles(), []float64{0.5, 0.75, 1}))
}

func TestForeignVectorIsReadDensely(t *testing.T) {
	v := value.NewForeignVector(value.KindInteger, &items{xs: []any{int32(4), nil}})
	out := roundTrip(t, v).(*value.Vector)
	qt.Assert(t, qt.Equals(out.Storage(), value.StorageDense))
	qt.Assert(t, qt.DeepEquals(out.Ints(), []int32{4, na.Integer}))
}

type items struct{ xs []any }

func (s *items) Size() (int, error)        { return len(s.xs), nil }
func (s *items) ReadAt(i int) (any, error) { return s.xs[i], nil }
func (s *items) IsNull(v any) bool         { return v == nil }
func (s *items) IsBoxed(any) bool          { return false }
func (s *items) Unbox(v any) (any, error)  { return v, nil }

func TestProcessBoundValuesAreRejected(t *testing.T) {
	env := value.NewEnvironment()
	tests := []struct {
		name string
		v    value.Value
	}{
		{"environment", env},
		{"closure", value.NewClosure(value.Null, value.Null, env)},
		{"foreign", &value.ForeignRef{Obj: struct{}{}}},
		{"nested", value.ListOf(value.Ints(1), env)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.v)
			qt.Assert(t, qt.ErrorIs(err, value.ErrUnsupported))
		})
	}

	v := value.Ints(1)
	v.SetAttr("env", env)
	_, err := Marshal(v)
	qt.Assert(t, qt.ErrorMatches(err, `attribute "env": encode on environment value: .*`))
}

func TestInnerCellAttributesAreRejected(t *testing.T) {
	p := value.NewPairList([]value.Value{value.Ints(1), value.Ints(2)}, nil).(*value.PairList)
	p.Next().SetAttr("k", value.Ints(1))
	_, err := Marshal(p)
	var ue *value.UnsupportedError
	qt.Assert(t, qt.IsTrue(errors.As(err, &ue)))
	qt.Assert(t, qt.Equals(ue.Kind, value.KindPairList))
}

func TestSchemaVersionIsChecked(t *testing.T) {
	var buf bytes.Buffer
	err := msgpack.NewEncoder(&buf).Encode(&snapshot{Schema: SchemaVersion + 1, Root: &node{}})
	qt.Assert(t, qt.IsNil(err))
	_, err = Decode(&buf)
	qt.Assert(t, qt.ErrorIs(err, ErrSchema))
}

func TestMalformedSnapshots(t *testing.T) {
	tests := []struct {
		name string
		root *node
		want string
	}{
		{"no root", nil, "snapshot has no root value"},
		{"closure kind", &node{Kind: uint8(value.KindClosure)}, "snapshot holds a value of kind closure"},
		{"list length", &node{Kind: uint8(value.KindList), Len: 2}, "list vector has 0 elements, header says 2"},
		{"short payload", &node{Kind: uint8(value.KindInteger), Len: 3, Ints: []int32{7, 8}}, "integer vector has 2 elements, header says 3"},
		{"missing payload", &node{Kind: uint8(value.KindDouble), Len: 1 << 40}, "double vector has 0 elements, header says 1099511627776"},
		{"long payload", &node{Kind: uint8(value.KindRaw), Len: 1, Raws: []byte{1, 2}}, "raw vector has 2 elements, header says 1"},
		{"odd complex", &node{Kind: uint8(value.KindComplex), Len: 2, Doubles: []float64{1, 2, 3}}, "complex vector has 3 parts, header says 2 elements"},
		{"NA position", &node{Kind: uint8(value.KindCharacter), Len: 1, Strings: []string{"a"}, NA: []int{3}}, `character NA position 3 out of range \[0:1\]`},
		{"empty call", &node{Kind: uint8(value.KindLanguage)}, "empty language"},
		{"wide sequence", &node{Kind: uint8(value.KindInteger), Len: 1, Seq: &sequence{IntStart: math.MaxInt64}}, "sequence start: .*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := msgpack.Marshal(&snapshot{Schema: SchemaVersion, Root: tt.root})
			qt.Assert(t, qt.IsNil(err))
			_, err = Unmarshal(data)
			qt.Assert(t, qt.ErrorMatches(err, tt.want))
		})
	}
}

func TestTruncatedInput(t *testing.T) {
	data, err := Marshal(value.Strings("a", "b"))
	qt.Assert(t, qt.IsNil(err))
	_, err = Unmarshal(data[:len(data)-2])
	qt.Assert(t, qt.ErrorMatches(err, "decoding snapshot: .*"))
}
