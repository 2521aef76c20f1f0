package value

import (
	"testing"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
)

func expectPanic(t *testing.T, code PanicCode, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		ie, ok := AsInternalError(r)
		if !ok {
			t.Fatalf("expected internal error %s, got %v", code, r)
		}
		if ie.Code != code {
			t.Fatalf("expected %s, got %s (%s)", code, ie.Code, ie.Message)
		}
	}()
	f()
}

func TestCompleteFlagTracksWrites(t *testing.T) {
	v := Ints(1, 2, 3)
	if !v.IsComplete() {
		t.Fatalf("fresh vector without NA is not complete")
	}
	v.SetInt(1, na.Integer)
	if v.IsComplete() {
		t.Errorf("complete after writing NA")
	}
	v.SetInt(0, 7)
	if v.IsComplete() {
		t.Errorf("complete while element 1 is still NA")
	}
	v.SetInt(1, 5)
	if !v.IsComplete() {
		t.Errorf("not complete after overwriting the only NA")
	}
}

func TestCompleteFlagPerKind(t *testing.T) {
	tests := []struct {
		name string
		v    *Vector
		want bool
	}{
		{"logical", Logicals(na.True, na.Logical), false},
		{"double NA", Doubles(1, na.Double), false},
		{"double NaN", Doubles(1, 0*inf()), true},
		{"complex", Complexes(complex(1, 2), na.Complex), false},
		{"character", Strings("a", na.String), false},
		{"raw", Raws(0, 255), true},
		{"NA vector", NewNAVector(KindInteger, 2), false},
		{"NA raw vector", NewNAVector(KindRaw, 2), true},
		{"empty", NewNAVector(KindDouble, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func inf() float64 {
	var zero float64
	return 1 / zero
}

func TestSequenceStorage(t *testing.T) {
	s, err := NewIntSequence(1, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Storage() != StorageSequence || !s.IsComplete() {
		t.Fatalf("storage %s complete %v", s.Storage(), s.IsComplete())
	}
	if c := s.Copy(); c.Storage() != StorageSequence {
		t.Errorf("copy of a sequence is %s", c.Storage())
	}
	got := s.Ints()
	for i, want := range []int32{1, 2, 3, 4, 5} {
		if got[i] != want {
			t.Errorf("element %d = %d, want %d", i, got[i], want)
		}
	}
	if start, stride, ok := s.SequenceParams(); !ok || start != 1 || stride != 1 {
		t.Errorf("SequenceParams() = %v, %v, %v", start, stride, ok)
	}
}

func TestSequenceRejectsOverflow(t *testing.T) {
	if _, err := NewIntSequence(2147483600, 100, 3); err == nil {
		t.Errorf("expected overflow error")
	}
	if _, err := NewIntSequence(na.Integer, 1, 3); err == nil {
		t.Errorf("expected NA start error")
	}
	if _, err := NewDoubleSequence(inf(), 1, 3); err == nil {
		t.Errorf("expected non-finite start error")
	}
}

func TestColon(t *testing.T) {
	v := Colon(3, 1)
	got := v.Ints()
	want := []int32{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Colon(3, 1) has %d elements", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Colon(3, 1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMutableCopiesShared(t *testing.T) {
	v := Ints(1, 2)
	v.MarkShared()
	w, err := v.Mutable()
	if err != nil {
		t.Fatal(err)
	}
	if w == v {
		t.Fatalf("Mutable returned a shared vector")
	}
	w.SetInt(0, 9)
	if v.IntAt(0) != 1 {
		t.Errorf("write through the copy changed the original")
	}
}

func TestMutableDensifiesSequence(t *testing.T) {
	s, _ := NewIntSequence(1, 2, 3)
	m, err := s.Mutable()
	if err != nil {
		t.Fatal(err)
	}
	if m != s || m.Storage() != StorageDense {
		t.Fatalf("Mutable() = %p (%s), want the same vector densified", m, m.Storage())
	}
	if got := m.IntAt(2); got != 5 {
		t.Errorf("element 2 = %d, want 5", got)
	}
}

func TestSharedWritePanics(t *testing.T) {
	v := Doubles(1)
	ListOf(v)
	ListOf(v)
	if !v.IsShared() {
		t.Fatalf("vector bound twice is not shared")
	}
	expectPanic(t, PanicSharedMutation, func() { v.SetDouble(0, 2) })
	expectPanic(t, PanicSharedMutation, func() { v.SetAttr("x", Ints(1)) })
}

func TestResizeRecyclesOrFills(t *testing.T) {
	v := Doubles(1, 2)
	r := v.Resize(5, false)
	want := []float64{1, 2, 1, 2, 1}
	for i, w := range want {
		if got := r.DoubleAt(i); got != w {
			t.Errorf("recycled[%d] = %v, want %v", i, got, w)
		}
	}
	if !r.IsComplete() {
		t.Errorf("recycled vector is incomplete")
	}

	f := v.Resize(3, true)
	if !na.IsDouble(f.DoubleAt(2)) || f.IsComplete() {
		t.Errorf("NA-filled resize: element 2 = %v, complete %v", f.DoubleAt(2), f.IsComplete())
	}

	e := Ints().Resize(2, false)
	if !na.IsInteger(e.IntAt(0)) || e.IsComplete() {
		t.Errorf("resize of an empty vector must fill with NA")
	}

	s := Ints(1, na.Integer).Resize(1, false)
	if s.Len() != 1 || !s.IsComplete() {
		t.Errorf("shrinking past the only NA: len %d, complete %v", s.Len(), s.IsComplete())
	}
	if k := Ints(na.Integer, 2).Resize(1, false); k.IsComplete() {
		t.Errorf("shrinking that keeps an NA must stay incomplete")
	}

	w := Strings("a", na.String).ResizeWithEmpty(1)
	if !w.IsComplete() {
		t.Errorf("ResizeWithEmpty shrinking past the only NA is incomplete")
	}
}

func TestResizePadsNames(t *testing.T) {
	v := Ints(1, 2)
	v.SetAttr(config.NamesAttr, Strings("a", "b"))
	v.SetAttr(config.DimAttr, Ints(2))
	r := v.Resize(3, true)
	names := r.Names()
	if names == nil {
		t.Fatalf("names dropped by resize")
	}
	got := names.Strings()
	if got[0] != "a" || got[1] != "b" || got[2] != "" {
		t.Errorf("names = %q", got)
	}
	if !names.IsComplete() {
		t.Errorf("padded names are incomplete")
	}
	if r.Dim() != nil {
		t.Errorf("dim survived resize")
	}
}

func TestCopyWithNewDimensions(t *testing.T) {
	v := Ints(1, 2, 3, 4, 5, 6)
	v.SetAttr(config.NamesAttr, Strings("a", "b", "c", "d", "e", "f"))
	m := v.CopyWithNewDimensions([]int32{2, 3})
	d := m.Dim()
	if len(d) != 2 || d[0] != 2 || d[1] != 3 {
		t.Errorf("Dim() = %v", d)
	}
	if m.Names() != nil {
		t.Errorf("names kept by CopyWithNewDimensions")
	}
}

func TestWrappedStrings(t *testing.T) {
	v := Strings("a", na.String)
	if err := v.WrapStrings(); err != nil {
		t.Fatal(err)
	}
	if !v.IsWrapped() || NoWrappedStrings() {
		t.Fatalf("wrapped %v, NoWrappedStrings %v", v.IsWrapped(), NoWrappedStrings())
	}
	if v.CharSXPAt(1) != NACharSXP {
		t.Errorf("NA cell is not NACharSXP")
	}
	if v.StringAt(0) != "a" || v.IsComplete() {
		t.Errorf("StringAt(0) = %q, complete %v", v.StringAt(0), v.IsComplete())
	}
	v.SetString(1, "b")
	if !v.IsComplete() {
		t.Errorf("not complete after replacing the NA cell")
	}
	if err := Ints(1).WrapStrings(); err == nil {
		t.Errorf("WrapStrings on an integer vector succeeded")
	}
}

func TestAttributesOrder(t *testing.T) {
	v := Ints(1)
	v.SetAttr("b", Ints(1))
	v.SetAttr("a", Ints(2))
	v.SetAttr("b", Ints(3))
	keys := v.Attributes().Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v", keys)
	}
	v.SetAttr("b", Null)
	if v.Attributes().Has("b") || v.Attributes().Len() != 1 {
		t.Errorf("setting NULL did not remove the attribute")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null, "NULL"},
		{Doubles(1, na.Double, 2.5), "[1] 1 NA 2.5"},
		{Ints(), "integer(0)"},
		{Strings("a", na.String), `[1] "a" NA`},
		{Logicals(na.True, na.False), "[1] TRUE FALSE"},
		{Raws(1, 255), "[1] 01 ff"},
		{ListOf(Ints(1), Strings("a", "b"), Null), `list(1, c("a", "b"), NULL)`},
		{Call(Intern("f"), []Value{Ints(1), Doubles(2)}, []string{"", "x"}), "f(1, x = 2)"},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect() = %q, want %q", got, tt.want)
		}
	}
}
