package vcore_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
	"github.com/funvibe/vcore/pkg/vcore"
)

func TestRuntimeCoerce(t *testing.T) {
	var warned []string
	rt := vcore.New(vcore.WithWarningFunc(func(_ vcore.Warning, msg string) {
		warned = append(warned, msg)
	}))

	out, err := rt.Coerce(value.Strings("1", "x"), value.KindInteger, rt.CoerceOptions())
	qt.Assert(t, qt.IsNil(err))
	v := out.(*vcore.Vector)
	qt.Assert(t, qt.DeepEquals(v.Ints(), []int32{1, na.Integer}))
	qt.Assert(t, qt.IsFalse(v.IsComplete()))
	qt.Assert(t, qt.DeepEquals(warned, []string{config.WarnNAIntroduced}))
}

func TestRuntimeAccess(t *testing.T) {
	rt := vcore.New()
	v := value.Ints(1, 2, 3)
	s, err := rt.Access(v, vcore.ReadWrite)
	qt.Assert(t, qt.IsNil(err))
	for s.Next() {
		if s.Index() == 1 {
			s.SetInt(na.Integer)
		}
	}
	s.Close()
	qt.Assert(t, qt.IsFalse(v.IsComplete()))

	site := rt.NewAccessSite()
	r, err := site.Open(v, vcore.Read)
	qt.Assert(t, qt.IsNil(err))
	defer r.Close()
	qt.Assert(t, qt.IsFalse(r.Generic()))
}

func TestRuntimeIdentical(t *testing.T) {
	rt := vcore.New()
	opts := rt.IdenticalOptions()
	qt.Assert(t, qt.IsTrue(rt.Identical(value.Colon(1, 3), value.Ints(1, 2, 3), opts)))
	qt.Assert(t, qt.IsFalse(rt.Identical(value.Ints(1), value.Doubles(1), opts)))
}

func TestRuntimeForeignVector(t *testing.T) {
	rt := vcore.New()
	src := &items{xs: []any{"a", nil}}
	v, err := rt.ForeignVector(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Type(), value.KindCharacter))
	qt.Assert(t, qt.DeepEquals(v.Strings(), []string{"a", na.String}))
}

type items struct{ xs []any }

func (s *items) Size() (int, error)        { return len(s.xs), nil }
func (s *items) ReadAt(i int) (any, error) { return s.xs[i], nil }
func (s *items) IsNull(v any) bool         { return v == nil }
func (s *items) IsBoxed(any) bool          { return false }
func (s *items) Unbox(v any) (any, error)  { return v, nil }

func TestRuntimeSnapshot(t *testing.T) {
	rt := vcore.New()
	in := value.ListOf(value.Doubles(1.5), value.Strings(na.String))
	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(rt.Snapshot(&buf, in)))
	out, err := rt.Restore(&buf)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(rt.Identical(in, out, vcore.IdenticalOptions{})))

	err = rt.Snapshot(&buf, value.NewEnvironment())
	qt.Assert(t, qt.ErrorIs(err, value.ErrUnsupported))
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vcore.toml")
	content := "[identical]\nnum_eq = false\n\n[access]\ncache_limit = 0\n"
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(content), 0o644)))

	rt, err := vcore.FromConfig(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(rt.IdenticalOptions().NumEq))
	qt.Assert(t, qt.IsTrue(rt.NewAccessSite().IsGeneric()))

	_, err = vcore.FromConfig(filepath.Join(dir, "missing.yaml"))
	qt.Assert(t, qt.IsNotNil(err))
}
