package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/funvibe/vcore/internal/foreign"
)

// testEnv is a temporary directory holding a quiet configuration.
type testEnv struct {
	t   *testing.T
	dir string
	cfg string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "vcore.yaml")
	qt.Assert(t, qt.IsNil(os.WriteFile(cfg, []byte("log_level: error\n"), 0o644)))
	return &testEnv{t: t, dir: dir, cfg: cfg}
}

func (e *testEnv) file(name, content string) string {
	p := filepath.Join(e.dir, name)
	qt.Assert(e.t, qt.IsNil(os.WriteFile(p, []byte(content), 0o644)))
	return p
}

func (e *testEnv) run(args ...string) (code int, stdout, stderr string) {
	var out, errw bytes.Buffer
	args = append([]string{"--config", e.cfg, "--color", "off"}, args...)
	code = run(args, &out, &errw)
	return code, out.String(), errw.String()
}

func TestCoerceCommand(t *testing.T) {
	e := newTestEnv(t)
	in := e.file("in.yaml", `["1", "x", "3"]`)

	code, out, errOut := e.run("coerce", "--to", "integer", in)
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.Equals(out, "[1] 1 NA 3\n"))
	qt.Assert(t, qt.StringContains(errOut, "Warning message:\nNAs introduced by coercion"))
}

func TestCoerceUnknownType(t *testing.T) {
	e := newTestEnv(t)
	in := e.file("in.yaml", `[1]`)
	code, _, errOut := e.run("coerce", "--to", "closure", in)
	qt.Assert(t, qt.Equals(code, 1))
	qt.Assert(t, qt.StringContains(errOut, `unknown vector type "closure"`))
}

func TestCoerceWritesSnapshot(t *testing.T) {
	e := newTestEnv(t)
	in := e.file("in.yaml", `[1, ~, 3]`)
	snap := filepath.Join(e.dir, "out.vcs")

	code, _, _ := e.run("coerce", "--to", "double", "-o", snap, in)
	qt.Assert(t, qt.Equals(code, 0))

	code, out, _ := e.run("inspect", snap)
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.StringContains(out, "type:      double"))
	qt.Assert(t, qt.StringContains(out, "storage:   dense"))
	qt.Assert(t, qt.StringContains(out, "complete:  false"))
	qt.Assert(t, qt.StringContains(out, "[1] 1 NA 3"))
}

func TestIdenticalCommand(t *testing.T) {
	e := newTestEnv(t)
	a := e.file("a.yaml", "- [1, 2]\n- a\n")
	b := e.file("b.yaml", "- [1, 2]\n- a\n")
	c := e.file("c.yaml", "- [1, 3]\n- a\n")

	code, out, _ := e.run("identical", a, b)
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.Equals(out, "[1] TRUE\n"))

	code, out, _ = e.run("identical", a, c)
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.Equals(out, "[1] FALSE\n"))

	code, _, errOut := e.run("identical", a, filepath.Join(e.dir, "missing.yaml"))
	qt.Assert(t, qt.Equals(code, 1))
	qt.Assert(t, qt.StringContains(errOut, "missing.yaml"))
}

func TestIdenticalFlags(t *testing.T) {
	e := newTestEnv(t)
	a := e.file("a.yaml", "[0.0]")
	b := e.file("b.yaml", "[-0.0]")

	_, out, _ := e.run("identical", a, b)
	qt.Assert(t, qt.Equals(out, "[1] TRUE\n"))
	_, out, _ = e.run("identical", "--num-eq=false", a, b)
	qt.Assert(t, qt.Equals(out, "[1] FALSE\n"))
}

func TestInspectCommand(t *testing.T) {
	e := newTestEnv(t)
	in := e.file("in.yaml", `[1, ~, 3]`)

	code, out, _ := e.run("inspect", in)
	qt.Assert(t, qt.Equals(code, 0))
	want := strings.Join([]string{
		"type:      integer",
		"storage:   foreign",
		"length:    3",
		"complete:  false",
		"[1] 1 NA 3",
	}, "\n") + "\n"
	qt.Assert(t, qt.Equals(out, want))
}

func TestSQLCommand(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(e.dir, "data.db")
	db, err := foreign.OpenSQLite(path)
	qt.Assert(t, qt.IsNil(err))
	_, err = db.Exec(`CREATE TABLE t (x REAL)`)
	qt.Assert(t, qt.IsNil(err))
	_, err = db.Exec(`INSERT INTO t VALUES (1.5), (NULL), (3)`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(db.Close()))

	code, out, errOut := e.run("sql", path, "--table", "t", "--column", "x")
	qt.Assert(t, qt.Equals(code, 0), qt.Commentf("stderr: %s", errOut))
	qt.Assert(t, qt.StringContains(out, "type:      double"))
	qt.Assert(t, qt.StringContains(out, "[1] 1.5 NA 3"))

	code, out, _ = e.run("sql", path, "--table", "t", "--column", "x", "--as", "character")
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.StringContains(out, "type:      character"))

	code, _, _ = e.run("sql", path, "--table", "nope", "--column", "x")
	qt.Assert(t, qt.Equals(code, 1))
}

func TestProtoCommand(t *testing.T) {
	e := newTestEnv(t)
	schema := e.file("series.proto", `syntax = "proto3";
package sample;
message Series {
  repeated double points = 1;
  repeated string labels = 2;
}
`)
	data := e.file("series.json", `{"points": [1, 2.5], "labels": ["a"]}`)

	code, out, errOut := e.run("proto", data, "--schema", schema, "--message", "sample.Series", "--field", "points", "--json")
	qt.Assert(t, qt.Equals(code, 0), qt.Commentf("stderr: %s", errOut))
	qt.Assert(t, qt.StringContains(out, "[1] 1 2.5"))

	code, _, errOut = e.run("proto", data, "--schema", schema, "--message", "sample.Series", "--field", "nope", "--json")
	qt.Assert(t, qt.Equals(code, 1))
	qt.Assert(t, qt.StringContains(errOut, `has no field "nope"`))
}

func TestVersionCommand(t *testing.T) {
	e := newTestEnv(t)
	code, out, _ := e.run("version")
	qt.Assert(t, qt.Equals(code, 0))
	qt.Assert(t, qt.StringContains(out, "version:   "+Version))
	qt.Assert(t, qt.StringContains(out, "snapshot:  schema 1"))
}

func TestBadFlags(t *testing.T) {
	e := newTestEnv(t)
	code, _, errOut := e.run("--color", "rainbow", "version")
	qt.Assert(t, qt.Equals(code, 1))
	qt.Assert(t, qt.StringContains(errOut, "unsupported color mode"))

	code, _, _ = e.run("--log-level", "loud", "version")
	qt.Assert(t, qt.Equals(code, 1))
}
