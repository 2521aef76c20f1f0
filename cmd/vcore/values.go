package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/vcore/internal/foreign"
	"github.com/funvibe/vcore/internal/value"
)

// Snapshot files use this extension; everything else is read as YAML.
const snapshotExt = ".vcs"

// loadFile reads a value file. YAML sequences become foreign-backed vectors
// over the parsed document; snapshots are decoded as written.
func (c *cli) loadFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), snapshotExt) {
		v, err := c.rt.Restore(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return v, nil
	}
	src, err := foreign.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	v, err := c.rt.ForeignVector(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.logger.Debug("loaded value", "path", path, "kind", v.Type(), "length", v.Len())
	return v, nil
}

// resolve reads foreign storage out densely and normalises nested foreign
// references, so the result compares by content.
func resolve(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case *value.ForeignRef:
		n, err := foreign.Normalize(x)
		if err != nil {
			return nil, err
		}
		if _, again := n.(*value.ForeignRef); again {
			return nil, fmt.Errorf("%s cannot be read as a value", x.Inspect())
		}
		return resolve(n)
	case *value.Vector:
		x = x.Materialize()
		if !x.Type().IsList() {
			return x, nil
		}
		elems := x.Elems()
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			r, err := resolve(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i+1, err)
			}
			out[i] = r
		}
		var l *value.Vector
		if x.Type() == value.KindExpression {
			l = value.NewExpression(out)
		} else {
			l = value.NewList(out)
		}
		attrs := x.Attributes()
		for i := 0; i < attrs.Len(); i++ {
			name, a := attrs.At(i)
			l.SetAttr(name, a)
		}
		return l, nil
	}
	return v, nil
}

func parseKind(name string) (value.Kind, error) {
	k, ok := value.ParseKind(strings.ToLower(name))
	if !ok || !k.IsVector() {
		return value.KindInvalid, fmt.Errorf("unknown vector type %q", name)
	}
	return k, nil
}
