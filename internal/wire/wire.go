// Package wire stores runtime values as msgpack snapshots.
//
// A snapshot holds data only: vectors, attributes, cons chains, symbols,
// builtins and S4 objects. Values bound to a live process, such as
// environments, closures, external pointers and foreign references, are
// rejected with a value.UnsupportedError. Sequence vectors keep their
// compact form; foreign and view storage is read out densely.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
)

// Current schema version. Increment when the node layout changes.
const SchemaVersion uint16 = 1

// ErrSchema is returned for snapshots written with another schema.
var ErrSchema = errors.New("unsupported snapshot schema")

type snapshot struct {
	Schema uint16 `msgpack:"schema"`
	Root   *node  `msgpack:"root"`
}

// node is the serialized form of one value.
type node struct {
	Kind uint8 `msgpack:"k"`

	// atomic payloads, one per kind
	Logicals []int8    `msgpack:"lgl,omitempty"`
	Ints     []int32   `msgpack:"int,omitempty"`
	Doubles  []float64 `msgpack:"dbl,omitempty"` // complex: re, im pairs
	Strings  []string  `msgpack:"str,omitempty"`
	NA       []int     `msgpack:"na,omitempty"` // NA positions of a character vector
	Raws     []byte    `msgpack:"raw,omitempty"`
	Len      int       `msgpack:"n,omitempty"`
	Seq      *sequence `msgpack:"seq,omitempty"`

	// lists and cons chains
	Elems []*node  `msgpack:"elems,omitempty"`
	Tags  []string `msgpack:"tags,omitempty"`

	Name  string  `msgpack:"name,omitempty"` // symbol or builtin name
	Arity int     `msgpack:"arity,omitempty"`
	S4    bool    `msgpack:"s4,omitempty"`
	Attrs []*attr `msgpack:"attrs,omitempty"`
}

type sequence struct {
	IntStart    int64   `msgpack:"is,omitempty"`
	IntStride   int64   `msgpack:"id,omitempty"`
	DoubleStart float64 `msgpack:"ds,omitempty"`
	Stride      float64 `msgpack:"dd,omitempty"`
}

type attr struct {
	Name string `msgpack:"name"`
	Val  *node  `msgpack:"val"`
}

// Marshal encodes v as a snapshot.
func Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a snapshot produced by Marshal.
func Unmarshal(data []byte) (value.Value, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes v to w.
func Encode(w io.Writer, v value.Value) error {
	root, err := toNode(v)
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(&snapshot{Schema: SchemaVersion, Root: root})
}

// Decode reads one snapshot from r.
func Decode(r io.Reader) (value.Value, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrSchema, s.Schema, SchemaVersion)
	}
	if s.Root == nil {
		return nil, errors.New("snapshot has no root value")
	}
	return fromNode(s.Root)
}

func unsupported(k value.Kind, reason string) error {
	return &value.UnsupportedError{Op: "encode", Kind: k, Reason: reason}
}

func toNode(v value.Value) (*node, error) {
	if v == nil {
		v = value.Null
	}
	n := &node{Kind: uint8(v.Type())}
	switch x := v.(type) {
	case *value.NullValue, *value.MissingValue:
		return n, nil
	case *value.Symbol:
		n.Name = x.Name()
		return n, nil
	case *value.Vector:
		if err := vectorNode(n, x); err != nil {
			return nil, err
		}
		return n, attrNodes(n, x.Attributes())
	case *value.PairList:
		cells := x.Cells()
		n.Elems = make([]*node, len(cells))
		n.Tags = make([]string, len(cells))
		for i, c := range cells {
			if i > 0 && c.Attributes().Len() > 0 {
				return nil, unsupported(x.Type(), fmt.Sprintf("attributes on inner cell %d", i))
			}
			e, err := toNode(c.Car)
			if err != nil {
				return nil, err
			}
			n.Elems[i] = e
			n.Tags[i] = c.TagName()
		}
		return n, attrNodes(n, x.Attributes())
	case *value.Builtin:
		n.Name, n.Arity = x.Desc.Name, x.Desc.Arity
		return n, nil
	case *value.S4Object:
		n.S4 = x.S4
		return n, attrNodes(n, x.Attributes())
	}
	return nil, unsupported(v.Type(), "value is bound to the running process")
}

func vectorNode(n *node, v *value.Vector) error {
	n.Len = v.Len()
	if start, stride, ok := v.SequenceParams(); ok {
		if v.Type() == value.KindInteger {
			n.Seq = &sequence{IntStart: int64(start), IntStride: int64(stride)}
		} else {
			n.Seq = &sequence{DoubleStart: start, Stride: stride}
		}
		return nil
	}
	switch v.Type() {
	case value.KindLogical:
		n.Logicals = v.Logicals()
	case value.KindInteger:
		n.Ints = v.Ints()
	case value.KindDouble:
		n.Doubles = v.Doubles()
	case value.KindComplex:
		cs := v.Complexes()
		n.Doubles = make([]float64, 0, 2*len(cs))
		for _, c := range cs {
			n.Doubles = append(n.Doubles, real(c), imag(c))
		}
	case value.KindCharacter:
		ss := v.Strings()
		n.Strings = make([]string, len(ss))
		for i, s := range ss {
			if na.IsString(s) {
				n.NA = append(n.NA, i)
				continue
			}
			n.Strings[i] = s
		}
	case value.KindRaw:
		n.Raws = v.Raws()
	case value.KindList, value.KindExpression:
		elems := v.Elems()
		n.Elems = make([]*node, len(elems))
		for i, e := range elems {
			en, err := toNode(e)
			if err != nil {
				return err
			}
			n.Elems[i] = en
		}
	}
	return nil
}

func attrNodes(n *node, a *value.Attributes) error {
	for i := 0; i < a.Len(); i++ {
		name, v := a.At(i)
		an, err := toNode(v)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		n.Attrs = append(n.Attrs, &attr{Name: name, Val: an})
	}
	return nil
}

// attributed is implemented by every value that carries attributes.
type attributed interface {
	SetAttr(name string, val value.Value)
}

func fromNode(n *node) (value.Value, error) {
	k := value.Kind(n.Kind)
	var out value.Value
	switch {
	case k == value.KindNull:
		return value.Null, nil
	case k == value.KindMissing:
		return value.Missing, nil
	case k == value.KindSymbol:
		return value.Intern(n.Name), nil
	case k == value.KindBuiltin:
		if n.Name == "" {
			return nil, errors.New("builtin without a name")
		}
		return value.NewBuiltin(value.RegisterBuiltin(n.Name, n.Arity)), nil
	case k.IsVector():
		v, err := vectorFromNode(k, n)
		if err != nil {
			return nil, err
		}
		out = v
	case k == value.KindPairList || k == value.KindLanguage:
		p, err := pairListFromNode(k, n)
		if err != nil {
			return nil, err
		}
		out = p
	case k == value.KindS4:
		o := value.NewS4Object("")
		o.S4 = n.S4
		out = o
	default:
		return nil, fmt.Errorf("snapshot holds a value of kind %s", k)
	}
	if len(n.Attrs) > 0 {
		dst := out.(attributed)
		for _, a := range n.Attrs {
			av, err := fromNode(a.Val)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			dst.SetAttr(a.Name, av)
		}
	}
	return out, nil
}

func vectorFromNode(k value.Kind, n *node) (*value.Vector, error) {
	if n.Len < 0 {
		return nil, fmt.Errorf("%s vector of negative length %d", k, n.Len)
	}
	if n.Seq != nil {
		return sequenceFromNode(k, n)
	}
	switch k {
	case value.KindLogical:
		xs, err := payload(k, n.Logicals, n.Len)
		if err != nil {
			return nil, err
		}
		return value.NewLogical(xs), nil
	case value.KindInteger:
		xs, err := payload(k, n.Ints, n.Len)
		if err != nil {
			return nil, err
		}
		return value.NewInteger(xs), nil
	case value.KindDouble:
		xs, err := payload(k, n.Doubles, n.Len)
		if err != nil {
			return nil, err
		}
		return value.NewDouble(xs), nil
	case value.KindComplex:
		ds := n.Doubles
		if len(ds)%2 != 0 || len(ds)/2 != n.Len {
			return nil, fmt.Errorf("complex vector has %d parts, header says %d elements", len(ds), n.Len)
		}
		cs := make([]complex128, n.Len)
		for i := range cs {
			cs[i] = complex(ds[2*i], ds[2*i+1])
		}
		return value.NewComplex(cs), nil
	case value.KindCharacter:
		ss, err := payload(k, n.Strings, n.Len)
		if err != nil {
			return nil, err
		}
		for _, i := range n.NA {
			if i < 0 || i >= len(ss) {
				return nil, fmt.Errorf("character NA position %d out of range [0:%d]", i, len(ss))
			}
			ss[i] = na.String
		}
		return value.NewCharacter(ss), nil
	case value.KindRaw:
		xs, err := payload(k, n.Raws, n.Len)
		if err != nil {
			return nil, err
		}
		return value.NewRaw(xs), nil
	}
	if len(n.Elems) != n.Len {
		return nil, fmt.Errorf("%s vector has %d elements, header says %d", k, len(n.Elems), n.Len)
	}
	elems := make([]value.Value, n.Len)
	for i, en := range n.Elems {
		e, err := fromNode(en)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}
	if k == value.KindExpression {
		return value.NewExpression(elems), nil
	}
	return value.NewList(elems), nil
}

// payload checks that an atomic payload holds exactly the n elements the
// header announces. An omitted payload only decodes as an empty vector.
func payload[T any](k value.Kind, xs []T, n int) ([]T, error) {
	if len(xs) != n {
		return nil, fmt.Errorf("%s vector has %d elements, header says %d", k, len(xs), n)
	}
	if xs == nil {
		xs = []T{}
	}
	return xs, nil
}

func sequenceFromNode(k value.Kind, n *node) (*value.Vector, error) {
	switch k {
	case value.KindInteger:
		start, err := safecast.Conv[int32](n.Seq.IntStart)
		if err != nil {
			return nil, fmt.Errorf("sequence start: %w", err)
		}
		stride, err := safecast.Conv[int32](n.Seq.IntStride)
		if err != nil {
			return nil, fmt.Errorf("sequence stride: %w", err)
		}
		return value.NewIntSequence(start, stride, n.Len)
	case value.KindDouble:
		return value.NewDoubleSequence(n.Seq.DoubleStart, n.Seq.Stride, n.Len)
	}
	return nil, fmt.Errorf("sequence of kind %s", k)
}

func pairListFromNode(k value.Kind, n *node) (value.Value, error) {
	if len(n.Elems) == 0 {
		return nil, fmt.Errorf("empty %s", k)
	}
	if len(n.Tags) != 0 && len(n.Tags) != len(n.Elems) {
		return nil, fmt.Errorf("%s has %d cells and %d tags", k, len(n.Elems), len(n.Tags))
	}
	cars := make([]value.Value, len(n.Elems))
	for i, en := range n.Elems {
		c, err := fromNode(en)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cars[i] = c
	}
	var head *value.PairList
	if k == value.KindLanguage {
		var names []string
		if len(n.Tags) > 0 {
			names = n.Tags[1:]
		}
		head = value.Call(cars[0], cars[1:], names)
		if len(n.Tags) > 0 && n.Tags[0] != "" {
			head.Tag = value.Intern(n.Tags[0])
		}
	} else {
		head = value.NewPairList(cars, n.Tags).(*value.PairList)
	}
	return head, nil
}
