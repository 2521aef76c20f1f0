// Package identical implements structural equality of runtime values.
package identical

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
	"github.com/funvibe/vcore/internal/value"
)

// Options are the flags of identical().
type Options struct {
	NumEq             bool // compare doubles by value instead of bit pattern
	SingleNA          bool // one NA and one NaN per type, whatever the payload
	AttribAsSet       bool // attribute order does not matter
	IgnoreBytecode    bool
	IgnoreEnvironment bool // closures need not share their captured frame
	IgnoreSrcref      bool // skip srcref attributes of closures
	ExtptrAsRef       bool // external pointers compare by identity, not address
}

// DefaultOptions returns the defaults of identical().
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Identical)
}

// OptionsFromConfig converts the configured flags.
func OptionsFromConfig(c config.IdenticalConfig) Options {
	return Options{
		NumEq:             c.NumEq,
		SingleNA:          c.SingleNA,
		AttribAsSet:       c.AttribAsSet,
		IgnoreBytecode:    c.IgnoreBytecode,
		IgnoreEnvironment: c.IgnoreEnvironment,
		IgnoreSrcref:      c.IgnoreSrcref,
		ExtptrAsRef:       c.ExtptrAsRef,
	}
}

type pair struct {
	x, y value.Value
}

// Initial capacity of a comparator's work stack.
const initialStackSize = 64

// Comparator walks two values with an explicit work stack instead of
// recursion. A call only touches the stack above the depth it started at,
// so one comparator may be reused, and re-entered, without reallocating.
// A Comparator is not safe for concurrent use.
type Comparator struct {
	logger *slog.Logger
	stack  []pair
	// closure pairs under comparison; a pair met again is assumed equal
	active map[pair]struct{}
	marked []pair
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Comparator) { c.logger = l }
}

// NewComparator returns a comparator with a preallocated work stack.
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stack:  make([]pair, 0, initialStackSize),
		active: make(map[pair]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var pool = sync.Pool{
	New: func() any { return NewComparator() },
}

// Identical compares x and y with a pooled comparator.
func Identical(x, y value.Value, opts Options) bool {
	c := pool.Get().(*Comparator)
	defer pool.Put(c)
	return c.Identical(x, y, opts)
}

// Identical reports whether x and y are structurally the same value under
// opts. Malformed cons chains raise an InternalError.
func (c *Comparator) Identical(x, y value.Value, opts Options) bool {
	base, markBase := len(c.stack), len(c.marked)
	defer func() {
		clear(c.stack[base:cap(c.stack)])
		c.stack = c.stack[:base]
		for _, p := range c.marked[markBase:] {
			delete(c.active, p)
		}
		c.marked = c.marked[:markBase]
	}()

	c.push(x, y)
	for len(c.stack) > base {
		top := len(c.stack) - 1
		p := c.stack[top]
		c.stack = c.stack[:top]
		if !c.step(p.x, p.y, opts) {
			c.logger.Debug("values differ", "x", kindOf(p.x), "y", kindOf(p.y))
			return false
		}
	}
	return true
}

func (c *Comparator) push(x, y value.Value) {
	c.stack = append(c.stack, pair{x, y})
}

// step compares one pair shallowly and pushes its children.
func (c *Comparator) step(x, y value.Value, opts Options) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil || x.Type() != y.Type() {
		return false
	}
	switch xv := x.(type) {
	case *value.Vector:
		return c.vector(xv, y.(*value.Vector), opts)
	case *value.PairList:
		return c.pairList(xv, y.(*value.PairList), opts)
	case *value.Closure:
		return c.closure(xv, y.(*value.Closure), opts)
	case *value.Builtin:
		return xv.Desc == y.(*value.Builtin).Desc
	case *value.ExternalPtr:
		return !opts.ExtptrAsRef && xv.Addr == y.(*value.ExternalPtr).Addr
	case *value.S4Object:
		yv := y.(*value.S4Object)
		return xv.S4 == yv.S4 && c.attributes(xv.Attributes(), yv.Attributes(), opts, "")
	}
	// Null, Missing, symbols, environments, foreign references and interop
	// scalars are equal only to themselves.
	return false
}

func (c *Comparator) vector(x, y *value.Vector, opts Options) bool {
	n := x.Len()
	if n != y.Len() {
		return false
	}
	switch x.Type() {
	case value.KindLogical:
		if !equalSlices(x.Logicals(), y.Logicals()) {
			return false
		}
	case value.KindInteger:
		if !equalSlices(x.Ints(), y.Ints()) {
			return false
		}
	case value.KindDouble:
		xs, ys := x.Doubles(), y.Doubles()
		for i := range xs {
			if !doubles(xs[i], ys[i], opts) {
				return false
			}
		}
	case value.KindComplex:
		xs, ys := x.Complexes(), y.Complexes()
		for i := range xs {
			if !doubles(real(xs[i]), real(ys[i]), opts) || !doubles(imag(xs[i]), imag(ys[i]), opts) {
				return false
			}
		}
	case value.KindCharacter:
		if !equalSlices(x.Strings(), y.Strings()) {
			return false
		}
	case value.KindRaw:
		if !equalSlices(x.Raws(), y.Raws()) {
			return false
		}
	}
	// Attributes go below the elements so that elements are compared first.
	if !c.attributes(x.Attributes(), y.Attributes(), opts, "") {
		return false
	}
	if x.Type().IsList() {
		xs, ys := x.Elems(), y.Elems()
		for i := n - 1; i >= 0; i-- {
			c.push(xs[i], ys[i])
		}
	}
	return true
}

func equalSlices[T comparable](xs, ys []T) bool {
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

// doubles applies the NA and NaN policy of opts to one pair of elements.
func doubles(a, b float64, opts Options) bool {
	if opts.SingleNA {
		switch {
		case na.IsDouble(a):
			return na.IsDouble(b)
		case na.IsDouble(b):
			return false
		case math.IsNaN(a):
			return math.IsNaN(b)
		case math.IsNaN(b):
			return false
		}
	}
	if opts.NumEq {
		if math.IsNaN(a) || math.IsNaN(b) {
			return math.IsNaN(a) && math.IsNaN(b)
		}
		return a == b
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

// closure compares formals, body, compiled code, captured frame and
// attributes. A closure pair reached again while it is being compared is
// taken as equal, which keeps self-referencing functions finite.
func (c *Comparator) closure(x, y *value.Closure, opts Options) bool {
	key := pair{x, y}
	if _, ok := c.active[key]; ok {
		return true
	}
	c.active[key] = struct{}{}
	c.marked = append(c.marked, key)

	if !opts.IgnoreEnvironment && x.Env != y.Env {
		return false
	}
	skip := ""
	if opts.IgnoreSrcref {
		skip = config.SrcRefAttr
	}
	if !c.attributes(x.Attributes(), y.Attributes(), opts, skip) {
		return false
	}
	if !opts.IgnoreBytecode {
		switch {
		case x.ByteCode == nil && y.ByteCode == nil:
		case x.ByteCode == nil || y.ByteCode == nil:
			return false
		default:
			c.push(x.ByteCode, y.ByteCode)
		}
	}
	if !sameFormalHead(x.Formals, y.Formals) {
		return false
	}
	c.push(x.Body, y.Body)
	c.push(x.Formals, y.Formals)
	return true
}

// sameFormalHead compares the tag of the first formal, which names the first
// argument. pairList skips head tags, so formals need this extra check.
func sameFormalHead(x, y value.Value) bool {
	xp, xok := x.(*value.PairList)
	yp, yok := y.(*value.PairList)
	if !xok || !yok {
		return true
	}
	return sameTag(xp.Tag, yp.Tag)
}

// pairList compares two cons chains cell by cell. The head's tag is not
// compared; inner cells must agree on tags, where an empty symbol counts as
// no tag, and must not carry attributes.
func (c *Comparator) pairList(x, y *value.PairList, opts Options) bool {
	xc, yc := x.Cells(), y.Cells()
	if len(xc) != len(yc) {
		return false
	}
	for i := 1; i < len(xc); i++ {
		if !sameTag(xc[i].Tag, yc[i].Tag) {
			return false
		}
		if xc[i].Attributes().Len() > 0 || yc[i].Attributes().Len() > 0 {
			value.Fail(value.PanicPairListAttrs, "attributes on inner cell %d of a %s", i, x.Type())
		}
	}
	if !c.attributes(x.Attributes(), y.Attributes(), opts, "") {
		return false
	}
	for i := len(xc) - 1; i >= 0; i-- {
		c.push(xc[i].Car, yc[i].Car)
	}
	return true
}

func sameTag(x, y value.Value) bool {
	x, y = tagOf(x), tagOf(y)
	switch {
	case x == nil && y == nil:
		return true
	case x == nil || y == nil:
		return false
	}
	xs, xok := x.(*value.Symbol)
	ys, yok := y.(*value.Symbol)
	if !xok || !yok {
		value.Fail(value.PanicPairListTag, "cons cell tag of kind %s and %s", x.Type(), y.Type())
	}
	return xs == ys
}

// tagOf maps the absent-tag forms to nil.
func tagOf(t value.Value) value.Value {
	if t == nil || value.IsNull(t) || t == value.Value(value.EmptySymbol) {
		return nil
	}
	return t
}

type attr struct {
	name string
	val  value.Value
}

// attributes checks the shallow shape of two attribute sets and pushes the
// value pairs. skip names an attribute left out on both sides.
func (c *Comparator) attributes(xa, ya *value.Attributes, opts Options, skip string) bool {
	xs, ys := entries(xa, skip), entries(ya, skip)
	if len(xs) != len(ys) {
		return false
	}
	if opts.AttribAsSet {
		for _, e := range xs {
			yv, ok := ya.Get(e.name)
			if !ok {
				return false
			}
			c.push(rowNames(e.name, e.val), rowNames(e.name, yv))
		}
		for _, e := range ys {
			if !xa.Has(e.name) {
				return false
			}
		}
		return true
	}
	for i, e := range xs {
		if e.name != ys[i].name {
			return false
		}
		c.push(rowNames(e.name, e.val), rowNames(e.name, ys[i].val))
	}
	return true
}

func entries(a *value.Attributes, skip string) []attr {
	n := a.Len()
	if n == 0 {
		return nil
	}
	out := make([]attr, 0, n)
	for i := 0; i < n; i++ {
		name, v := a.At(i)
		if skip != "" && name == skip {
			continue
		}
		out = append(out, attr{name, v})
	}
	return out
}

// rowNames expands the compact row.names form c(NA, -n) to 1..n.
func rowNames(name string, v value.Value) value.Value {
	if name != config.RowNamesAttr {
		return v
	}
	vec, ok := v.(*value.Vector)
	if !ok || vec.Type() != value.KindInteger || vec.Len() != 2 || !na.IsInteger(vec.IntAt(0)) {
		return v
	}
	n := vec.IntAt(1)
	if n < 0 {
		n = -n
	}
	if n == 0 || na.IsInteger(n) {
		return value.Ints()
	}
	return value.Colon(1, n)
}

func kindOf(v value.Value) value.Kind {
	if v == nil {
		return value.KindInvalid
	}
	return v.Type()
}
