// Package coerce converts any supported value shape to a vector of a
// requested element kind, propagating NA and attribute semantics.
package coerce

import (
	"io"
	"log/slog"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/foreign"
	"github.com/funvibe/vcore/internal/value"
)

// Options selects which attributes survive a coercion and whether the
// source may be reused.
type Options struct {
	PreserveNames      bool
	PreserveDimensions bool
	PreserveAttributes bool
	AllowReuse         bool
}

// OptionsFromConfig converts the configured defaults.
func OptionsFromConfig(c config.CoerceConfig) Options {
	return Options{
		PreserveNames:      c.PreserveNames,
		PreserveDimensions: c.PreserveDimensions,
		PreserveAttributes: c.PreserveAttributes,
		AllowReuse:         c.AllowReuse,
	}
}

// WarningFunc receives every coercion warning as it is raised.
type WarningFunc func(w value.Warning, msg string)

// NormalizeFunc turns a foreign reference into a value the engine can
// coerce, usually a foreign-backed vector.
type NormalizeFunc func(ref *value.ForeignRef) (value.Value, error)

// Engine performs coercions. It keeps one access site per target kind so
// the dense loop stays on the specialised path for the shapes it sees.
type Engine struct {
	logger    *slog.Logger
	warn      WarningFunc
	normalize NormalizeFunc
	sites     [value.KindExpression + 1]*value.AccessSite
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWarningFunc sets the warning callback.
func WithWarningFunc(f WarningFunc) Option {
	return func(e *Engine) { e.warn = f }
}

// WithNormalizer replaces the interop normalisation step.
func WithNormalizer(f NormalizeFunc) Option {
	return func(e *Engine) { e.normalize = f }
}

// WithCacheLimit sets the access site cache limit.
func WithCacheLimit(n int) Option {
	return func(e *Engine) {
		for k := range e.sites {
			e.sites[k] = value.NewAccessSite(n)
		}
	}
}

// New returns an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		normalize: foreign.Normalize,
	}
	for k := range e.sites {
		e.sites[k] = value.NewAccessSite(config.DefaultAccessCacheLimit)
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = New()

// Coerce converts v with the default engine.
func Coerce(v value.Value, target value.Kind, opts Options) (value.Value, error) {
	return defaultEngine.Coerce(v, target, opts)
}

// Coerce converts v to a vector of kind target. Per-element failures yield
// NA and an incomplete result; a shape that cannot be converted at all is
// a *value.CoercionError.
func (e *Engine) Coerce(v value.Value, target value.Kind, opts Options) (value.Value, error) {
	if !target.IsVector() {
		return nil, &value.CoercionError{From: kindOf(v), To: target}
	}
	switch x := v.(type) {
	case nil, *value.NullValue:
		return value.NewVector(target, 0), nil
	case *value.Vector:
		return e.vector(x, target, opts)
	case *value.PairList:
		if x.Type() == value.KindLanguage && !target.IsList() {
			return nil, &value.CoercionError{From: value.KindLanguage, To: target}
		}
		e.logger.Debug("flattening cons chain", "kind", x.Type(), "target", target)
		return e.vector(x.ToList(), target, opts)
	case *value.ForeignRef:
		return e.foreignRef(x, target, opts)
	case *value.InteropScalar:
		return e.vector(x.Unwrap(), target, opts)
	case *value.Symbol:
		switch {
		case target == value.KindCharacter:
			return value.Strings(x.Name()), nil
		case target.IsList():
			return newGeneric(target, []value.Value{x}), nil
		}
	}
	return nil, &value.CoercionError{From: v.Type(), To: target}
}

func (e *Engine) foreignRef(x *value.ForeignRef, target value.Kind, opts Options) (value.Value, error) {
	if e.normalize == nil {
		return nil, &value.CoercionError{From: value.KindForeign, To: target, Detail: "external object"}
	}
	n, err := e.normalize(x)
	if err != nil {
		e.logger.Debug("foreign normalisation failed", "type", x.Inspect(), "err", err)
		return nil, &value.CoercionError{From: value.KindForeign, To: target, Detail: "external object"}
	}
	if _, again := n.(*value.ForeignRef); again {
		return nil, &value.CoercionError{From: value.KindForeign, To: target, Detail: "external object"}
	}
	e.logger.Debug("normalised foreign value", "type", x.Inspect(), "kind", n.Type())
	return e.Coerce(n, target, opts)
}

// vector dispatches a vector source: identity, sequence arithmetic, reuse,
// lazy view, list elements, then the dense loop.
func (e *Engine) vector(v *value.Vector, target value.Kind, opts Options) (value.Value, error) {
	src := v.Type()
	if src == target {
		return v, nil
	}
	if r, ok := e.sequence(v, target); ok {
		return e.finish(v, r, opts), nil
	}
	if opts.AllowReuse {
		if r, ok := e.reuse(v, target, opts); ok {
			return r, nil
		}
		if r, ok := e.view(v, target); ok {
			return e.finish(v, r, opts), nil
		}
	}
	if src.IsList() {
		if target.IsList() {
			return e.finish(v, newGeneric(target, v.Elems()), opts), nil
		}
		r, err := e.listElements(v, target)
		if err != nil {
			return nil, err
		}
		return e.finish(v, r, opts), nil
	}
	r, err := e.dense(v, target)
	if err != nil {
		return nil, err
	}
	return e.finish(v, r, opts), nil
}

// sequence rewrites a compact sequence without visiting its elements.
func (e *Engine) sequence(v *value.Vector, target value.Kind) (*value.Vector, bool) {
	start, stride, ok := v.SequenceParams()
	if !ok {
		return nil, false
	}
	n := v.Len()
	switch {
	case v.Type() == value.KindInteger && target == value.KindDouble:
		r, err := value.NewDoubleSequence(start, stride, n)
		return r, err == nil
	case v.Type() == value.KindDouble && target == value.KindInteger:
		if start != float64(int32(start)) || stride != float64(int32(stride)) {
			return nil, false
		}
		r, err := value.NewIntSequence(int32(start), int32(stride), n)
		return r, err == nil
	}
	return nil, false
}

// reuse converts the source's own storage when it is unshared and of the
// same element width as target. Only positional attributes that were
// requested survive.
func (e *Engine) reuse(v *value.Vector, target value.Kind, opts Options) (*value.Vector, bool) {
	keep := kept(v, opts)
	w, ok := v.ReuseAs(target)
	if !ok {
		return nil, false
	}
	e.report(w)
	v.ResetAttributes()
	for _, a := range keep {
		v.SetAttr(a.name, a.val)
	}
	return v, true
}

// view returns a lazily converting vector over a sequence or foreign source.
// Only conversions that cannot warn are deferred, since a view has no caller
// to report to when it is read.
func (e *Engine) view(v *value.Vector, target value.Kind) (*value.Vector, bool) {
	if !silentConversion(v.Type(), target) {
		return nil, false
	}
	switch v.Storage() {
	case value.StorageSequence, value.StorageForeign:
	default:
		return nil, false
	}
	if !v.Type().IsAtomic() {
		return nil, false
	}
	r, err := value.NewView(v, target)
	if err != nil {
		return nil, false
	}
	return r, true
}

// silentConversion reports whether every element of kind from converts to
// target without a warning.
func silentConversion(from, target value.Kind) bool {
	switch target {
	case value.KindCharacter:
		return true
	case value.KindDouble:
		switch from {
		case value.KindLogical, value.KindInteger, value.KindDouble, value.KindRaw:
			return true
		}
	}
	return false
}

// dense converts element by element through the access site for target.
func (e *Engine) dense(v *value.Vector, target value.Kind) (*value.Vector, error) {
	in, err := e.sites[target].Open(v, value.Read)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	r := value.NewVector(target, in.Len())
	out, err := value.Access(r, value.ReadWrite)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	for in.Next() && out.Next() {
		copyElement(out, in, target)
	}
	e.report(in.Warnings())
	return r, nil
}

func (e *Engine) report(w value.Warning) {
	for _, msg := range w.Messages() {
		e.logger.Warn(msg)
		if e.warn != nil {
			e.warn(w, msg)
		}
	}
}

type attr struct {
	name string
	val  value.Value
}

// kept lists the attributes of v that a coercion with opts carries over.
func kept(v *value.Vector, opts Options) []attr {
	as := v.Attributes()
	var out []attr
	for i := 0; i < as.Len(); i++ {
		name, val := as.At(i)
		switch {
		case opts.PreserveAttributes:
		case name == config.NamesAttr && opts.PreserveNames:
		case (name == config.DimAttr || name == config.DimNamesAttr) && opts.PreserveDimensions:
		default:
			continue
		}
		out = append(out, attr{name, val})
	}
	return out
}

// finish copies the kept attributes of src onto the fresh result r.
func (e *Engine) finish(src, r *value.Vector, opts Options) *value.Vector {
	for _, a := range kept(src, opts) {
		r.SetAttr(a.name, a.val)
	}
	return r
}

func newGeneric(k value.Kind, elems []value.Value) *value.Vector {
	cp := append([]value.Value(nil), elems...)
	if k == value.KindExpression {
		return value.NewExpression(cp)
	}
	return value.NewList(cp)
}

func kindOf(v value.Value) value.Kind {
	if v == nil {
		return value.KindNull
	}
	return v.Type()
}
