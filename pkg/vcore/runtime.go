// Package vcore is the public entry point to the value core. An evaluator
// creates one Runtime and uses it to open access sessions, coerce values and
// compare them.
//
// Recoverable failures are returned as errors: *value.CoercionError for
// shapes that cannot be coerced, *value.UnsupportedError for writes to
// externally owned storage. Broken runtime invariants, such as a cycle in a
// cons chain or a foreign source that boxes a value twice, panic with a
// *value.InternalError. The runtime never recovers those; they belong to
// the process boundary.
package vcore

import (
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/vcore/internal/coerce"
	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/foreign"
	"github.com/funvibe/vcore/internal/identical"
	"github.com/funvibe/vcore/internal/value"
	"github.com/funvibe/vcore/internal/wire"
)

type (
	Value            = value.Value
	Kind             = value.Kind
	Vector           = value.Vector
	Session          = value.Session
	Mode             = value.Mode
	AccessSite       = value.AccessSite
	Warning          = value.Warning
	ForeignSource    = value.ForeignSource
	CoerceOptions    = coerce.Options
	IdenticalOptions = identical.Options
	Config           = config.Config
)

const (
	Read      = value.Read
	ReadWrite = value.ReadWrite
)

// WarningFunc receives the warnings raised by coercions.
type WarningFunc = coerce.WarningFunc

// Runtime bundles the configured engines. It is safe for concurrent use:
// coercion access sites are locked and comparisons use pooled comparators.
type Runtime struct {
	cfg    Config
	logger *slog.Logger
	engine *coerce.Engine
	warn   WarningFunc
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(r *Runtime) { r.cfg = c }
}

// WithWarningFunc sets the callback for coercion warnings.
func WithWarningFunc(f WarningFunc) Option {
	return func(r *Runtime) { r.warn = f }
}

// New returns a runtime with the default configuration.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	engineOpts := []coerce.Option{
		coerce.WithLogger(r.logger),
		coerce.WithCacheLimit(r.cfg.Access.CacheLimit),
	}
	if r.warn != nil {
		engineOpts = append(engineOpts, coerce.WithWarningFunc(r.warn))
	}
	r.engine = coerce.New(engineOpts...)
	return r
}

// FromConfig loads the configuration file at path, or the nearest vcore.yaml
// or vcore.toml above the working directory when path is empty. Without a
// file the defaults are used.
func FromConfig(path string, opts ...Option) (*Runtime, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = config.FindConfig(wd); err != nil {
			return nil, err
		}
	}
	if path == "" {
		return New(opts...), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithConfig(*cfg)}, opts...)...), nil
}

// Config returns the configuration in effect.
func (r *Runtime) Config() Config { return r.cfg }

// NewAccessSite returns an inline cache for one evaluator call site.
func (r *Runtime) NewAccessSite() *AccessSite {
	return value.NewAccessSite(r.cfg.Access.CacheLimit)
}

// Access opens a session on v through the accessor for its current shape.
func (r *Runtime) Access(v *Vector, mode Mode) (*Session, error) {
	return value.Access(v, mode)
}

// CoerceOptions returns the configured coercion defaults.
func (r *Runtime) CoerceOptions() CoerceOptions {
	return coerce.OptionsFromConfig(r.cfg.Coerce)
}

// Coerce converts v to a vector of kind target.
func (r *Runtime) Coerce(v Value, target Kind, opts CoerceOptions) (Value, error) {
	return r.engine.Coerce(v, target, opts)
}

// IdenticalOptions returns the configured defaults of identical().
func (r *Runtime) IdenticalOptions() IdenticalOptions {
	return identical.OptionsFromConfig(r.cfg.Identical)
}

// Identical reports whether x and y are structurally the same value.
func (r *Runtime) Identical(x, y Value, opts IdenticalOptions) bool {
	return identical.Identical(x, y, opts)
}

// ForeignVector adapts a foreign array to a read-only vector of the element
// kind its contents suggest.
func (r *Runtime) ForeignVector(src ForeignSource) (*Vector, error) {
	return foreign.Vector(src)
}

// Snapshot serialises v. Values bound to the process are rejected.
func (r *Runtime) Snapshot(w io.Writer, v Value) error {
	return wire.Encode(w, v)
}

// Restore reads a value written by Snapshot.
func (r *Runtime) Restore(rd io.Reader) (Value, error) {
	return wire.Decode(rd)
}
