package value

import (
	"sync"
)

// genericAccess serves every vector of one kind by dispatching each read
// through the store's element reader.
type genericAccess struct {
	kind Kind
}

var genericAccessors [KindExpression + 1]*genericAccess

func init() {
	for k := KindLogical; k <= KindExpression; k++ {
		genericAccessors[k] = &genericAccess{kind: k}
	}
}

// GenericAccessor returns the generic accessor for vectors of kind k.
func GenericAccessor(k Kind) Accessor {
	if !k.IsVector() {
		Fail(PanicUnsupportedAccess, "no accessor for %s values", k)
	}
	return genericAccessors[k]
}

func (a *genericAccess) Generic() bool { return true }

func (a *genericAccess) Supports(v *Vector) bool { return v.kind == a.kind }

func (a *genericAccess) Open(v *Vector, mode Mode) (*Session, error) {
	if v.kind != a.kind {
		Fail(PanicUnsupportedAccess, "%s accessor opened on %s vector", a.kind, v.kind)
	}
	s, err := openSession(v, mode, true)
	if err != nil {
		return nil, err
	}
	st := v.store
	ok := true
	switch a.kind {
	case KindLogical:
		s.lr, ok = st.(logicalReader)
	case KindInteger:
		s.ir, ok = st.(integerReader)
	case KindDouble:
		s.dr, ok = st.(doubleReader)
	case KindComplex:
		s.cr, ok = st.(complexReader)
	case KindCharacter:
		s.sr, ok = st.(stringReader)
	case KindRaw:
		s.rr, ok = st.(rawReader)
	case KindList, KindExpression:
		s.er, ok = st.(elemReader)
	}
	if !ok {
		Fail(PanicUnreachable, "%T cannot serve %s elements", st, a.kind)
	}
	return s, nil
}

// AccessSite is an inline cache for one call site. It hands out specialised
// accessors for the shapes it has seen and switches to the generic path for
// good once more than limit distinct shapes have appeared.
type AccessSite struct {
	mu      sync.Mutex
	limit   int
	cached  []Accessor
	generic bool
}

// NewAccessSite returns a site that keeps at most limit specialised
// accessors. A limit of zero makes the site generic from the start.
func NewAccessSite(limit int) *AccessSite {
	return &AccessSite{limit: limit, generic: limit <= 0}
}

// Open opens a session on v through the cached accessor for its shape.
func (a *AccessSite) Open(v *Vector, mode Mode) (*Session, error) {
	return a.Accessor(v).Open(v, mode)
}

// Accessor selects the accessor that serves v at this site.
func (a *AccessSite) Accessor(v *Vector) Accessor {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generic {
		return GenericAccessor(v.kind)
	}
	for _, c := range a.cached {
		if c.Supports(v) {
			return c
		}
	}
	acc, ok := SpecializedAccessor(v)
	if !ok {
		return GenericAccessor(v.kind)
	}
	if len(a.cached) >= a.limit {
		a.generic = true
		a.cached = nil
		return GenericAccessor(v.kind)
	}
	a.cached = append(a.cached, acc)
	return acc
}

// IsGeneric reports whether the site has given up on specialisation.
func (a *AccessSite) IsGeneric() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generic
}

// Cached returns the number of specialised accessors held.
func (a *AccessSite) Cached() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cached)
}
