package value

// Attributes is an insertion-ordered mapping from attribute name to value.
// A nil *Attributes is a valid empty set for every read method.
type Attributes struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{index: make(map[string]int)}
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Get returns the attribute stored under name.
func (a *Attributes) Get(name string) (Value, bool) {
	if a == nil {
		return nil, false
	}
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.vals[i], true
}

// Has reports whether name is present.
func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Set stores v under name. An existing attribute keeps its position.
func (a *Attributes) Set(name string, v Value) {
	if i, ok := a.index[name]; ok {
		a.vals[i] = v
		return
	}
	a.index[name] = len(a.keys)
	a.keys = append(a.keys, name)
	a.vals = append(a.vals, v)
}

// Delete removes name, keeping the order of the remaining attributes.
func (a *Attributes) Delete(name string) bool {
	if a == nil {
		return false
	}
	i, ok := a.index[name]
	if !ok {
		return false
	}
	a.keys = append(a.keys[:i], a.keys[i+1:]...)
	a.vals = append(a.vals[:i], a.vals[i+1:]...)
	delete(a.index, name)
	for j := i; j < len(a.keys); j++ {
		a.index[a.keys[j]] = j
	}
	return true
}

// At returns the i-th attribute in insertion order.
func (a *Attributes) At(i int) (string, Value) {
	return a.keys[i], a.vals[i]
}

// Keys returns the attribute names in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Copy returns an independent attribute set with the same entries. Values
// are shared and marked as such.
func (a *Attributes) Copy() *Attributes {
	if a == nil {
		return nil
	}
	c := &Attributes{
		keys:  append([]string(nil), a.keys...),
		vals:  append([]Value(nil), a.vals...),
		index: make(map[string]int, len(a.keys)),
	}
	for i, k := range c.keys {
		c.index[k] = i
		MarkShared(c.vals[i])
	}
	return c
}

// Attributable is implemented by values that carry attributes.
type Attributable interface {
	Value
	Attributes() *Attributes
}
