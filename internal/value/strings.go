package value

import (
	"sync/atomic"

	"github.com/funvibe/vcore/internal/na"
)

// CharSXP is a boxed string cell. Character vectors handed to code that
// needs stable per-element handles hold these instead of plain strings.
type CharSXP struct {
	contents string
}

// NACharSXP is the unique cell for the character NA.
var NACharSXP = &CharSXP{contents: na.String}

// NewCharSXP wraps s, returning NACharSXP for the NA string.
func NewCharSXP(s string) *CharSXP {
	if na.IsString(s) {
		return NACharSXP
	}
	return &CharSXP{contents: s}
}

// Contents returns the wrapped string.
func (c *CharSXP) Contents() string { return c.contents }

type wrappedString []*CharSXP

func (wrappedString) storage() StorageKind { return StorageDense }

func (s wrappedString) stringAt(i int) string { return s[i].contents }

// noWrappedStrings is true until some vector switches to wrapped storage.
// Bulk operations consult it once when a session opens, never per element.
var noWrappedStrings atomic.Bool

func init() {
	noWrappedStrings.Store(true)
}

// NoWrappedStrings reports whether any character vector in the process has
// ever used wrapped storage.
func NoWrappedStrings() bool { return noWrappedStrings.Load() }

// WrapStrings converts a character vector to wrapped storage. The flag
// downgrade happens before the storage switch so no session can observe
// wrapped storage while the flag still claims there is none.
func (v *Vector) WrapStrings() error {
	if v.kind != KindCharacter {
		return &UnsupportedError{Op: "wrap strings", Kind: v.kind}
	}
	w, err := v.Mutable()
	if err != nil {
		return err
	}
	if w != v {
		return &UnsupportedError{Op: "wrap strings", Kind: v.kind, Reason: "vector is shared"}
	}
	plain, ok := v.store.(denseString)
	if !ok {
		return nil
	}
	cells := make(wrappedString, len(plain))
	for i, s := range plain {
		cells[i] = NewCharSXP(s)
	}
	noWrappedStrings.Store(false)
	v.store = cells
	return nil
}

// IsWrapped reports whether v holds wrapped string cells.
func (v *Vector) IsWrapped() bool {
	_, ok := v.store.(wrappedString)
	return ok
}

// CharSXPAt returns the cell at i of a wrapped character vector.
func (v *Vector) CharSXPAt(i int) *CharSXP {
	w, ok := v.store.(wrappedString)
	if !ok {
		Fail(PanicUnsupportedAccess, "CharSXPAt on unwrapped %s storage", v.kind)
	}
	return w[i]
}
