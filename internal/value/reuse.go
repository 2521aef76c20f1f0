package value

import (
	"unsafe"

	"github.com/funvibe/vcore/internal/na"
)

// ReuseAs converts an unshared dense vector in place to kind k when both
// kinds share one element width, which holds for logical and raw. The
// vector keeps its attributes; callers reset what the conversion drops.
// ok is false when the storage cannot be reused.
func (v *Vector) ReuseAs(k Kind) (w Warning, ok bool) {
	if v.IsShared() || v.writers > 0 || v.Storage() != StorageDense {
		return 0, false
	}
	switch {
	case v.kind == KindLogical && k == KindRaw:
		d := v.store.(denseLogical)
		for i, x := range d {
			if na.IsLogical(x) {
				d[i] = 0
				w |= WarnRawOutOfRange
			}
		}
		var b denseRaw
		if len(d) > 0 {
			b = unsafe.Slice((*byte)(unsafe.Pointer(&d[0])), len(d))
		}
		v.store = b
		v.complete = true
	case v.kind == KindRaw && k == KindLogical:
		d := v.store.(denseRaw)
		for i, x := range d {
			if x != 0 {
				d[i] = 1
			}
		}
		var l denseLogical
		if len(d) > 0 {
			l = unsafe.Slice((*int8)(unsafe.Pointer(&d[0])), len(d))
		}
		v.store = l
		v.complete = true
	default:
		return 0, false
	}
	v.kind = k
	return w, true
}
