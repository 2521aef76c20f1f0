package value

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"github.com/funvibe/vcore/internal/na"
)

// intSeq represents start, start+stride, ... without storing elements.
// Construction guarantees no element overflows or equals the integer NA.
type intSeq struct {
	start  int32
	stride int32
}

func (*intSeq) storage() StorageKind { return StorageSequence }

func (s *intSeq) integerAt(i int) int32 {
	return s.start + int32(i)*s.stride
}

// doubleSeq is the double counterpart of intSeq. Start and stride are
// finite, so no element can be NA.
type doubleSeq struct {
	start  float64
	stride float64
}

func (*doubleSeq) storage() StorageKind { return StorageSequence }

func (s *doubleSeq) doubleAt(i int) float64 {
	return s.start + float64(i)*s.stride
}

// NewIntSequence returns the integer vector start, start+stride, ... of
// length n.
func NewIntSequence(start, stride int32, n int) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("sequence length %d is negative", n)
	}
	if start == na.Integer || stride == na.Integer {
		return nil, fmt.Errorf("sequence start and stride must not be NA")
	}
	if n > 0 {
		steps, err := safecast.Conv[int32](n - 1)
		if err != nil {
			return nil, fmt.Errorf("sequence length %d: %w", n, err)
		}
		last := int64(start) + int64(steps)*int64(stride)
		if last > math.MaxInt32 || last <= math.MinInt32 {
			return nil, fmt.Errorf("sequence %d by %d of length %d overflows the integer range", start, stride, n)
		}
	}
	return newVector(KindInteger, &intSeq{start: start, stride: stride}, n, true), nil
}

// NewDoubleSequence returns the double vector start, start+stride, ... of
// length n.
func NewDoubleSequence(start, stride float64, n int) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("sequence length %d is negative", n)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(stride) || math.IsInf(stride, 0) {
		return nil, fmt.Errorf("sequence start and stride must be finite")
	}
	return newVector(KindDouble, &doubleSeq{start: start, stride: stride}, n, true), nil
}

// Colon returns from:to as an integer sequence, stepping by -1 when to is
// below from.
func Colon(from, to int32) *Vector {
	stride := int32(1)
	n := int64(to) - int64(from) + 1
	if to < from {
		stride = -1
		n = int64(from) - int64(to) + 1
	}
	v, err := NewIntSequence(from, stride, int(n))
	if err != nil {
		Fail(PanicUnreachable, "colon %d:%d: %v", from, to, err)
	}
	return v
}

// SequenceParams returns the start and stride of a sequence-backed vector.
// ok is false for every other storage.
func (v *Vector) SequenceParams() (start, stride float64, ok bool) {
	switch s := v.store.(type) {
	case *intSeq:
		return float64(s.start), float64(s.stride), true
	case *doubleSeq:
		return s.start, s.stride, true
	}
	return 0, 0, false
}
