// Package na defines the missing-value sentinels of every element kind and
// the accumulator used to track completeness over a bulk operation.
package na

import (
	"math"
)

// Logical values are stored as int8.
const (
	False   int8 = 0
	True    int8 = 1
	Logical int8 = math.MinInt8
)

// Integer is the missing sentinel of integer vectors. It lies outside the
// representable range of integer elements, which is [-MaxInt32, MaxInt32].
const Integer int32 = math.MinInt32

// doubleBits is the bit pattern of the double NA: a NaN whose low word
// carries the payload 1954.
const (
	doubleBits    uint64 = 0x7FF00000000007A2
	doublePayload uint32 = 1954
)

// Double is the missing sentinel of double vectors.
var Double = math.Float64frombits(doubleBits)

// Complex is the missing sentinel of complex vectors.
var Complex = complex(Double, Double)

// String is the missing sentinel of character vectors. Character storage
// keeps plain Go strings, so the sentinel is a byte sequence that is not
// valid UTF-8 and cannot be produced by decoding text.
const String = "\xff\xfe\x00NA\x00\xfe\xff"

// IsLogical reports whether v is the logical NA.
func IsLogical(v int8) bool { return v == Logical }

// IsInteger reports whether v is the integer NA.
func IsInteger(v int32) bool { return v == Integer }

// IsDouble reports whether v is the double NA (and not any other NaN).
func IsDouble(v float64) bool {
	return math.IsNaN(v) && uint32(math.Float64bits(v)) == doublePayload
}

// IsDoubleOrNaN reports whether v is NA or any NaN.
func IsDoubleOrNaN(v float64) bool { return math.IsNaN(v) }

// IsComplex reports whether either part of v is NA.
func IsComplex(v complex128) bool { return IsDouble(real(v)) || IsDouble(imag(v)) }

// IsComplexOrNaN reports whether either part of v is NaN.
func IsComplexOrNaN(v complex128) bool { return math.IsNaN(real(v)) || math.IsNaN(imag(v)) }

// IsString reports whether v is the character NA.
func IsString(v string) bool { return v == String }

// Check accumulates whether any missing value was observed. The zero value is
// ready to use and has seen nothing.
type Check struct {
	seenNA  bool
	seenNaN bool
}

// Logical records v and reports whether it is NA.
func (c *Check) Logical(v int8) bool {
	if v == Logical {
		c.seenNA = true
		return true
	}
	return false
}

// Integer records v and reports whether it is NA.
func (c *Check) Integer(v int32) bool {
	if v == Integer {
		c.seenNA = true
		return true
	}
	return false
}

// Double records v and reports whether it is NA or NaN. Plain NaN does not
// make a vector incomplete but is tracked separately.
func (c *Check) Double(v float64) bool {
	if !math.IsNaN(v) {
		return false
	}
	if IsDouble(v) {
		c.seenNA = true
	} else {
		c.seenNaN = true
	}
	return true
}

// Complex records v and reports whether it is NA or NaN in either part.
func (c *Check) Complex(v complex128) bool {
	re := c.Double(real(v))
	im := c.Double(imag(v))
	return re || im
}

// String records v and reports whether it is NA.
func (c *Check) String(v string) bool {
	if v == String {
		c.seenNA = true
		return true
	}
	return false
}

// SeenNA forces the accumulator into the "seen" state. Used when a conversion
// produces NA from a non-NA input.
func (c *Check) SeenNA() { c.seenNA = true }

// NeverSeenNA reports whether no NA was recorded.
func (c *Check) NeverSeenNA() bool { return !c.seenNA }

// NeverSeenNAOrNaN reports whether neither NA nor NaN was recorded.
func (c *Check) NeverSeenNAOrNaN() bool { return !c.seenNA && !c.seenNaN }

// Reset clears the accumulator.
func (c *Check) Reset() { *c = Check{} }
