package value

import (
	"math"
	"math/cmplx"
	"slices"
	"strconv"
	"strings"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
)

// Warning is a set of coercion warnings raised while converting elements.
type Warning uint8

const (
	WarnNAIntroduced Warning = 1 << iota
	WarnImaginaryDiscarded
	WarnRawOutOfRange
	WarnIntegerRange
)

// Messages returns the text of every warning in w.
func (w Warning) Messages() []string {
	var out []string
	if w&WarnNAIntroduced != 0 {
		out = append(out, config.WarnNAIntroduced)
	}
	if w&WarnImaginaryDiscarded != 0 {
		out = append(out, config.WarnImaginaryDropped)
	}
	if w&WarnRawOutOfRange != 0 {
		out = append(out, config.WarnRawOutOfRange)
	}
	if w&WarnIntegerRange != 0 {
		out = append(out, config.WarnIntegerOverflowNA)
	}
	return out
}

// Integer narrowing bounds; the integer NA sits just below the lower bound.
const (
	maxIntElement = math.MaxInt32
	minIntElement = -math.MaxInt32
)

// IntFromDouble truncates d toward zero. NaN becomes NA silently, finite
// values outside the integer range become NA with a warning.
func IntFromDouble(d float64) (int32, Warning) {
	if math.IsNaN(d) {
		return na.Integer, 0
	}
	t := math.Trunc(d)
	if t > maxIntElement || t < minIntElement {
		return na.Integer, WarnIntegerRange
	}
	return int32(t), 0
}

// IntFromLogical widens a logical element.
func IntFromLogical(l int8) int32 {
	if na.IsLogical(l) {
		return na.Integer
	}
	return int32(l)
}

// IntFromComplex drops the imaginary part, warning when it is non-zero.
func IntFromComplex(c complex128) (int32, Warning) {
	if na.IsComplex(c) {
		return na.Integer, 0
	}
	var w Warning
	if imag(c) != 0 {
		w |= WarnImaginaryDiscarded
	}
	r, w2 := IntFromDouble(real(c))
	return r, w | w2
}

// IntFromString parses s as a number and truncates it.
func IntFromString(s string) (int32, Warning) {
	if na.IsString(s) {
		return na.Integer, 0
	}
	d, w := DoubleFromString(s)
	if w != 0 {
		return na.Integer, w
	}
	if math.IsNaN(d) {
		return na.Integer, 0
	}
	return IntFromDouble(d)
}

// DoubleFromInt widens an integer element.
func DoubleFromInt(i int32) float64 {
	if na.IsInteger(i) {
		return na.Double
	}
	return float64(i)
}

// DoubleFromLogical widens a logical element.
func DoubleFromLogical(l int8) float64 {
	if na.IsLogical(l) {
		return na.Double
	}
	return float64(l)
}

// DoubleFromComplex drops the imaginary part, warning when it is non-zero.
func DoubleFromComplex(c complex128) (float64, Warning) {
	if na.IsComplex(c) {
		return na.Double, 0
	}
	if imag(c) != 0 {
		return real(c), WarnImaginaryDiscarded
	}
	return real(c), 0
}

// DoubleFromString parses decimal, exponent and hexadecimal notation plus
// Inf, -Inf, NaN and NA. Leading and trailing blanks are ignored. Anything
// else is NA with a warning.
func DoubleFromString(s string) (float64, Warning) {
	if na.IsString(s) {
		return na.Double, 0
	}
	t := strings.TrimSpace(s)
	switch t {
	case "NA":
		return na.Double, 0
	case "NaN":
		return math.NaN(), 0
	case "Inf", "+Inf", "inf":
		return math.Inf(1), 0
	case "-Inf", "-inf":
		return math.Inf(-1), 0
	}
	if d, ok := parseHex(t); ok {
		return d, 0
	}
	d, err := strconv.ParseFloat(t, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return d, 0
		}
		return na.Double, WarnNAIntroduced
	}
	return d, 0
}

func parseHex(t string) (float64, bool) {
	neg := false
	body := t
	if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	} else if strings.HasPrefix(body, "+") {
		body = body[1:]
	}
	if !strings.HasPrefix(body, "0x") && !strings.HasPrefix(body, "0X") {
		return 0, false
	}
	if strings.ContainsAny(body, "pP.") {
		d, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return 0, false
		}
		if neg {
			d = -d
		}
		return d, true
	}
	u, err := strconv.ParseUint(body[2:], 16, 64)
	if err != nil {
		return 0, false
	}
	d := float64(u)
	if neg {
		d = -d
	}
	return d, true
}

// LogicalFromInt maps 0 to FALSE and every other non-NA value to TRUE.
func LogicalFromInt(i int32) int8 {
	if na.IsInteger(i) {
		return na.Logical
	}
	return FromBool(i != 0)
}

// LogicalFromDouble maps NaN and NA to NA.
func LogicalFromDouble(d float64) int8 {
	if math.IsNaN(d) {
		return na.Logical
	}
	return FromBool(d != 0)
}

// LogicalFromComplex is TRUE for any non-zero part.
func LogicalFromComplex(c complex128) int8 {
	if na.IsComplexOrNaN(c) {
		return na.Logical
	}
	return FromBool(c != 0)
}

// LogicalFromString recognises the spellings in config.TrueStrings and
// config.FalseStrings; everything else is NA without a warning.
func LogicalFromString(s string) int8 {
	switch {
	case slices.Contains(config.TrueStrings, s):
		return na.True
	case slices.Contains(config.FalseStrings, s):
		return na.False
	}
	return na.Logical
}

// LogicalFromRaw is TRUE for any non-zero byte.
func LogicalFromRaw(b byte) int8 { return FromBool(b != 0) }

// ComplexFromDouble widens d, keeping NA in the real part.
func ComplexFromDouble(d float64) complex128 {
	if na.IsDouble(d) {
		return na.Complex
	}
	return complex(d, 0)
}

// ComplexFromString parses "a", "bi" or "a+bi" forms.
func ComplexFromString(s string) (complex128, Warning) {
	if na.IsString(s) {
		return na.Complex, 0
	}
	t := strings.TrimSpace(s)
	if t == "NA" {
		return na.Complex, 0
	}
	if d, w := DoubleFromString(t); w == 0 {
		return ComplexFromDouble(d), 0
	}
	c, err := strconv.ParseComplex(t, 128)
	if err != nil {
		return na.Complex, WarnNAIntroduced
	}
	return c, 0
}

// RawFromInt keeps values in [0, 255]; anything else, NA included, is 0
// with a warning.
func RawFromInt(i int32) (byte, Warning) {
	if na.IsInteger(i) || i < 0 || i > 255 {
		return 0, WarnRawOutOfRange
	}
	return byte(i), 0
}

// RawFromDouble truncates then applies RawFromInt.
func RawFromDouble(d float64) (byte, Warning) {
	i, w := IntFromDouble(d)
	if w != 0 {
		return 0, WarnRawOutOfRange
	}
	return RawFromInt(i)
}

// StringFromLogical renders TRUE, FALSE or NA.
func StringFromLogical(l int8) string {
	switch l {
	case na.True:
		return "TRUE"
	case na.False:
		return "FALSE"
	}
	return na.String
}

// StringFromInt renders an integer element.
func StringFromInt(i int32) string {
	if na.IsInteger(i) {
		return na.String
	}
	return strconv.FormatInt(int64(i), 10)
}

// StringFromDouble renders with up to 15 significant digits.
func StringFromDouble(d float64) string {
	switch {
	case na.IsDouble(d):
		return na.String
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Inf"
	case math.IsInf(d, -1):
		return "-Inf"
	}
	if d == math.Trunc(d) && math.Abs(d) < 1e15 {
		return strconv.FormatFloat(d, 'f', -1, 64)
	}
	return strconv.FormatFloat(d, 'g', 15, 64)
}

// StringFromComplex renders "a+bi".
func StringFromComplex(c complex128) string {
	if na.IsComplex(c) {
		return na.String
	}
	if cmplx.IsNaN(c) && math.IsNaN(real(c)) && math.IsNaN(imag(c)) {
		return "NaN+NaNi"
	}
	re := StringFromDouble(real(c))
	im := imag(c)
	sign := "+"
	if im < 0 || math.Signbit(im) {
		sign = "-"
		im = -im
	}
	return re + sign + StringFromDouble(im) + "i"
}

// StringFromRaw renders two lowercase hex digits.
func StringFromRaw(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}
