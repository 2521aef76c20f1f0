package value

import (
	"math"
	"testing"

	"github.com/funvibe/vcore/internal/na"
)

func TestIntFromDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
		warn Warning
	}{
		{1.9, 1, 0},
		{-1.9, -1, 0},
		{0, 0, 0},
		{math.NaN(), na.Integer, 0},
		{na.Double, na.Integer, 0},
		{3e9, na.Integer, WarnIntegerRange},
		{math.Inf(-1), na.Integer, WarnIntegerRange},
		{2147483647.5, 2147483647, 0},
		{-2147483648, na.Integer, WarnIntegerRange},
	}
	for _, tt := range tests {
		got, warn := IntFromDouble(tt.in)
		if got != tt.want || warn != tt.warn {
			t.Errorf("IntFromDouble(%v) = %d, %v, want %d, %v", tt.in, got, warn, tt.want, tt.warn)
		}
	}
}

func TestDoubleFromString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		warn Warning
	}{
		{"12", 12, 0},
		{"  -3.5\t", -3.5, 0},
		{"1e3", 1000, 0},
		{"0x1A", 26, 0},
		{"-0x10", -16, 0},
		{"Inf", math.Inf(1), 0},
		{"-Inf", math.Inf(-1), 0},
	}
	for _, tt := range tests {
		got, warn := DoubleFromString(tt.in)
		if got != tt.want || warn != tt.warn {
			t.Errorf("DoubleFromString(%q) = %v, %v, want %v, %v", tt.in, got, warn, tt.want, tt.warn)
		}
	}

	if d, w := DoubleFromString("NA"); !na.IsDouble(d) || w != 0 {
		t.Errorf("DoubleFromString(\"NA\") = %v, %v", d, w)
	}
	if d, w := DoubleFromString("NaN"); !math.IsNaN(d) || na.IsDouble(d) || w != 0 {
		t.Errorf("DoubleFromString(\"NaN\") = %v, %v", d, w)
	}
	if d, w := DoubleFromString("abc"); !na.IsDouble(d) || w != WarnNAIntroduced {
		t.Errorf("DoubleFromString(\"abc\") = %v, %v", d, w)
	}
	if d, w := DoubleFromString(na.String); !na.IsDouble(d) || w != 0 {
		t.Errorf("DoubleFromString(NA) = %v, %v", d, w)
	}
}

func TestLogicalConversions(t *testing.T) {
	tests := []struct {
		name string
		got  int8
		want int8
	}{
		{"int 0", LogicalFromInt(0), na.False},
		{"int -3", LogicalFromInt(-3), na.True},
		{"int NA", LogicalFromInt(na.Integer), na.Logical},
		{"double NaN", LogicalFromDouble(math.NaN()), na.Logical},
		{"double 0.1", LogicalFromDouble(0.1), na.True},
		{"string T", LogicalFromString("T"), na.True},
		{"string false", LogicalFromString("false"), na.False},
		{"string yes", LogicalFromString("yes"), na.Logical},
		{"raw 0", LogicalFromRaw(0), na.False},
		{"complex i", LogicalFromComplex(complex(0, 1)), na.True},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestRawConversions(t *testing.T) {
	tests := []struct {
		in   int32
		want byte
		warn Warning
	}{
		{0, 0, 0},
		{255, 255, 0},
		{256, 0, WarnRawOutOfRange},
		{-1, 0, WarnRawOutOfRange},
		{na.Integer, 0, WarnRawOutOfRange},
	}
	for _, tt := range tests {
		got, warn := RawFromInt(tt.in)
		if got != tt.want || warn != tt.warn {
			t.Errorf("RawFromInt(%d) = %d, %v, want %d, %v", tt.in, got, warn, tt.want, tt.warn)
		}
	}
	if b, w := RawFromDouble(7.9); b != 7 || w != 0 {
		t.Errorf("RawFromDouble(7.9) = %d, %v", b, w)
	}
}

func TestComplexConversions(t *testing.T) {
	if c, w := ComplexFromString("1+2i"); c != complex(1, 2) || w != 0 {
		t.Errorf("ComplexFromString(\"1+2i\") = %v, %v", c, w)
	}
	if c, w := ComplexFromString("3"); c != complex(3, 0) || w != 0 {
		t.Errorf("ComplexFromString(\"3\") = %v, %v", c, w)
	}
	if c, w := ComplexFromString("z"); !na.IsComplex(c) || w != WarnNAIntroduced {
		t.Errorf("ComplexFromString(\"z\") = %v, %v", c, w)
	}
	if d, w := DoubleFromComplex(complex(2, 1)); d != 2 || w != WarnImaginaryDiscarded {
		t.Errorf("DoubleFromComplex(2+1i) = %v, %v", d, w)
	}
	if got := StringFromComplex(complex(1, -2)); got != "1-2i" {
		t.Errorf("StringFromComplex(1-2i) = %q", got)
	}
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{StringFromDouble(1), "1"},
		{StringFromDouble(0.1), "0.1"},
		{StringFromDouble(-2.5), "-2.5"},
		{StringFromDouble(1e20), "1e+20"},
		{StringFromDouble(math.Inf(-1)), "-Inf"},
		{StringFromDouble(math.NaN()), "NaN"},
		{StringFromInt(-7), "-7"},
		{StringFromLogical(na.True), "TRUE"},
		{StringFromRaw(0xab), "ab"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
	if !na.IsString(StringFromDouble(na.Double)) || !na.IsString(StringFromInt(na.Integer)) {
		t.Errorf("NA does not render as the character NA")
	}
}
