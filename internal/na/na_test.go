package na

import (
	"math"
	"testing"
	"unicode/utf8"
)

func TestDoubleSentinel(t *testing.T) {
	if !math.IsNaN(Double) {
		t.Fatalf("Double NA must be a NaN")
	}
	if !IsDouble(Double) {
		t.Errorf("IsDouble(Double) = false, want true")
	}
	if IsDouble(math.NaN()) {
		t.Errorf("IsDouble(NaN) = true, want false")
	}
	if quiet := math.Float64frombits(0x7FF80000000007A2); !IsDouble(quiet) {
		t.Errorf("IsDouble(quiet NA) = false, want true")
	}
	if IsDouble(1.5) {
		t.Errorf("IsDouble(1.5) = true, want false")
	}
	if !IsDoubleOrNaN(math.NaN()) {
		t.Errorf("IsDoubleOrNaN(NaN) = false, want true")
	}
}

func TestStringSentinelIsNotText(t *testing.T) {
	if utf8.ValidString(String) {
		t.Errorf("String NA must not be valid UTF-8")
	}
	if IsString("NA") {
		t.Errorf(`IsString("NA") = true, want false`)
	}
}

func TestComplexSentinel(t *testing.T) {
	if !IsComplex(Complex) {
		t.Errorf("IsComplex(Complex) = false")
	}
	if !IsComplex(complex(1, Double)) {
		t.Errorf("NA imaginary part must count as NA")
	}
	if IsComplex(complex(1, math.NaN())) {
		t.Errorf("NaN imaginary part is not NA")
	}
	if !IsComplexOrNaN(complex(1, math.NaN())) {
		t.Errorf("IsComplexOrNaN with NaN part = false")
	}
}

func TestCheck(t *testing.T) {
	var c Check
	if !c.NeverSeenNA() || !c.NeverSeenNAOrNaN() {
		t.Fatalf("zero Check must have seen nothing")
	}
	c.Integer(4)
	c.Double(2.5)
	c.String("x")
	if !c.NeverSeenNA() {
		t.Errorf("non-NA values flipped the accumulator")
	}
	c.Double(math.NaN())
	if !c.NeverSeenNA() {
		t.Errorf("NaN must not count as NA")
	}
	if c.NeverSeenNAOrNaN() {
		t.Errorf("NaN must be tracked by NeverSeenNAOrNaN")
	}
	if !c.Integer(Integer) {
		t.Errorf("Integer(NA) = false")
	}
	if c.NeverSeenNA() {
		t.Errorf("NA not recorded")
	}
	c.Reset()
	if !c.NeverSeenNA() {
		t.Errorf("Reset did not clear")
	}
	if !c.Logical(Logical) || c.NeverSeenNA() {
		t.Errorf("Logical NA not recorded")
	}
}
