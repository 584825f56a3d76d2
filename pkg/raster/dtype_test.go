package raster

import (
	"math"
	"testing"
)

func TestDTypeCast(t *testing.T) {
	tests := []struct {
		dtype DType
		in    float64
		want  float64
	}{
		{Uint8, 12.4, 12},
		{Uint8, 12.5, 13},
		{Uint8, -3, 0},
		{Uint8, 300, 255},
		{Uint8, math.NaN(), 0},
		{Uint16, 70000, 65535},
		{Int16, -40000, -32768},
		{Int16, -2.5, -3},
		{Int32, 1e12, math.MaxInt32},
		{Float32, 0.1, float64(float32(0.1))},
		{Float64, 0.1, 0.1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Cast(tt.in); got != tt.want {
			t.Errorf("%s.Cast(%v) = %v, want %v", tt.dtype, tt.in, got, tt.want)
		}
	}
}

func TestParseDType(t *testing.T) {
	for d, name := range dtypeNames {
		got, err := ParseDType(name)
		if err != nil {
			t.Fatalf("ParseDType(%q) error: %v", name, err)
		}
		if got != d {
			t.Errorf("ParseDType(%q) = %v, want %v", name, got, d)
		}
	}

	if _, err := ParseDType("complex128"); err == nil {
		t.Error("ParseDType(complex128) should fail")
	}
}

func TestDTypeSize(t *testing.T) {
	want := map[DType]int{Uint8: 1, Uint16: 2, Int16: 2, Int32: 4, Float32: 4, Float64: 8, Invalid: 0}
	for d, size := range want {
		if got := d.Size(); got != size {
			t.Errorf("%s.Size() = %d, want %d", d, got, size)
		}
	}
}
