package raster

import (
	"math"
	"testing"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

func TestLookupMode(t *testing.T) {
	tests := []struct {
		name      string
		wantDType DType
		wantBands int
		wantErr   bool
	}{
		{"L", Uint8, 1, false},
		{"RGB", Uint8, 3, false},
		{"RGBA", Uint8, 4, false},
		{"I;16", Uint16, 1, false},
		{"F", Float32, 1, false},
		{"uint16x3", Uint16, 3, false},
		{"float32", Float32, 1, false},
		{"int16x2", Int16, 2, false},

		{"P", Invalid, 0, true},
		{"1", Invalid, 0, true},
		{"CMYKX", Invalid, 0, true},
		{"uint8x0", Invalid, 0, true},
		{"uint8xabc", Invalid, 0, true},
		{"", Invalid, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LookupMode(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LookupMode(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeUnsupportedMode) {
					t.Errorf("LookupMode(%q) code = %v, want %v", tt.name, errors.GetCode(err), errors.ErrCodeUnsupportedMode)
				}
				return
			}
			if m.DType != tt.wantDType || m.Bands != tt.wantBands {
				t.Errorf("LookupMode(%q) = %sx%d, want %sx%d", tt.name, m.DType, m.Bands, tt.wantDType, tt.wantBands)
			}
		})
	}
}

func TestModeNames(t *testing.T) {
	names := ModeNames()
	if len(names) != len(builtinMode) {
		t.Fatalf("ModeNames() returned %d names, want %d", len(names), len(builtinMode))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("ModeNames() not sorted: %v", names)
		}
	}
}

func TestModeValidateNoData(t *testing.T) {
	if err := ModeL.WithNoData(0).Validate(); err != nil {
		t.Errorf("nodata 0 for L should be valid: %v", err)
	}
	if err := ModeL.WithNoData(-1).Validate(); err == nil {
		t.Error("nodata -1 for uint8 should be rejected")
	}
	if err := ModeL.WithNoData(1.5).Validate(); err == nil {
		t.Error("nodata 1.5 for uint8 should be rejected")
	}
	if err := ModeF.WithNoData(-9999.5).Validate(); err != nil {
		t.Errorf("fractional nodata for float mode should be valid: %v", err)
	}
}

func TestModeNewBuffer(t *testing.T) {
	b, err := ModeRGB.NewBuffer(TileSize)
	if err != nil {
		t.Fatalf("NewBuffer error: %v", err)
	}
	if b.Len() != TileSize*TileSize*3 {
		t.Errorf("Len() = %d, want %d", b.Len(), TileSize*TileSize*3)
	}
	if !b.Empty() {
		t.Error("new buffer should be all no-data")
	}

	if _, err := (Mode{Name: "bad", Bands: 1}).NewBuffer(TileSize); !errors.Is(err, errors.ErrCodeUnsupportedMode) {
		t.Errorf("NewBuffer with invalid dtype: got %v, want UNSUPPORTED_MODE", err)
	}
	if _, err := ModeL.NewBuffer(0); !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("NewBuffer(0): got %v, want SHAPE_MISMATCH", err)
	}
}

func TestModeApply(t *testing.T) {
	m := ModeI16.WithNoData(65535)
	b := NewBuffer(2, 1, Uint16)
	b.Fill(10)
	b.Samples[1] = 65535
	b.Samples[2] = math.NaN()

	m.Apply(b)

	want := []bool{true, false, false, true}
	for i, ok := range want {
		if b.Valid[i] != ok {
			t.Errorf("Valid[%d] = %v, want %v", i, b.Valid[i], ok)
		}
	}
}

func TestModeEncode(t *testing.T) {
	b := NewBuffer(1, 1, Uint8)

	if got := ModeL.Encode(b, 0); got != 0 {
		t.Errorf("Encode without nodata = %v, want 0", got)
	}
	if got := ModeL.WithNoData(255).Encode(b, 0); got != 255 {
		t.Errorf("Encode with nodata = %v, want 255", got)
	}

	f := NewBuffer(1, 1, Float32)
	if got := ModeF.Encode(f, 0); !math.IsNaN(got) {
		t.Errorf("Encode float without nodata = %v, want NaN", got)
	}

	b.Set(0, 0, 0, 42)
	if got := ModeL.WithNoData(255).Encode(b, 0); got != 42 {
		t.Errorf("Encode valid = %v, want 42", got)
	}
}
