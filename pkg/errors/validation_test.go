package errors

import (
	"strings"
	"testing"
)

func TestValidateDepth(t *testing.T) {
	tests := []struct {
		depth   int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxDepth, false},
		{-1, true},
		{MaxDepth + 1, true},
	}

	for _, tt := range tests {
		err := ValidateDepth(tt.depth)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDepth(%d) error = %v, wantErr %v", tt.depth, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateDepth(%d) code = %v, want %v", tt.depth, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidateKeyPrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "ortho:", false},
		{"nested", "tenant:42:pyramid:", false},

		{"too long", strings.Repeat("a", 129), true},
		{"space", "my prefix", true},
		{"newline", "pre\nfix", true},
		{"glob star", "pre*", true},
		{"glob bracket", "pre[1]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyPrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKeyPrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDirectory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute", "/var/lib/tiles", false},
		{"relative", "tiles/ortho", false},

		{"empty", "", true},
		{"null byte", "tiles\x00", true},
		{"control char", "til\x01es", true},
		{"too long", strings.Repeat("a", 4097), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDirectory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirectory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
