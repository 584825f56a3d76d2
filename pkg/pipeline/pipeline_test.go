package pipeline

import (
	"testing"
	"time"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Store: "mem://", StartDepth: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if opts.Mode != DefaultMode {
		t.Errorf("Mode = %q, want %q", opts.Mode, DefaultMode)
	}
	if opts.Merger != DefaultMerger {
		t.Errorf("Merger = %q, want %q", opts.Merger, DefaultMerger)
	}
	if opts.RetryAttempts != DefaultRetryAttempts || opts.RetryDelay != DefaultRetryDelay {
		t.Errorf("retry policy = (%d, %v), want defaults", opts.RetryAttempts, opts.RetryDelay)
	}

	// Idempotent
	opts.Mode = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing store", Options{}, errors.ErrCodeInvalidConfig},
		{"negative depth", Options{Store: "mem://", StartDepth: -1}, errors.ErrCodeInvalidInput},
		{"too deep", Options{Store: "mem://", StartDepth: errors.MaxDepth + 1}, errors.ErrCodeInvalidInput},
		{"unknown mode", Options{Store: "mem://", Mode: "CMYK"}, errors.ErrCodeUnsupportedMode},
		{"palette mode", Options{Store: "mem://", Mode: "P"}, errors.ErrCodeUnsupportedMode},
		{"unknown merger", Options{Store: "mem://", Merger: "median"}, errors.ErrCodeInvalidInput},
		{"negative retries", Options{Store: "mem://", RetryAttempts: -1}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestResolveMode(t *testing.T) {
	nodata := 0.0
	opts := Options{Mode: "I;16", NoData: &nodata}

	mode, err := opts.ResolveMode()
	if err != nil {
		t.Fatal(err)
	}
	if mode.DType != raster.Uint16 || mode.Bands != 1 {
		t.Errorf("mode = %s, want uint16x1", mode)
	}
	if !mode.HasNoData || mode.NoData != 0 {
		t.Errorf("no-data override not applied: %s", mode)
	}

	bad := -1.0
	opts = Options{Mode: "L", NoData: &bad}
	if _, err := opts.ResolveMode(); !errors.Is(err, errors.ErrCodeUnsupportedMode) {
		t.Errorf("unrepresentable no-data = %v, want UNSUPPORTED_MODE", err)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
store = "redis://localhost:6379/0?prefix=ortho:"
mode = "RGB"
depth = 12
merger = "max"
nodata = 0
retry = true
retry_attempts = 5
retry_delay = "250ms"
`)
	opts, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}

	if opts.Store != "redis://localhost:6379/0?prefix=ortho:" {
		t.Errorf("Store = %q", opts.Store)
	}
	if opts.Mode != "RGB" || opts.StartDepth != 12 || opts.Merger != "max" {
		t.Errorf("opts = %s", opts)
	}
	if opts.NoData == nil || *opts.NoData != 0 {
		t.Errorf("NoData = %v, want 0", opts.NoData)
	}
	if !opts.Retry || opts.RetryAttempts != 5 || opts.RetryDelay != 250*time.Millisecond {
		t.Errorf("retry = (%v, %d, %v)", opts.Retry, opts.RetryAttempts, opts.RetryDelay)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":      `store = `,
		"unknown key": "store = \"mem://\"\nstart_depth = 3\n",
		"wrong type":  `depth = "twelve"`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(data)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ParseConfig error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
