package raster

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// Mode describes the element type and validity semantics of every tile in
// a pyramid.
type Mode struct {
	Name      string
	DType     DType
	Bands     int
	NoData    float64 // sentinel value read as no-data when HasNoData is set
	HasNoData bool
}

// Built-in modes, named after the usual imaging library conventions.
var (
	ModeL       = Mode{Name: "L", DType: Uint8, Bands: 1}
	ModeLA      = Mode{Name: "LA", DType: Uint8, Bands: 2}
	ModeRGB     = Mode{Name: "RGB", DType: Uint8, Bands: 3}
	ModeRGBA    = Mode{Name: "RGBA", DType: Uint8, Bands: 4}
	ModeI16     = Mode{Name: "I;16", DType: Uint16, Bands: 1}
	ModeI       = Mode{Name: "I", DType: Int32, Bands: 1}
	ModeF       = Mode{Name: "F", DType: Float32, Bands: 1}
	ModeD       = Mode{Name: "D", DType: Float64, Bands: 1}
	builtinMode = map[string]Mode{
		ModeL.Name:    ModeL,
		ModeLA.Name:   ModeLA,
		ModeRGB.Name:  ModeRGB,
		ModeRGBA.Name: ModeRGBA,
		ModeI16.Name:  ModeI16,
		ModeI.Name:    ModeI,
		ModeF.Name:    ModeF,
		ModeD.Name:    ModeD,
	}
)

// knownUnsupported lists mode names that are recognised but cannot be
// averaged meaningfully.
var knownUnsupported = map[string]string{
	"1": "bilevel images cannot be merged",
	"P": "palette images cannot be merged, convert to RGB first",
}

// LookupMode resolves a mode by name.
//
// Besides the built-in names (L, LA, RGB, RGBA, I;16, I, F, D) it accepts
// "<dtype>" and "<dtype>x<bands>", e.g. "uint16x3" or "float32x4".
// Unknown names fail with UNSUPPORTED_MODE.
func LookupMode(name string) (Mode, error) {
	if m, ok := builtinMode[name]; ok {
		return m, nil
	}
	if reason, ok := knownUnsupported[name]; ok {
		return Mode{}, errors.New(errors.ErrCodeUnsupportedMode, "mode %q: %s", name, reason)
	}

	typ, bands := name, "1"
	if i := strings.LastIndex(name, "x"); i > 0 {
		typ, bands = name[:i], name[i+1:]
	}
	d, err := ParseDType(typ)
	if err != nil {
		return Mode{}, errors.New(errors.ErrCodeUnsupportedMode, "unsupported mode %q", name)
	}
	n, err := strconv.Atoi(bands)
	if err != nil {
		return Mode{}, errors.New(errors.ErrCodeUnsupportedMode, "unsupported mode %q", name)
	}
	m := Mode{Name: name, DType: d, Bands: n}
	if err := m.Validate(); err != nil {
		return Mode{}, err
	}
	return m, nil
}

// ModeNames returns the built-in mode names in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(builtinMode))
	for name := range builtinMode {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithNoData returns a copy of m that treats v as no-data.
func (m Mode) WithNoData(v float64) Mode {
	m.NoData = v
	m.HasNoData = true
	return m
}

// Validate checks that the mode can be allocated.
func (m Mode) Validate() error {
	if !m.DType.Valid() {
		return errors.New(errors.ErrCodeUnsupportedMode, "mode %q: unsupported element type", m.Name)
	}
	if m.Bands < 1 || m.Bands > MaxBands {
		return errors.New(errors.ErrCodeUnsupportedMode, "mode %q: band count %d out of range [1, %d]", m.Name, m.Bands, MaxBands)
	}
	if m.HasNoData && !m.DType.IsFloat() && m.DType.Cast(m.NoData) != m.NoData {
		return errors.New(errors.ErrCodeUnsupportedMode, "mode %q: no-data value %v not representable as %s", m.Name, m.NoData, m.DType)
	}
	return nil
}

// String returns a short description such as "RGB (uint8x3)".
func (m Mode) String() string {
	s := fmt.Sprintf("%s (%sx%d)", m.Name, m.DType, m.Bands)
	if m.HasNoData {
		s += fmt.Sprintf(" nodata=%v", m.NoData)
	}
	return s
}

// IsNoData reports whether v is the mode's no-data encoding.
func (m Mode) IsNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return m.HasNoData && v == m.NoData
}

// NewBuffer allocates a size x size buffer of this mode with every sample
// set to no-data.
func (m Mode) NewBuffer(size int) (*Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeShape, "buffer size must be positive (got %d)", size)
	}
	return NewBuffer(size, m.Bands, m.DType), nil
}

// Matches reports whether b has this mode's element type and band count.
func (m Mode) Matches(b *Buffer) bool {
	return b != nil && b.DType == m.DType && b.Bands == m.Bands
}

// Apply clears the validity bit of every sample equal to the no-data
// encoding. Already invalid samples stay invalid.
func (m Mode) Apply(b *Buffer) {
	for i, v := range b.Samples {
		if m.IsNoData(v) {
			b.Valid[i] = false
		}
	}
}

// Encode returns the value to store for sample i of b, substituting the
// no-data encoding for invalid samples.
func (m Mode) Encode(b *Buffer, i int) float64 {
	if b.Valid[i] {
		return b.Samples[i]
	}
	if m.HasNoData {
		return m.NoData
	}
	if m.DType.IsFloat() {
		return math.NaN()
	}
	return 0
}
