package raster

import (
	"math"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// Buffer is a square, multi-band sample array with a validity mask.
// Samples are laid out row-major as (y, x, band).
type Buffer struct {
	Size    int
	Bands   int
	DType   DType
	Samples []float64
	Valid   []bool
}

// NewBuffer allocates a size x size buffer with every sample set to no-data.
func NewBuffer(size, bands int, dtype DType) *Buffer {
	n := size * size * bands
	return &Buffer{
		Size:    size,
		Bands:   bands,
		DType:   dtype,
		Samples: make([]float64, n),
		Valid:   make([]bool, n),
	}
}

// Len returns the total number of samples.
func (b *Buffer) Len() int {
	return len(b.Samples)
}

// Index returns the offset of sample (x, y, band).
func (b *Buffer) Index(x, y, band int) int {
	return (y*b.Size+x)*b.Bands + band
}

// At returns the sample at (x, y, band) and whether it holds data.
func (b *Buffer) At(x, y, band int) (float64, bool) {
	i := b.Index(x, y, band)
	return b.Samples[i], b.Valid[i]
}

// IsValid reports whether (x, y, band) holds data.
func (b *Buffer) IsValid(x, y, band int) bool {
	return b.Valid[b.Index(x, y, band)]
}

// Set stores v, cast to the buffer's element type, and marks it valid.
func (b *Buffer) Set(x, y, band int, v float64) {
	i := b.Index(x, y, band)
	b.Samples[i] = b.DType.Cast(v)
	b.Valid[i] = true
}

// SetNoData marks (x, y, band) as no-data.
func (b *Buffer) SetNoData(x, y, band int) {
	i := b.Index(x, y, band)
	b.Samples[i] = 0
	b.Valid[i] = false
}

// Fill sets every sample to v and marks the whole buffer valid.
func (b *Buffer) Fill(v float64) {
	v = b.DType.Cast(v)
	for i := range b.Samples {
		b.Samples[i] = v
		b.Valid[i] = true
	}
}

// Clear resets every sample to no-data without reallocating.
func (b *Buffer) Clear() {
	clear(b.Samples)
	clear(b.Valid)
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		Size:    b.Size,
		Bands:   b.Bands,
		DType:   b.DType,
		Samples: make([]float64, len(b.Samples)),
		Valid:   make([]bool, len(b.Valid)),
	}
	copy(c.Samples, b.Samples)
	copy(c.Valid, b.Valid)
	return c
}

// SameLayout reports whether b and o share element type and band count.
func (b *Buffer) SameLayout(o *Buffer) bool {
	return b.DType == o.DType && b.Bands == o.Bands
}

// CheckShape fails with SHAPE_MISMATCH unless b is size x size with the
// given band count and element type and its backing slices agree.
func (b *Buffer) CheckShape(size, bands int, dtype DType) error {
	if b == nil {
		return errors.New(errors.ErrCodeShape, "buffer is nil")
	}
	if b.Size != size {
		return errors.New(errors.ErrCodeShape, "buffer is %dx%d, want %dx%d", b.Size, b.Size, size, size)
	}
	if b.Bands != bands {
		return errors.New(errors.ErrCodeShape, "buffer has %d bands, want %d", b.Bands, bands)
	}
	if b.DType != dtype {
		return errors.New(errors.ErrCodeShape, "buffer element type is %s, want %s", b.DType, dtype)
	}
	return b.checkBacking()
}

func (b *Buffer) checkBacking() error {
	n := b.Size * b.Size * b.Bands
	if len(b.Samples) != n || len(b.Valid) != n {
		return errors.New(errors.ErrCodeShape, "buffer backing has %d samples and %d mask bits, want %d", len(b.Samples), len(b.Valid), n)
	}
	return nil
}

// Blit copies src into b with its top-left corner at (x0, y0). Samples and
// validity bits are both copied, so no-data in src stays no-data in b.
func (b *Buffer) Blit(src *Buffer, x0, y0 int) error {
	if !b.SameLayout(src) {
		return errors.New(errors.ErrCodeShape, "cannot blit %sx%d into %sx%d", src.DType, src.Bands, b.DType, b.Bands)
	}
	if err := src.checkBacking(); err != nil {
		return err
	}
	if x0 < 0 || y0 < 0 || x0+src.Size > b.Size || y0+src.Size > b.Size {
		return errors.New(errors.ErrCodeShape, "%dx%d block at (%d, %d) exceeds %dx%d buffer", src.Size, src.Size, x0, y0, b.Size, b.Size)
	}
	row := src.Size * src.Bands
	for y := 0; y < src.Size; y++ {
		from := y * row
		to := b.Index(x0, y0+y, 0)
		copy(b.Samples[to:to+row], src.Samples[from:from+row])
		copy(b.Valid[to:to+row], src.Valid[from:from+row])
	}
	return nil
}

// ValidCount returns the number of samples that hold data.
func (b *Buffer) ValidCount() int {
	n := 0
	for _, ok := range b.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Empty reports whether no sample holds data.
func (b *Buffer) Empty() bool {
	for _, ok := range b.Valid {
		if ok {
			return false
		}
	}
	return true
}

// Uniform returns the common value when every sample is valid and equal.
func (b *Buffer) Uniform() (float64, bool) {
	if len(b.Samples) == 0 || !b.Valid[0] {
		return 0, false
	}
	v := b.Samples[0]
	for i, s := range b.Samples {
		if !b.Valid[i] || s != v {
			return 0, false
		}
	}
	return v, true
}

// Stats summarises the valid samples of a buffer.
type Stats struct {
	Valid int
	Min   float64
	Max   float64
	Mean  float64
}

// Stats computes min, max and mean over valid samples. All fields are zero
// for an empty buffer.
func (b *Buffer) Stats() Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for i, v := range b.Samples {
		if !b.Valid[i] {
			continue
		}
		s.Valid++
		sum += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	if s.Valid == 0 {
		return Stats{}
	}
	s.Mean = sum / float64(s.Valid)
	return s
}
