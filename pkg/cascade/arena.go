package cascade

import "github.com/matzehuels/tilecascade/pkg/raster"

// arena owns the composite buffer of one cascade call. The buffer is
// allocated on first use and cleared on every later use; it is only
// reallocated when the child layout changes.
type arena struct {
	buf *raster.Buffer
}

// composite returns a cleared 512x512 buffer with the given layout.
func (a *arena) composite(bands int, dtype raster.DType) *raster.Buffer {
	if a.buf == nil || a.buf.Bands != bands || a.buf.DType != dtype {
		a.buf = raster.NewBuffer(raster.CompositeSize, bands, dtype)
		return a.buf
	}
	a.buf.Clear()
	return a.buf
}
