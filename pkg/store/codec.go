package store

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// Encoded tile layout:
//
//	magic   [4]byte "TCT1"
//	dtype   uint8
//	bands   uint16
//	size    uint32
//	payload zstd( validity bitmap, ceil(n/8) bytes, LSB first
//	            | samples, n * dtype width, little endian )
const (
	codecMagic     = "TCT1"
	codecHeaderLen = 4 + 1 + 2 + 4

	// maxDecodedLen bounds the decompressed payload: a composite of
	// MaxBands float64 samples plus its bitmap.
	maxDecodedLen = raster.CompositeSize * raster.CompositeSize * raster.MaxBands * 9
)

// EncodeTile serialises buf into the compressed tile format.
func EncodeTile(buf *raster.Buffer) ([]byte, error) {
	if buf == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "encode: nil buffer")
	}
	if err := buf.CheckShape(buf.Size, buf.Bands, buf.DType); err != nil {
		return nil, err
	}
	if !buf.DType.Valid() {
		return nil, errors.New(errors.ErrCodeUnsupportedMode, "encode: unsupported element type %s", buf.DType)
	}

	n := buf.Len()
	width := buf.DType.Size()
	raw := make([]byte, bitmapLen(n)+n*width)

	bitmap := raw[:bitmapLen(n)]
	for i, ok := range buf.Valid {
		if ok {
			bitmap[i/8] |= 1 << (i % 8)
		}
	}

	samples := raw[len(bitmap):]
	for i, v := range buf.Samples {
		if !buf.Valid[i] {
			v = 0
		}
		putSample(samples[i*width:], buf.DType, v)
	}

	out := make([]byte, codecHeaderLen, codecHeaderLen+len(raw)/4)
	copy(out, codecMagic)
	out[4] = byte(buf.DType)
	binary.LittleEndian.PutUint16(out[5:], uint16(buf.Bands))
	binary.LittleEndian.PutUint32(out[7:], uint32(buf.Size))

	enc := encoderPool.Get().(*zstd.Encoder)
	out = enc.EncodeAll(raw, out)
	encoderPool.Put(enc)
	return out, nil
}

// DecodeTile parses data produced by EncodeTile. Corrupt input fails with
// CORRUPT_TILE.
func DecodeTile(data []byte) (*raster.Buffer, error) {
	if len(data) < codecHeaderLen || !bytes.Equal(data[:4], []byte(codecMagic)) {
		return nil, errors.New(errors.ErrCodeCorrupt, "not an encoded tile")
	}
	dtype := raster.DType(data[4])
	bands := int(binary.LittleEndian.Uint16(data[5:]))
	size := int(binary.LittleEndian.Uint32(data[7:]))
	if !dtype.Valid() || bands < 1 || bands > raster.MaxBands || size < 1 || size > raster.CompositeSize {
		return nil, errors.New(errors.ErrCodeCorrupt, "invalid tile header (dtype=%d bands=%d size=%d)", dtype, bands, size)
	}
	n := size * size * bands
	width := dtype.Size()
	want := bitmapLen(n) + n*width

	dec := decoderPool.Get().(*zstd.Decoder)
	raw, err := dec.DecodeAll(data[codecHeaderLen:], nil)
	decoderPool.Put(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "decompress tile")
	}
	if len(raw) != want {
		return nil, errors.New(errors.ErrCodeCorrupt, "tile payload is %d bytes, want %d", len(raw), want)
	}

	buf := raster.NewBuffer(size, bands, dtype)

	bitmap := raw[:bitmapLen(n)]
	samples := raw[len(bitmap):]
	for i := 0; i < n; i++ {
		if bitmap[i/8]&(1<<(i%8)) == 0 {
			continue
		}
		buf.Samples[i] = getSample(samples[i*width:], dtype)
		buf.Valid[i] = true
	}
	return buf, nil
}

func bitmapLen(n int) int {
	return (n + 7) / 8
}

func putSample(b []byte, d raster.DType, v float64) {
	switch d {
	case raster.Uint8:
		b[0] = uint8(v)
	case raster.Uint16:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case raster.Int16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case raster.Int32:
		binary.LittleEndian.PutUint32(b, uint32(int32(v)))
	case raster.Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case raster.Float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

func getSample(b []byte, d raster.DType) float64 {
	switch d {
	case raster.Uint8:
		return float64(b[0])
	case raster.Uint16:
		return float64(binary.LittleEndian.Uint16(b))
	case raster.Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case raster.Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case raster.Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case raster.Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// --- ZSTD helpers ---

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(maxDecodedLen),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var encoderPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}
