package cli

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// Image formats accepted by tile export and import.
const (
	formatPNG  = "png"
	formatTIFF = "tiff"
)

// imageFormat picks the format from a file extension.
func imageFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return formatPNG, nil
	case ".tif", ".tiff":
		return formatTIFF, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported image extension %q (use .png, .tif or .tiff)", filepath.Ext(path))
}

// toImage converts a tile to an image. 8-bit and 16-bit modes with 1 to 4
// bands are supported. RGB no-data becomes transparent; single band
// no-data is written as the mode's no-data value.
func toImage(buf *raster.Buffer, mode raster.Mode) (image.Image, error) {
	if !mode.Matches(buf) {
		return nil, errors.New(errors.ErrCodeShape, "tile is %sx%d, mode %s wants %sx%d", buf.DType, buf.Bands, mode.Name, mode.DType, mode.Bands)
	}
	rect := image.Rect(0, 0, buf.Size, buf.Size)

	// sample returns band b of (x, y) and whether every band of the pixel
	// holds data.
	sample := func(x, y, b int) (float64, bool) {
		i := buf.Index(x, y, 0)
		valid := true
		for k := 0; k < buf.Bands; k++ {
			valid = valid && buf.Valid[i+k]
		}
		return mode.Encode(buf, i+b), valid
	}

	switch {
	case buf.DType == raster.Uint8 && buf.Bands == 1:
		img := image.NewGray(rect)
		for y := 0; y < buf.Size; y++ {
			for x := 0; x < buf.Size; x++ {
				v, _ := sample(x, y, 0)
				img.SetGray(x, y, color.Gray{Y: uint8(v)})
			}
		}
		return img, nil

	case buf.DType == raster.Uint16 && buf.Bands == 1:
		img := image.NewGray16(rect)
		for y := 0; y < buf.Size; y++ {
			for x := 0; x < buf.Size; x++ {
				v, _ := sample(x, y, 0)
				img.SetGray16(x, y, color.Gray16{Y: uint16(v)})
			}
		}
		return img, nil

	case buf.DType == raster.Uint8 && buf.Bands >= 2 && buf.Bands <= 4:
		img := image.NewNRGBA(rect)
		for y := 0; y < buf.Size; y++ {
			for x := 0; x < buf.Size; x++ {
				var c [4]uint8
				valid := true
				for b := 0; b < buf.Bands; b++ {
					v, ok := sample(x, y, b)
					c[b] = uint8(v)
					valid = ok
				}
				img.SetNRGBA(x, y, nrgba8(c, buf.Bands, valid))
			}
		}
		return img, nil

	case buf.DType == raster.Uint16 && buf.Bands >= 3 && buf.Bands <= 4:
		img := image.NewNRGBA64(rect)
		for y := 0; y < buf.Size; y++ {
			for x := 0; x < buf.Size; x++ {
				var c [4]uint16
				valid := true
				for b := 0; b < buf.Bands; b++ {
					v, ok := sample(x, y, b)
					c[b] = uint16(v)
					valid = ok
				}
				a := c[3]
				if buf.Bands == 3 {
					a = 0xffff
				}
				if !valid && buf.Bands == 3 {
					a = 0
				}
				img.SetNRGBA64(x, y, color.NRGBA64{R: c[0], G: c[1], B: c[2], A: a})
			}
		}
		return img, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedMode, "mode %s cannot be exported as an image", mode)
}

// nrgba8 assembles an 8-bit colour from LA, RGB or RGBA samples.
func nrgba8(c [4]uint8, bands int, valid bool) color.NRGBA {
	switch bands {
	case 2:
		return color.NRGBA{R: c[0], G: c[0], B: c[0], A: c[1]}
	case 3:
		a := uint8(0xff)
		if !valid {
			a = 0
		}
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: a}
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// fromImage converts a TileSize x TileSize image into a tile of mode.
// Transparent RGB pixels and samples equal to the mode's no-data value
// become no-data.
func fromImage(img image.Image, mode raster.Mode) (*raster.Buffer, error) {
	bounds := img.Bounds()
	if bounds.Dx() != raster.TileSize || bounds.Dy() != raster.TileSize {
		return nil, errors.New(errors.ErrCodeShape, "image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), raster.TileSize, raster.TileSize)
	}
	buf, err := mode.NewBuffer(raster.TileSize)
	if err != nil {
		return nil, err
	}

	set := func(x, y int, vals ...float64) {
		for b, v := range vals {
			buf.Set(x, y, b, v)
		}
	}

	for y := 0; y < raster.TileSize; y++ {
		for x := 0; x < raster.TileSize; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch {
			case mode.DType == raster.Uint8 && mode.Bands == 1:
				g := color.GrayModel.Convert(c).(color.Gray)
				set(x, y, float64(g.Y))
			case mode.DType == raster.Uint16 && mode.Bands == 1:
				g := color.Gray16Model.Convert(c).(color.Gray16)
				set(x, y, float64(g.Y))
			case mode.DType == raster.Uint8 && mode.Bands == 2:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				g := color.GrayModel.Convert(color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0xff}).(color.Gray)
				set(x, y, float64(g.Y), float64(n.A))
			case mode.DType == raster.Uint8 && mode.Bands == 3:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				if n.A != 0 {
					set(x, y, float64(n.R), float64(n.G), float64(n.B))
				}
			case mode.DType == raster.Uint8 && mode.Bands == 4:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				set(x, y, float64(n.R), float64(n.G), float64(n.B), float64(n.A))
			case mode.DType == raster.Uint16 && mode.Bands == 3:
				n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				if n.A != 0 {
					set(x, y, float64(n.R), float64(n.G), float64(n.B))
				}
			case mode.DType == raster.Uint16 && mode.Bands == 4:
				n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				set(x, y, float64(n.R), float64(n.G), float64(n.B), float64(n.A))
			default:
				return nil, errors.New(errors.ErrCodeUnsupportedMode, "mode %s cannot be imported from an image", mode)
			}
		}
	}
	mode.Apply(buf)
	return buf, nil
}

// writeImageFile encodes img to path, choosing the format by extension.
func writeImageFile(path string, img image.Image) (err error) {
	format, err := imageFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == formatTIFF {
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return png.Encode(f, img)
}

// readImageFile decodes the PNG or TIFF image at path.
func readImageFile(path string) (image.Image, error) {
	format, err := imageFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	if format == formatTIFF {
		img, err = tiff.Decode(f)
	} else {
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	return img, nil
}
