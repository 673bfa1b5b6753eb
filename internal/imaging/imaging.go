// Package imaging prepares document images for MRZ recognition.
//
// A scan is decoded, optionally cropped to the band at the bottom of the
// page where the MRZ is printed, converted to grayscale and upscaled so
// that the OCR engine sees characters of a usable height:
//
//	png, err := imaging.Prepare(data, imaging.Options{Band: 0.18, MinHeight: 300})
//
// # Supported Formats
//
// PNG, JPEG and GIF are decoded by the standard library. TIFF, BMP and
// WebP decoders are registered from golang.org/x/image.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"math"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidBand is returned for a band fraction outside [0, 1].
var ErrInvalidBand = errors.New("band fraction must be between 0 and 1")

// DefaultMinHeight is the height an MRZ band is upscaled to when no other
// height is given.
const DefaultMinHeight = 300

// Options control Prepare.
type Options struct {
	// Band is the fraction of the image height kept, measured from the
	// bottom edge. Zero or one keeps the whole image.
	Band float64

	// MinHeight is the smallest height of the prepared image. Smaller
	// images are upscaled, keeping their aspect ratio. Zero disables
	// upscaling.
	MinHeight int
}

// Decode decodes an image in any registered format. It returns the format
// name reported by the decoder.
func Decode(data []byte) (image.Image, string, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, name, nil
}

// CropBand returns the bottom part of img whose height is fraction of the
// image height. A fraction of zero, one or more returns img unchanged.
func CropBand(img image.Image, fraction float64) image.Image {
	if fraction <= 0 || fraction >= 1 {
		return img
	}

	b := img.Bounds()
	h := int(math.Ceil(float64(b.Dy()) * fraction))
	band := image.Rect(b.Min.X, b.Max.Y-h, b.Max.X, b.Max.Y)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(band)
	}

	dst := image.NewRGBA(image.Rect(0, 0, band.Dx(), band.Dy()))
	draw.Draw(dst, dst.Bounds(), img, band.Min, draw.Src)
	return dst
}

// Grayscale converts img to an 8-bit grayscale image with its origin at
// (0, 0).
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Upscale enlarges img with Catmull-Rom interpolation so that it is at
// least minHeight pixels high. Images that are already high enough are
// returned unchanged.
func Upscale(img *image.Gray, minHeight int) *image.Gray {
	b := img.Bounds()
	if minHeight <= 0 || b.Dy() == 0 || b.Dy() >= minHeight {
		return img
	}

	scale := float64(minHeight) / float64(b.Dy())
	width := int(math.Round(float64(b.Dx()) * scale))
	dst := image.NewGray(image.Rect(0, 0, width, minHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare decodes data, crops it to the MRZ band, converts it to grayscale,
// upscales it and returns it encoded as PNG.
func Prepare(data []byte, opts Options) ([]byte, error) {
	if opts.Band < 0 || opts.Band > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBand, opts.Band)
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	gray := Upscale(Grayscale(CropBand(img, opts.Band)), opts.MinHeight)
	return EncodePNG(gray)
}
