// Package format provides input format detection for the mrzscan library.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image, the usual output of document scanners.
	TIFF
	// BMP indicates a Windows bitmap.
	BMP
	// WebP indicates a WebP image.
	WebP
	// GIF indicates a GIF image.
	GIF
	// HOCR indicates hOCR output of an OCR engine.
	HOCR
	// Text indicates plain text, one line per recognized line.
	Text
)

// sniffLen is the number of leading bytes inspected by DetectFromReader.
const sniffLen = 3072

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WebP:
		return "WebP"
	case GIF:
		return "GIF"
	case HOCR:
		return "hOCR"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	case WebP:
		return ".webp"
	case GIF:
		return ".gif"
	case HOCR:
		return ".hocr"
	case Text:
		return ".txt"
	default:
		return ""
	}
}

// IsImage reports whether the format is a raster image that needs OCR.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, TIFF, BMP, WebP, GIF:
		return true
	default:
		return false
	}
}

// Detect determines file format from filename extension.
// HTML files are assumed to be hOCR.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".webp":
		return WebP
	case ".gif":
		return GIF
	case ".hocr", ".html", ".htm":
		return HOCR
	case ".txt", ".text", ".mrz":
		return Text
	default:
		return Unknown
	}
}

// imageTypes maps detected MIME types to image formats.
var imageTypes = []struct {
	mime   string
	format Format
}{
	{"image/png", PNG},
	{"image/jpeg", JPEG},
	{"image/tiff", TIFF},
	{"image/bmp", BMP},
	{"image/webp", WebP},
	{"image/gif", GIF},
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Unknown
	}

	mtype := mimetype.Detect(data)
	for _, t := range imageTypes {
		if mtype.Is(t.mime) {
			return t.format
		}
	}

	if detectHOCRMagic(data) {
		return HOCR
	}

	if mtype.Is("text/plain") {
		return Text
	}

	return Unknown
}

// detectHOCRMagic checks if the data looks like an hOCR document.
func detectHOCRMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 || data[0] != '<' {
		return false
	}

	lower := bytes.ToLower(data[:min(len(data), sniffLen)])
	if !bytes.Contains(lower, []byte("<html")) {
		return false
	}
	return bytes.Contains(lower, []byte("ocr-system")) ||
		bytes.Contains(lower, []byte("ocr_page")) ||
		bytes.Contains(lower, []byte("ocr_line"))
}

// DetectFromReader inspects the leading bytes of r to determine format.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, sniffLen)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// Resolve combines both detection methods. The content wins when it is
// recognized; the extension decides otherwise.
func Resolve(filename string, data []byte) Format {
	if f := DetectFromMagic(data); f != Unknown {
		return f
	}
	return Detect(filename)
}
