// Package mrzscan provides a fluent API for reading the machine readable
// zone (MRZ) of TD3 passports.
//
// Basic usage:
//
//	m, warnings, err := mrzscan.Lines(line1, line2).Parse()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", mrzscan.FormatWarnings(warnings))
//	}
//	fmt.Println(m.PassportNumber, m.ChecksumsValid)
//
// Scanning an image, hOCR or text file:
//
//	res, _, err := mrzscan.Open("passport.jpg").
//	    MRZBand(0.18).
//	    Budget(500).
//	    Scan()
//
// Recognized characters are sanitized, parsed at the fixed TD3 offsets and
// validated against their check digits. When a check digit fails, letters
// OCR engines commonly read in place of digits are substituted until the
// checks pass or the trial budget is spent. A result whose checks still
// fail is returned with a warning rather than an error.
//
// For lower-level control, the sanitize, checksum, td3, correct and locate
// packages are also available.
package mrzscan

import (
	"errors"

	"github.com/tsawler/mrzscan/correct"
	"github.com/tsawler/mrzscan/locate"
	"github.com/tsawler/mrzscan/model"
	"github.com/tsawler/mrzscan/ocr"
	"github.com/tsawler/mrzscan/td3"
)

// Errors returned by Parse and Scan. Compare with errors.Is.
var (
	// ErrInvalidFormat means a line could not be brought into MRZ form.
	ErrInvalidFormat = td3.ErrInvalidFormat
	// ErrChecksumFailed means no result could be produced after correction.
	ErrChecksumFailed = correct.ErrChecksumFailed
	// ErrNoCandidates means the source did not contain two MRZ-like lines.
	ErrNoCandidates = locate.ErrNoCandidates
	// ErrOCRNotEnabled means an image was scanned by a binary built without
	// the "ocr" tag.
	ErrOCRNotEnabled = ocr.ErrOCRNotEnabled
	// ErrUnsupportedFormat means Open was given a file that is neither an
	// image, hOCR nor text.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Lines returns a Scanner for the two MRZ lines as recognized. The lines
// are used as given; no line selection takes place.
//
// Example:
//
//	m, warnings, err := mrzscan.Lines(
//	    "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
//	    "L898902C36UTO7408122F1204159ZE184226B<<<<<10",
//	).Parse()
func Lines(line1, line2 string) *Scanner {
	return &Scanner{
		kind:    sourcePair,
		line1:   line1,
		line2:   line2,
		options: defaultOptions(),
	}
}

// FromText returns a Scanner for multi-line text, such as an OCR text dump.
// The MRZ lines are selected from all lines of the text.
//
// Example:
//
//	res, _, err := mrzscan.FromText(ocrOutput).Scan()
func FromText(text string) *Scanner {
	return FromLines(model.LinesFromText(text))
}

// FromLines returns a Scanner for lines produced by a recognizer. Bounding
// boxes and confidences, when present, are used to select the MRZ lines.
func FromLines(lines []model.TextLine) *Scanner {
	return &Scanner{
		kind:    sourceLines,
		lines:   append([]model.TextLine(nil), lines...),
		options: defaultOptions(),
	}
}

// Open returns a Scanner for a file. Images are recognized with OCR, hOCR
// and HTML files are parsed and text files are read line by line. The file
// is read when a terminal operation is called.
//
// Example:
//
//	m, warnings, err := mrzscan.Open("passport.png").Parse()
func Open(filename string) *Scanner {
	return &Scanner{
		kind:     sourceFile,
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sel := mrzscan.Must(mrzscan.FromText(text).Select())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustParse is a helper that wraps a call to Parse() or Scan() and panics
// if the error is non-nil. It discards warnings and returns just the value.
// It is intended for use in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	m := mrzscan.MustParse(mrzscan.Lines(l1, l2).Parse())
func MustParse[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
