// Package sanitize normalizes raw OCR output into canonical MRZ lines.
//
// A canonical line has an exact length and contains only the characters
// A-Z, 0-9 and the filler '<'. Normalize is total: every input string
// produces a canonical line, no matter how badly it was recognized.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Filler is the MRZ padding character.
const Filler = '<'

// TD3LineLength is the length of each of the two TD3 MRZ lines.
const TD3LineLength = 44

// Normalize uppercases raw, folds full-width forms to ASCII, strips
// whitespace and replaces every character outside A-Z, 0-9 and '<' with '<'.
// The glyphs OCR engines return in place of the filler ('‹', '«', '|', '＜')
// all end up as '<' this way. The result is right-padded
// with '<' or truncated so that it is exactly targetLength characters long.
// A negative targetLength is treated as zero.
func Normalize(raw string, targetLength int) string {
	if targetLength < 0 {
		targetLength = 0
	}

	s := Clean(raw)
	if len(s) >= targetLength {
		return s[:targetLength]
	}
	return s + strings.Repeat(string(Filler), targetLength-len(s))
}

// Clean is Normalize without the length adjustment. The result has one
// byte for every non-space rune of raw.
func Clean(raw string) string {
	compact := Compact(raw)

	var b strings.Builder
	b.Grow(len(compact))
	for _, r := range compact {
		b.WriteByte(canonicalByte(r))
	}
	return b.String()
}

// Compact uppercases raw, folds full-width forms to ASCII and strips
// whitespace. Other characters are kept as they are.
func Compact(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(width.Fold.String(raw)))
}

// NormalizeTD3 is Normalize with the TD3 line length.
func NormalizeTD3(raw string) string {
	return Normalize(raw, TD3LineLength)
}

// canonicalByte maps a single uppercased rune to its canonical MRZ byte.
func canonicalByte(r rune) byte {
	if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
		return byte(r)
	}
	return Filler
}

// IsCanonicalChar reports whether c belongs to the MRZ alphabet.
func IsCanonicalChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == Filler
}

// IsCanonical reports whether s is exactly length characters long and
// contains only MRZ alphabet characters.
func IsCanonical(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsCanonicalChar(s[i]) {
			return false
		}
	}
	return true
}
