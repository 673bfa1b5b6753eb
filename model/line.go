package model

import "strings"

// TextLine is one line of recognized text.
type TextLine struct {
	Text string

	// Confidence is the recognizer's confidence in the range 0-100. It is
	// zero when unknown.
	Confidence float64

	// BBox is the line's position in the source image. It is empty when
	// the line did not come from an image.
	BBox BBox
}

// HasBBox reports whether the line carries a position.
func (l TextLine) HasBBox() bool {
	return l.BBox.IsValid()
}

// LinesFromText splits text into lines without positions. Blank lines are
// dropped.
func LinesFromText(text string) []TextLine {
	var lines []TextLine
	for _, s := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		lines = append(lines, TextLine{Text: s})
	}
	return lines
}

// Texts returns the text of each line.
func Texts(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
