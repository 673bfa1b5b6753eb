// Package locate picks the two TD3 MRZ lines out of unordered recognized
// text lines.
//
// Every line is compacted and scored on how much it looks like an MRZ line:
// its length relative to 44, the passport prefix, the number of fillers and
// whether it was already read in the MRZ alphabet. The best line starting
// with 'P' becomes line 1 and the best remaining line below it becomes
// line 2.
package locate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/mrzscan/model"
	"github.com/tsawler/mrzscan/sanitize"
)

// ErrNoCandidates is returned when the input does not contain two lines that
// could be MRZ lines.
var ErrNoCandidates = errors.New("no MRZ line candidates found")

const (
	// MinLength is the shortest compacted line still considered.
	MinLength = 30

	// MinScore is the lowest score a selected line may have.
	MinScore = 45
)

// Candidate is a recognized line considered for the MRZ.
type Candidate struct {
	// Text is the line with whitespace removed and every character mapped
	// into the MRZ alphabet. It is not padded.
	Text string

	// Source is the line as recognized.
	Source model.TextLine

	// Index is the position of the line in the input (0-based).
	Index int

	// Score is the MRZ likeness score of the line for the role it was
	// selected for.
	Score int
}

// Selection is the pair of lines chosen as the MRZ.
type Selection struct {
	Line1 Candidate
	Line2 Candidate
}

// Score rates how much raw looks like a TD3 MRZ line. When line1 is set,
// lines not starting with 'P' are penalized.
func Score(raw string, line1 bool) int {
	clean := sanitize.Clean(raw)
	score := max(0, 100-6*abs(len(clean)-sanitize.TD3LineLength))

	if strings.HasPrefix(clean, "P<") {
		score += 40
	}
	if hasMisreadPrefix(clean) {
		score += 25
	}
	if inAlphabet(sanitize.Compact(raw)) {
		score += 10
	}
	score += min(strings.Count(clean, string(sanitize.Filler)), 20)

	if line1 && !strings.HasPrefix(clean, "P") {
		score -= 20
	}
	return score
}

// Select chooses the MRZ lines from lines.
//
// Line 1 is the best scoring candidate starting with 'P', or the best of
// all candidates when none does. Line 2 is the best of the remaining
// candidates that lie below line 1: by bounding box when both lines have
// one, by input order otherwise. When no remaining candidate lies below
// line 1 all of them are considered. Equal scores go to the higher
// confidence, then to the earlier line.
func Select(lines []model.TextLine) (Selection, error) {
	var all []Candidate
	for i, l := range lines {
		clean := sanitize.Clean(l.Text)
		if len(clean) < MinLength {
			continue
		}
		all = append(all, Candidate{Text: clean, Source: l, Index: i})
	}
	if len(all) < 2 {
		return Selection{}, fmt.Errorf("%w: %d of %d lines are long enough", ErrNoCandidates, len(all), len(lines))
	}

	pool := filter(all, func(c Candidate) bool {
		return strings.HasPrefix(c.Text, "P")
	})
	if len(pool) == 0 {
		pool = all
	}
	line1, ok := best(pool, true)
	if !ok {
		return Selection{}, fmt.Errorf("%w: no line scores at least %d as line 1", ErrNoCandidates, MinScore)
	}

	rest := filter(all, func(c Candidate) bool {
		return c.Index != line1.Index
	})
	if below := filter(rest, func(c Candidate) bool { return isBelow(c, line1) }); len(below) > 0 {
		rest = below
	}
	line2, ok := best(rest, false)
	if !ok {
		return Selection{}, fmt.Errorf("%w: no line scores at least %d as line 2", ErrNoCandidates, MinScore)
	}

	return Selection{Line1: line1, Line2: line2}, nil
}

// RepairPrefix replaces a misread "PO" or "P0" at the start of line 1 with
// "P<". It reports whether the line was changed.
func RepairPrefix(line1 string) (string, bool) {
	if !hasMisreadPrefix(line1) {
		return line1, false
	}
	return "P" + string(sanitize.Filler) + line1[2:], true
}

func hasMisreadPrefix(s string) bool {
	return strings.HasPrefix(s, "PO") || strings.HasPrefix(s, "P0")
}

// best scores pool and returns its highest ranked candidate.
func best(pool []Candidate, line1 bool) (Candidate, bool) {
	ranked := make([]Candidate, len(pool))
	for i, c := range pool {
		c.Score = Score(c.Source.Text, line1)
		ranked[i] = c
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Source.Confidence > ranked[j].Source.Confidence
	})

	if len(ranked) == 0 || ranked[0].Score < MinScore {
		return Candidate{}, false
	}
	return ranked[0], true
}

func isBelow(c, line1 Candidate) bool {
	if c.Source.HasBBox() && line1.Source.HasBBox() {
		return c.Source.BBox.Below(line1.Source.BBox)
	}
	return c.Index > line1.Index
}

func filter(cs []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// inAlphabet reports whether s contains only MRZ alphabet characters.
func inAlphabet(s string) bool {
	for i := 0; i < len(s); i++ {
		if !sanitize.IsCanonicalChar(s[i]) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
