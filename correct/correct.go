// Package correct recovers checksum-valid TD3 parses from MRZ lines that
// were misread by OCR.
//
// Correction is limited to line 2 and to letter-for-digit substitutions
// taken from a [ConfusionMap], applied only at numeric positions. Names and
// country codes are never touched. The search is greedy and local: it
// accepts the first substitution that makes a field's own check digit
// match, and every trial is paid for from a fixed budget.
package correct

import (
	"errors"
	"fmt"

	"github.com/tsawler/mrzscan/checksum"
	"github.com/tsawler/mrzscan/sanitize"
	"github.com/tsawler/mrzscan/td3"
)

// ErrChecksumFailed is returned when not even a best-effort parse of the
// corrected lines could be produced.
var ErrChecksumFailed = errors.New("MRZ checksum correction failed")

// DefaultBudget is the default number of substitution trials.
const DefaultBudget = 200

// searchFields are the purely numeric fields searched one position at a
// time, in order. They share one trial budget.
var searchFields = [...]td3.FieldSpec{td3.PassportNumber, td3.BirthDate, td3.ExpiryDate}

// Stage identifies the correction step that produced a result.
type Stage int

const (
	// StageDirect means the sanitized lines were valid as read.
	StageDirect Stage = iota
	// StageBulkDigitFix means replacing every confusable letter at numeric
	// positions produced a valid parse.
	StageBulkDigitFix
	// StageFieldSearch means the per-field search ran. The result may still
	// fail its checksums.
	StageFieldSearch
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageBulkDigitFix:
		return "bulk_digit_fix"
	case StageFieldSearch:
		return "field_search"
	default:
		return "unknown"
	}
}

// Substitution is a single character replaced in line 2.
type Substitution struct {
	Position int
	From     byte
	To       byte
	Field    string
}

// String formats the substitution as "field[pos] 'O'->'0'".
func (s Substitution) String() string {
	return fmt.Sprintf("%s[%d] %q->%q", s.Field, s.Position, s.From, s.To)
}

// Report describes how a result was obtained.
type Report struct {
	Stage         Stage
	Attempts      int            // substitution trials made by the field search
	Substitutions []Substitution // changes present in the returned line 2
}

// Corrected reports whether any character of line 2 was changed.
func (r Report) Corrected() bool {
	return len(r.Substitutions) > 0
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithBudget sets the maximum number of substitution trials. Values below
// zero are treated as zero, which disables the field search.
func WithBudget(n int) Option {
	return func(c *Corrector) {
		if n < 0 {
			n = 0
		}
		c.budget = n
	}
}

// WithConfusions replaces the default confusion table.
func WithConfusions(m ConfusionMap) Option {
	return func(c *Corrector) {
		c.confusions = m
	}
}

// Corrector parses TD3 lines, correcting OCR confusions when the check
// digits do not match. A Corrector holds no mutable state and is safe for
// concurrent use.
type Corrector struct {
	budget     int
	confusions ConfusionMap
	parse      func(line1, line2 string) (td3.MRZ, error)
}

// New creates a Corrector with the default budget and confusion table.
func New(opts ...Option) *Corrector {
	c := &Corrector{
		budget:     DefaultBudget,
		confusions: DigitConfusions,
		parse:      td3.ParseCanonical,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Budget returns the configured trial budget.
func (c *Corrector) Budget() int {
	return c.budget
}

// Correct sanitizes both lines and parses them, escalating through the
// correction steps while the check digits fail. The final best-effort parse
// is returned even when MRZ.ChecksumsValid is still false.
func (c *Corrector) Correct(line1, line2 string) (td3.MRZ, Report, error) {
	l1 := sanitize.NormalizeTD3(line1)
	l2 := sanitize.NormalizeTD3(line2)

	if m, err := c.parse(l1, l2); err == nil && m.ChecksumsValid {
		return m, Report{Stage: StageDirect}, nil
	}

	buf := []byte(l2)
	if subs := c.confusions.Apply(buf, td3.NumericPositions()); len(subs) > 0 {
		if m, err := c.parse(l1, string(buf)); err == nil && m.ChecksumsValid {
			return m, Report{Stage: StageBulkDigitFix, Substitutions: labelled(subs)}, nil
		}
	}

	// The bulk fix also rewrites letters that belong in passport and
	// personal numbers, so the field search starts from the sanitized line.
	s := &search{
		buf:        []byte(l2),
		budget:     c.budget,
		confusions: c.confusions,
	}
	for _, f := range searchFields {
		if s.exhausted() {
			break
		}
		s.fixField(f)
	}

	report := Report{
		Stage:         StageFieldSearch,
		Attempts:      s.attempts,
		Substitutions: s.kept,
	}

	m, err := c.parse(l1, string(s.buf))
	if err != nil {
		return td3.MRZ{}, report, fmt.Errorf("%w: %w", ErrChecksumFailed, err)
	}
	return m, report, nil
}

// Correct runs a default Corrector.
func Correct(line1, line2 string) (td3.MRZ, Report, error) {
	return New().Correct(line1, line2)
}

// search is the mutable state of one per-field search over line 2.
type search struct {
	buf        []byte
	budget     int
	attempts   int
	confusions ConfusionMap
	kept       []Substitution
}

func (s *search) exhausted() bool {
	return s.attempts >= s.budget
}

func (s *search) valid(f td3.FieldSpec) bool {
	return checksum.IsValid(string(s.buf[f.Value.Start:f.Value.End]), s.buf[f.CheckDigit])
}

// try substitutes position i, keeps the change if field f becomes valid and
// rolls it back otherwise. It reports whether the change was kept.
func (s *search) try(f td3.FieldSpec, i int) bool {
	r, ok := s.confusions.Lookup(s.buf[i])
	if !ok {
		return false
	}

	old := s.buf[i]
	s.buf[i] = r
	s.attempts++

	if s.valid(f) {
		s.kept = append(s.kept, Substitution{Position: i, From: old, To: r, Field: f.Name})
		return true
	}
	s.buf[i] = old
	return false
}

// fixField searches the value positions of f, then its check digit, for
// the first substitution that makes f valid.
func (s *search) fixField(f td3.FieldSpec) {
	if s.valid(f) {
		return
	}
	for i := f.Value.Start; i < f.Value.End; i++ {
		if s.exhausted() {
			return
		}
		if s.try(f, i) {
			return
		}
	}
	if !s.exhausted() {
		s.try(f, f.CheckDigit)
	}
}

// labelled fills in the field name of each line 2 substitution.
func labelled(subs []Substitution) []Substitution {
	for i := range subs {
		subs[i].Field = FieldAt(subs[i].Position)
	}
	return subs
}

// FieldAt returns the name of the line 2 field that position i belongs to.
func FieldAt(i int) string {
	for _, f := range td3.Fields {
		if f.Value.Contains(i) || f.CheckDigit == i {
			return f.Name
		}
	}
	switch {
	case i == td3.FinalCheckDigit:
		return "composite"
	case td3.NationalityRange.Contains(i):
		return "nationality"
	case td3.SexRange.Contains(i):
		return "sex"
	default:
		return ""
	}
}
