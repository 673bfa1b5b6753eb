package td3

import (
	"github.com/tsawler/mrzscan/checksum"
	"github.com/tsawler/mrzscan/sanitize"
)

// LineLength is the length of each TD3 MRZ line.
const LineLength = sanitize.TD3LineLength

// Range is a half-open character range [Start, End) within a line.
type Range struct {
	Start int
	End   int
}

// Len returns the number of characters in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether position i lies within the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Of returns the characters of line covered by the range.
func (r Range) Of(line string) string {
	return line[r.Start:r.End]
}

// FieldSpec describes a check-digit protected field of line 2.
type FieldSpec struct {
	Name       string
	Value      Range
	CheckDigit int // index of the check digit character in line 2
}

// Field returns the field's value characters from line.
func (f FieldSpec) Field(line string) string {
	return f.Value.Of(line)
}

// Valid reports whether the field's own check digit matches its value.
func (f FieldSpec) Valid(line string) bool {
	return checksum.IsValid(f.Field(line), line[f.CheckDigit])
}

// Line 1 layout.
var (
	DocumentTypeRange   = Range{0, 2}
	IssuingCountryRange = Range{2, 5}
	NamesRange          = Range{5, 44}
)

// Line 2 layout for the fields that carry no check digit.
var (
	NationalityRange = Range{10, 13}
	SexRange         = Range{20, 21}
)

// Check-digit protected fields of line 2.
var (
	PassportNumber = FieldSpec{Name: "passport_number", Value: Range{0, 9}, CheckDigit: 9}
	BirthDate      = FieldSpec{Name: "birth_date", Value: Range{13, 19}, CheckDigit: 19}
	ExpiryDate     = FieldSpec{Name: "expiry_date", Value: Range{21, 27}, CheckDigit: 27}
	PersonalNumber = FieldSpec{Name: "personal_number", Value: Range{28, 42}, CheckDigit: 42}
)

// FinalCheckDigit is the index of the composite check digit in line 2.
const FinalCheckDigit = 43

// Fields lists the individually protected fields of line 2 in the order
// they contribute to the composite check digit.
var Fields = [...]FieldSpec{PassportNumber, BirthDate, ExpiryDate, PersonalNumber}

// Composite returns the field the final check digit is computed over: each
// protected field's value followed by its check digit, in Fields order.
func Composite(line2 string) string {
	buf := make([]byte, 0, 39)
	for _, f := range Fields {
		buf = append(buf, f.Field(line2)...)
		buf = append(buf, line2[f.CheckDigit])
	}
	return string(buf)
}

// CompositeValid reports whether the final check digit of line2 matches.
func CompositeValid(line2 string) bool {
	return checksum.IsValid(Composite(line2), line2[FinalCheckDigit])
}

// NumericPositions returns every line 2 position that holds a numeric-domain
// character: the protected field values, their check digits and the final
// check digit. Nationality and sex positions are never included.
func NumericPositions() []int {
	positions := make([]int, 0, 40)
	for _, f := range Fields {
		for i := f.Value.Start; i < f.Value.End; i++ {
			positions = append(positions, i)
		}
		positions = append(positions, f.CheckDigit)
	}
	return append(positions, FinalCheckDigit)
}
