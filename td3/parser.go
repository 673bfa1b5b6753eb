package td3

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/mrzscan/sanitize"
)

// ErrInvalidFormat is returned when a line cannot be mapped onto the TD3
// layout because it is not a canonical 44 character MRZ line.
var ErrInvalidFormat = errors.New("invalid TD3 MRZ format")

// Checks records the outcome of each check digit evaluated for a parse.
type Checks struct {
	PassportNumber bool
	BirthDate      bool
	ExpiryDate     bool
	PersonalNumber bool // true when the field is all filler
	Composite      bool
}

// All reports whether every check passed.
func (c Checks) All() bool {
	return c.PassportNumber && c.BirthDate && c.ExpiryDate && c.PersonalNumber && c.Composite
}

// Failed returns the names of the checks that did not pass.
func (c Checks) Failed() []string {
	var failed []string
	if !c.PassportNumber {
		failed = append(failed, PassportNumber.Name)
	}
	if !c.BirthDate {
		failed = append(failed, BirthDate.Name)
	}
	if !c.ExpiryDate {
		failed = append(failed, ExpiryDate.Name)
	}
	if !c.PersonalNumber {
		failed = append(failed, PersonalNumber.Name)
	}
	if !c.Composite {
		failed = append(failed, "composite")
	}
	return failed
}

// MRZ holds the fields decoded from a TD3 machine readable zone.
// Surname, GivenNames and PersonalNumber are empty when absent.
type MRZ struct {
	DocumentType   string
	IssuingCountry string
	Surname        string
	GivenNames     string
	PassportNumber string // fillers stripped
	Nationality    string
	BirthDate      string // YYMMDD
	Sex            string
	ExpiryDate     string // YYMMDD
	PersonalNumber string // fillers stripped

	ChecksumsValid bool
	Checks         Checks

	// Line1 and Line2 are the canonical lines the fields were decoded from.
	Line1 string
	Line2 string
}

// FullName returns the surname followed by the given names.
func (m MRZ) FullName() string {
	switch {
	case m.Surname == "":
		return m.GivenNames
	case m.GivenNames == "":
		return m.Surname
	default:
		return m.Surname + " " + m.GivenNames
	}
}

// Parse sanitizes both raw lines to 44 characters and decodes them as a TD3
// MRZ. A checksum mismatch does not produce an error; it is reported through
// MRZ.ChecksumsValid and MRZ.Checks.
func Parse(rawLine1, rawLine2 string) (MRZ, error) {
	return ParseCanonical(sanitize.NormalizeTD3(rawLine1), sanitize.NormalizeTD3(rawLine2))
}

// ParseCanonical decodes two lines that are already canonical. It returns
// ErrInvalidFormat when either line is not exactly 44 characters of the MRZ
// alphabet.
func ParseCanonical(line1, line2 string) (MRZ, error) {
	if !sanitize.IsCanonical(line1, LineLength) {
		return MRZ{}, fmt.Errorf("line 1: %w", ErrInvalidFormat)
	}
	if !sanitize.IsCanonical(line2, LineLength) {
		return MRZ{}, fmt.Errorf("line 2: %w", ErrInvalidFormat)
	}

	surname, given := splitNames(NamesRange.Of(line1))

	personalField := PersonalNumber.Field(line2)
	personalEmpty := allFiller(personalField)

	checks := Checks{
		PassportNumber: PassportNumber.Valid(line2),
		BirthDate:      BirthDate.Valid(line2),
		ExpiryDate:     ExpiryDate.Valid(line2),
		PersonalNumber: personalEmpty || PersonalNumber.Valid(line2),
		Composite:      CompositeValid(line2),
	}

	m := MRZ{
		DocumentType:   DocumentTypeRange.Of(line1),
		IssuingCountry: IssuingCountryRange.Of(line1),
		Surname:        surname,
		GivenNames:     given,
		PassportNumber: stripFiller(PassportNumber.Field(line2)),
		Nationality:    NationalityRange.Of(line2),
		BirthDate:      BirthDate.Field(line2),
		Sex:            SexRange.Of(line2),
		ExpiryDate:     ExpiryDate.Field(line2),
		ChecksumsValid: checks.All(),
		Checks:         checks,
		Line1:          line1,
		Line2:          line2,
	}
	if !personalEmpty {
		m.PersonalNumber = stripFiller(personalField)
	}

	return m, nil
}

// splitNames splits the names field at the first "<<" into surname and
// given names. Single fillers inside each part become spaces.
func splitNames(s string) (surname, given string) {
	before, after, found := strings.Cut(s, "<<")
	surname = fillerToSpace(before)
	if found {
		given = fillerToSpace(after)
	}
	return surname, given
}

func fillerToSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == sanitize.Filler }), " ")
}

func stripFiller(s string) string {
	return strings.ReplaceAll(s, string(sanitize.Filler), "")
}

func allFiller(s string) bool {
	return strings.Trim(s, string(sanitize.Filler)) == ""
}
