package td3

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a YYMMDD field is not a calendar date.
var ErrInvalidDate = errors.New("invalid YYMMDD date")

// ResolveBirthDate expands a YYMMDD birth date to a full date. Birth dates
// up to five years past the current two-digit year are placed in the 2000s,
// anything later in the 1900s.
func ResolveBirthDate(yymmdd string, now time.Time) (time.Time, error) {
	yy, mm, dd, err := splitDate(yymmdd)
	if err != nil {
		return time.Time{}, err
	}

	century := 1900
	if yy <= now.Year()%100+5 {
		century = 2000
	}
	return makeDate(century+yy, mm, dd, yymmdd)
}

// ResolveExpiryDate expands a YYMMDD expiry date to a full date. When birth
// is known, the expiry is placed in the birth century if its two-digit year
// is not earlier than the birth year's, otherwise in the following century.
// Without a birth date, years up to twenty past the current two-digit year
// are placed in the 2000s.
func ResolveExpiryDate(yymmdd string, birth time.Time, now time.Time) (time.Time, error) {
	yy, mm, dd, err := splitDate(yymmdd)
	if err != nil {
		return time.Time{}, err
	}

	var century int
	if !birth.IsZero() {
		ref := birth.Year()
		century = ref / 100 * 100
		if yy < ref%100 {
			century += 100
		}
	} else {
		century = 1900
		if yy <= now.Year()%100+20 {
			century = 2000
		}
	}
	return makeDate(century+yy, mm, dd, yymmdd)
}

// Dates resolves the birth and expiry dates of m relative to now. The expiry
// date uses the resolved birth year as its reference when the birth date is
// valid.
func (m MRZ) Dates(now time.Time) (birth, expiry time.Time, err error) {
	birth, birthErr := ResolveBirthDate(m.BirthDate, now)
	if birthErr != nil {
		birth = time.Time{}
	}
	expiry, err = ResolveExpiryDate(m.ExpiryDate, birth, now)
	if err != nil {
		return birth, time.Time{}, fmt.Errorf("expiry date: %w", err)
	}
	if birthErr != nil {
		return time.Time{}, expiry, fmt.Errorf("birth date: %w", birthErr)
	}
	return birth, expiry, nil
}

func splitDate(s string) (yy, mm, dd int, err error) {
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	var parts [3]int
	for i := 0; i < 3; i++ {
		hi, lo := s[2*i], s[2*i+1]
		if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		parts[i] = int(hi-'0')*10 + int(lo-'0')
	}
	return parts[0], parts[1], parts[2], nil
}

func makeDate(year, month, day int, raw string) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}
