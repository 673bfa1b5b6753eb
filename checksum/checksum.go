// Package checksum implements the ICAO 9303 weighted modulus-10 check digit.
//
// Each character of a field is assigned a value ('<' is 0, digits are their
// numeric value, letters A-Z are 10-35), multiplied by the repeating weights
// 7, 3, 1 and summed. The check digit is the sum modulo 10.
package checksum

import "errors"

// ErrInvalidChar is returned when a field contains a character outside the
// MRZ alphabet.
var ErrInvalidChar = errors.New("character has no check digit value")

// weights are applied cyclically from the first character of the field.
var weights = [3]int{7, 3, 1}

// Value returns the check digit value of c and whether c has one.
func Value(c byte) (int, bool) {
	switch {
	case c == '<':
		return 0, true
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// Compute returns the check digit of field, in the range 0-9.
func Compute(field string) (int, error) {
	sum := 0
	for i := 0; i < len(field); i++ {
		v, ok := Value(field[i])
		if !ok {
			return 0, ErrInvalidChar
		}
		sum += v * weights[i%3]
	}
	return sum % 10, nil
}

// Digit returns the check digit of field as the character '0'-'9'.
func Digit(field string) (byte, error) {
	d, err := Compute(field)
	if err != nil {
		return 0, err
	}
	return byte('0' + d), nil
}

// IsValid reports whether checkDigit is the check digit of field. It returns
// false when checkDigit is not a literal digit or when field contains a
// character without a value.
func IsValid(field string, checkDigit byte) bool {
	if checkDigit < '0' || checkDigit > '9' {
		return false
	}
	d, err := Compute(field)
	if err != nil {
		return false
	}
	return d == int(checkDigit-'0')
}
