// Package td3 decodes the two-line, 44 character machine readable zone of
// ICAO 9303 TD3 travel documents (passports).
//
// # Layout
//
// Line 1 holds the document type (positions 0-1), the issuing country
// (2-4) and the names field (5-43). The first "<<" in the names field
// separates the surname from the given names.
//
// Line 2 holds the check-digit protected fields described by [Fields]:
//
//   - [PassportNumber] 0-8, check digit 9
//   - [BirthDate] 13-18 (YYMMDD), check digit 19
//   - [ExpiryDate] 21-26 (YYMMDD), check digit 27
//   - [PersonalNumber] 28-41, check digit 42
//
// plus the nationality (10-12), the sex code (20) and the final composite
// check digit (43), computed over [Composite].
//
// # Validation
//
// [Parse] always returns an [MRZ] when the lines can be laid out, whatever
// the check digits say. [MRZ.ChecksumsValid] is the AND of the five checks,
// and [MRZ.Checks] tells which of them failed. An all-filler personal number
// waives its own check. The only error is [ErrInvalidFormat].
//
// # Dates
//
// MRZ dates carry two-digit years. [ResolveBirthDate], [ResolveExpiryDate]
// and [MRZ.Dates] pick a century for them.
package td3
