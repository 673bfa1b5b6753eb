package mrzscan

import (
	"fmt"
	"strings"
)

// WarningType classifies a non-fatal condition found while scanning.
type WarningType int

const (
	// WarningPrefixRepaired means line 1 started with "PO" or "P0" and was
	// read as "P<".
	WarningPrefixRepaired WarningType = iota + 1
	// WarningCorrected means characters of line 2 were substituted to make
	// the check digits match.
	WarningCorrected
	// WarningChecksumFailed means at least one check digit still fails.
	WarningChecksumFailed
	// WarningInvalidDate means a date field could not be resolved to a
	// calendar date.
	WarningInvalidDate
)

// String returns the string representation of the warning type.
func (t WarningType) String() string {
	switch t {
	case WarningPrefixRepaired:
		return "prefix_repaired"
	case WarningCorrected:
		return "corrected"
	case WarningChecksumFailed:
		return "checksum_failed"
	case WarningInvalidDate:
		return "invalid_date"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue: a result was produced but it was repaired
// or may be wrong.
type Warning struct {
	Type    WarningType
	Message string
}

// String formats the warning as "type: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Type, w.Message)
}

// FormatWarnings joins warnings into a single line.
//
// Example:
//
//	m, warnings, err := mrzscan.Lines(l1, l2).Parse()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", mrzscan.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// HasWarning reports whether warnings contains a warning of type t.
func HasWarning(warnings []Warning, t WarningType) bool {
	for _, w := range warnings {
		if w.Type == t {
			return true
		}
	}
	return false
}
