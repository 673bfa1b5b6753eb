package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/tsawler/mrzscan"
	"github.com/tsawler/mrzscan/correct"
)

const dateLayout = "2006-01-02"

// record is the flattened result written by every output format.
type record struct {
	DocumentType   string `json:"document_type" csv:"document_type"`
	IssuingCountry string `json:"issuing_country" csv:"issuing_country"`
	Surname        string `json:"surname" csv:"surname"`
	GivenNames     string `json:"given_names" csv:"given_names"`
	PassportNumber string `json:"passport_number" csv:"passport_number"`
	Nationality    string `json:"nationality" csv:"nationality"`
	BirthDate      string `json:"birth_date" csv:"birth_date"`
	Sex            string `json:"sex" csv:"sex"`
	ExpiryDate     string `json:"expiry_date" csv:"expiry_date"`
	PersonalNumber string `json:"personal_number" csv:"personal_number"`
	ChecksumsValid bool   `json:"checksums_valid" csv:"checksums_valid"`
	FailedChecks   string `json:"failed_checks,omitempty" csv:"failed_checks"`
	Stage          string `json:"stage" csv:"stage"`
	Attempts       int    `json:"attempts" csv:"attempts"`
	Substitutions  string `json:"substitutions,omitempty" csv:"substitutions"`
	Line1          string `json:"line1" csv:"line1"`
	Line2          string `json:"line2" csv:"line2"`

	Warnings    []string `json:"warnings,omitempty" csv:"-"`
	WarningText string   `json:"-" csv:"warnings"`
}

func newRecord(res mrzscan.Result, warnings []mrzscan.Warning) record {
	m := res.MRZ
	r := record{
		DocumentType:   m.DocumentType,
		IssuingCountry: m.IssuingCountry,
		Surname:        m.Surname,
		GivenNames:     m.GivenNames,
		PassportNumber: m.PassportNumber,
		Nationality:    m.Nationality,
		BirthDate:      formatDate(res.BirthDate, m.BirthDate),
		Sex:            m.Sex,
		ExpiryDate:     formatDate(res.ExpiryDate, m.ExpiryDate),
		PersonalNumber: m.PersonalNumber,
		ChecksumsValid: m.ChecksumsValid,
		FailedChecks:   strings.Join(m.Checks.Failed(), " "),
		Stage:          res.Report.Stage.String(),
		Attempts:       res.Report.Attempts,
		Substitutions:  strings.Join(substitutions(res.Report), " "),
		Line1:          m.Line1,
		Line2:          m.Line2,
		WarningText:    mrzscan.FormatWarnings(warnings),
	}
	for _, w := range warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

// formatDate returns the resolved date, or the raw field when it is not a
// calendar date.
func formatDate(t time.Time, raw string) string {
	if t.IsZero() {
		return raw
	}
	return t.Format(dateLayout)
}

func substitutions(r correct.Report) []string {
	subs := make([]string, len(r.Substitutions))
	for i, s := range r.Substitutions {
		subs[i] = s.String()
	}
	return subs
}

// writeResult writes r to w in the named format.
func writeResult(w io.Writer, format string, r record) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		return nil
	case "csv":
		return writeCSV(w, r)
	case "text", "":
		return writeText(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeCSV(w io.Writer, r record) error {
	cw := csv.NewWriter(w)
	if err := csvutil.NewEncoder(cw).Encode(r); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeText(w io.Writer, r record) error {
	rows := [][2]string{
		{"Document type", r.DocumentType},
		{"Issuing country", r.IssuingCountry},
		{"Surname", r.Surname},
		{"Given names", r.GivenNames},
		{"Passport number", r.PassportNumber},
		{"Nationality", r.Nationality},
		{"Birth date", r.BirthDate},
		{"Sex", r.Sex},
		{"Expiry date", r.ExpiryDate},
		{"Personal number", r.PersonalNumber},
		{"Checksums valid", fmt.Sprint(r.ChecksumsValid)},
	}
	if r.FailedChecks != "" {
		rows = append(rows, [2]string{"Failed checks", r.FailedChecks})
	}
	rows = append(rows, [2]string{"Stage", r.Stage})
	if r.Substitutions != "" {
		rows = append(rows, [2]string{"Substitutions", r.Substitutions})
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-16s %s\n", row[0]+":", row[1])
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", warn)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
