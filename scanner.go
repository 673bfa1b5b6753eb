package mrzscan

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tsawler/mrzscan/correct"
	"github.com/tsawler/mrzscan/format"
	"github.com/tsawler/mrzscan/internal/imaging"
	"github.com/tsawler/mrzscan/locate"
	"github.com/tsawler/mrzscan/model"
	"github.com/tsawler/mrzscan/ocr"
	"github.com/tsawler/mrzscan/sanitize"
	"github.com/tsawler/mrzscan/td3"
)

// Recognizer turns a prepared PNG image into text lines.
// *ocr.Client implements it.
type Recognizer interface {
	RecognizeLines(imageData []byte) ([]model.TextLine, error)
}

type sourceKind int

const (
	sourcePair  sourceKind = iota // two lines given directly
	sourceLines                   // unordered recognized lines
	sourceFile                    // image, hOCR or text file
)

// Result is the outcome of a scan.
type Result struct {
	// MRZ is the parsed zone. Check MRZ.ChecksumsValid before trusting it.
	MRZ td3.MRZ

	// Report describes the correction steps that were taken.
	Report correct.Report

	// Selection holds the lines the MRZ was read from, before correction.
	Selection locate.Selection

	// BirthDate and ExpiryDate are the resolved dates. They are zero when
	// the field is not a calendar date.
	BirthDate  time.Time
	ExpiryDate time.Time
}

// Scanner provides a fluent interface for reading an MRZ from lines, text
// or files. Each configuration method returns a new Scanner instance, making
// it safe for concurrent use and allowing method chaining.
type Scanner struct {
	// Source
	kind         sourceKind
	line1, line2 string
	lines        []model.TextLine
	filename     string

	// Configuration
	options ScanOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Scanner with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (s *Scanner) clone() *Scanner {
	return &Scanner{
		kind:     s.kind,
		line1:    s.line1,
		line2:    s.line2,
		lines:    s.lines,
		filename: s.filename,
		options:  s.options.clone(),
		err:      s.err,
	}
}

// ============================================================================
// Configuration
// ============================================================================

// Budget sets the maximum number of substitution trials of the per-field
// search. The default is 200. Zero disables the search.
//
// Example:
//
//	m, _, err := mrzscan.Lines(l1, l2).Budget(500).Parse()
func (s *Scanner) Budget(n int) *Scanner {
	newS := s.clone()
	if n < 0 {
		newS.err = fmt.Errorf("invalid budget %d: must not be negative", n)
		return newS
	}
	newS.options.budget = n
	return newS
}

// NoCorrection parses the lines as recognized, without prefix repair or
// OCR confusion correction.
//
// Example:
//
//	m, _, err := mrzscan.Lines(l1, l2).NoCorrection().Parse()
func (s *Scanner) NoCorrection() *Scanner {
	newS := s.clone()
	newS.options.correct = false
	return newS
}

// Confusions replaces the letter-to-digit confusion table used for
// correction.
//
// Example:
//
//	table := correct.ConfusionMap{'O': '0', 'D': '0'}
//	m, _, err := mrzscan.Lines(l1, l2).Confusions(table).Parse()
func (s *Scanner) Confusions(m correct.ConfusionMap) *Scanner {
	newS := s.clone()
	newS.options.confusions = make(correct.ConfusionMap, len(m))
	for k, v := range m {
		newS.options.confusions[k] = v
	}
	return newS
}

// Language sets the Tesseract language used for image sources, for
// example "eng" or "eng+ocrb".
func (s *Scanner) Language(lang string) *Scanner {
	newS := s.clone()
	if strings.TrimSpace(lang) == "" {
		newS.err = fmt.Errorf("invalid language: must not be empty")
		return newS
	}
	newS.options.language = lang
	return newS
}

// MRZBand restricts recognition of image sources to the bottom fraction of
// the image, where the MRZ is printed. Zero or one uses the whole image.
//
// Example:
//
//	m, _, err := mrzscan.Open("passport.jpg").MRZBand(0.18).Parse()
func (s *Scanner) MRZBand(fraction float64) *Scanner {
	newS := s.clone()
	if fraction < 0 || fraction > 1 {
		newS.err = fmt.Errorf("invalid MRZ band %v: %w", fraction, imaging.ErrInvalidBand)
		return newS
	}
	newS.options.band = fraction
	return newS
}

// MinHeight sets the height in pixels image sources are upscaled to before
// recognition. Zero disables upscaling.
func (s *Scanner) MinHeight(px int) *Scanner {
	newS := s.clone()
	if px < 0 {
		newS.err = fmt.Errorf("invalid minimum height %d: must not be negative", px)
		return newS
	}
	newS.options.minHeight = px
	return newS
}

// Recognizer sets the recognizer used for image sources. By default a
// Tesseract client is created for each scan.
func (s *Scanner) Recognizer(r Recognizer) *Scanner {
	newS := s.clone()
	newS.options.recognize = r
	return newS
}

// Now sets the reference time two-digit years are resolved against. By
// default the current time is used.
func (s *Scanner) Now(t time.Time) *Scanner {
	newS := s.clone()
	newS.options.now = t
	return newS
}

// ============================================================================
// Terminal operations
// ============================================================================

// Select returns the two lines the MRZ would be read from.
func (s *Scanner) Select() (locate.Selection, error) {
	if s.err != nil {
		return locate.Selection{}, s.err
	}

	if s.kind == sourcePair {
		return locate.Selection{
			Line1: locate.Candidate{Text: s.line1, Source: model.TextLine{Text: s.line1}, Index: 0},
			Line2: locate.Candidate{Text: s.line2, Source: model.TextLine{Text: s.line2}, Index: 1},
		}, nil
	}

	lines := s.lines
	if s.kind == sourceFile {
		var err error
		if lines, err = s.readFile(); err != nil {
			return locate.Selection{}, err
		}
	}

	return locate.Select(lines)
}

// Parse reads the MRZ and returns the parsed zone, any warnings, and an
// error if no result could be produced. Warnings indicate non-fatal issues
// (e.g., failed check digits) where parsing succeeded but the result may
// be wrong.
//
// Example:
//
//	m, warnings, err := mrzscan.Lines(l1, l2).Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !m.ChecksumsValid {
//	    log.Println("Warnings:", mrzscan.FormatWarnings(warnings))
//	}
func (s *Scanner) Parse() (td3.MRZ, []Warning, error) {
	res, warnings, err := s.Scan()
	return res.MRZ, warnings, err
}

// Scan reads the MRZ and returns the full result, including the correction
// report and the resolved dates.
func (s *Scanner) Scan() (Result, []Warning, error) {
	sel, err := s.Select()
	if err != nil {
		return Result{}, nil, err
	}

	res := Result{Selection: sel}
	var warnings []Warning
	line1, line2 := sel.Line1.Text, sel.Line2.Text

	if s.options.correct {
		if repaired, ok := locate.RepairPrefix(sanitize.NormalizeTD3(line1)); ok {
			warnings = append(warnings, Warning{
				Type:    WarningPrefixRepaired,
				Message: fmt.Sprintf("line 1 prefix %q read as \"P<\"", sanitize.NormalizeTD3(line1)[:2]),
			})
			line1 = repaired
		}

		m, report, err := s.options.corrector().Correct(line1, line2)
		res.Report = report
		if err != nil {
			return res, warnings, err
		}
		res.MRZ = m

		if report.Corrected() {
			subs := make([]string, len(report.Substitutions))
			for i, sub := range report.Substitutions {
				subs[i] = sub.String()
			}
			warnings = append(warnings, Warning{
				Type:    WarningCorrected,
				Message: fmt.Sprintf("line 2 corrected by %s: %s", report.Stage, strings.Join(subs, ", ")),
			})
		}
	} else {
		m, err := td3.Parse(line1, line2)
		if err != nil {
			return res, warnings, err
		}
		res.MRZ = m
		res.Report = correct.Report{Stage: correct.StageDirect}
	}

	if !res.MRZ.ChecksumsValid {
		warnings = append(warnings, Warning{
			Type:    WarningChecksumFailed,
			Message: "failed checks: " + strings.Join(res.MRZ.Checks.Failed(), ", "),
		})
	}

	birth, expiry, err := res.MRZ.Dates(s.options.referenceTime())
	res.BirthDate, res.ExpiryDate = birth, expiry
	if err != nil {
		warnings = append(warnings, Warning{Type: WarningInvalidDate, Message: err.Error()})
	}

	return res, warnings, nil
}

// readFile loads the lines of a file source.
func (s *Scanner) readFile() ([]model.TextLine, error) {
	if s.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	data, err := os.ReadFile(s.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch f := format.Resolve(s.filename, data); {
	case f.IsImage():
		return s.recognize(data)
	case f == format.HOCR:
		lines, err := ocr.ParseHOCR(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read hOCR: %w", err)
		}
		return lines, nil
	case f == format.Text:
		return model.LinesFromText(string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.filename)
	}
}

// recognize prepares an image and runs the recognizer on it.
func (s *Scanner) recognize(data []byte) ([]model.TextLine, error) {
	prepared, err := imaging.Prepare(data, imaging.Options{
		Band:      s.options.band,
		MinHeight: s.options.minHeight,
	})
	if err != nil {
		return nil, err
	}

	r := s.options.recognize
	if r == nil {
		client, err := ocr.NewMRZ(s.options.language)
		if err != nil {
			return nil, fmt.Errorf("failed to start OCR: %w", err)
		}
		defer client.Close()
		r = client
	}

	lines, err := r.RecognizeLines(prepared)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize image: %w", err)
	}
	return lines, nil
}
