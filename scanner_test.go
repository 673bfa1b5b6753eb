package mrzscan

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/mrzscan/correct"
	"github.com/tsawler/mrzscan/model"
)

const (
	icaoLine1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	icaoLine2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"

	// icaoLine2 with the birth date's 0 read as O.
	misreadLine2 = "L898902C36UTO74O8122F1204159ZE184226B<<<<<10"
)

var testNow = time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// writeFile writes data to a file in a temporary directory and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLines_Valid(t *testing.T) {
	res, warnings, err := Lines(icaoLine1, icaoLine2).Now(testNow).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}

	m := res.MRZ
	if !m.ChecksumsValid {
		t.Errorf("ChecksumsValid = false, failed: %v", m.Checks.Failed())
	}
	if m.Surname != "ERIKSSON" || m.GivenNames != "ANNA MARIA" {
		t.Errorf("names = %q / %q", m.Surname, m.GivenNames)
	}
	if m.PassportNumber != "L898902C3" {
		t.Errorf("PassportNumber = %q", m.PassportNumber)
	}
	if res.Report.Stage != correct.StageDirect || res.Report.Corrected() {
		t.Errorf("Report = %+v, want direct without substitutions", res.Report)
	}
	if !res.BirthDate.Equal(date(1974, time.August, 12)) {
		t.Errorf("BirthDate = %v", res.BirthDate)
	}
	if !res.ExpiryDate.Equal(date(2012, time.April, 15)) {
		t.Errorf("ExpiryDate = %v", res.ExpiryDate)
	}
}

func TestLines_Corrected(t *testing.T) {
	m, warnings, err := Lines(icaoLine1, misreadLine2).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Fatalf("ChecksumsValid = false, failed: %v", m.Checks.Failed())
	}
	if m.BirthDate != "740812" {
		t.Errorf("BirthDate = %q, want 740812", m.BirthDate)
	}
	if !HasWarning(warnings, WarningCorrected) {
		t.Errorf("missing corrected warning: %s", FormatWarnings(warnings))
	}
	if !strings.Contains(FormatWarnings(warnings), "birth_date[15]") {
		t.Errorf("warning does not name the substitution: %s", FormatWarnings(warnings))
	}
}

func TestLines_NoCorrection(t *testing.T) {
	res, warnings, err := Lines(icaoLine1, misreadLine2).NoCorrection().Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if res.MRZ.ChecksumsValid {
		t.Error("ChecksumsValid = true, want false without correction")
	}
	if res.Report.Corrected() {
		t.Errorf("Report = %+v, want no substitutions", res.Report)
	}
	if !HasWarning(warnings, WarningChecksumFailed) {
		t.Errorf("missing checksum warning: %s", FormatWarnings(warnings))
	}
	if !strings.Contains(FormatWarnings(warnings), "birth_date, composite") {
		t.Errorf("warning does not list failed checks: %s", FormatWarnings(warnings))
	}
}

func TestLines_Unrecoverable(t *testing.T) {
	badDate := "L898902C36UTO7413122F1204159ZE184226B<<<<<10"

	res, warnings, err := Lines(icaoLine1, badDate).Now(testNow).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if res.MRZ.ChecksumsValid {
		t.Error("ChecksumsValid = true, want false")
	}
	if !HasWarning(warnings, WarningChecksumFailed) || !HasWarning(warnings, WarningInvalidDate) {
		t.Errorf("warnings = %s, want checksum_failed and invalid_date", FormatWarnings(warnings))
	}
	if !res.BirthDate.IsZero() {
		t.Errorf("BirthDate = %v, want zero", res.BirthDate)
	}
	if !res.ExpiryDate.Equal(date(2012, time.April, 15)) {
		t.Errorf("ExpiryDate = %v", res.ExpiryDate)
	}
}

func TestLines_PrefixRepaired(t *testing.T) {
	m, warnings, err := Lines("PO"+icaoLine1[2:], icaoLine2).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.DocumentType != "P<" || m.Line1 != icaoLine1 {
		t.Errorf("DocumentType = %q, Line1 = %q", m.DocumentType, m.Line1)
	}
	if !HasWarning(warnings, WarningPrefixRepaired) {
		t.Errorf("missing prefix warning: %s", FormatWarnings(warnings))
	}

	m, warnings, err = Lines("PO"+icaoLine1[2:], icaoLine2).NoCorrection().Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.DocumentType != "PO" || HasWarning(warnings, WarningPrefixRepaired) {
		t.Errorf("NoCorrection repaired the prefix: %q, %s", m.DocumentType, FormatWarnings(warnings))
	}
}

func TestScanner_Immutable(t *testing.T) {
	base := Lines(icaoLine1, misreadLine2)
	_ = base.NoCorrection().Budget(0)

	m, _, err := base.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Error("configuring a derived Scanner changed the base Scanner")
	}
}

func TestScanner_Budget(t *testing.T) {
	res, _, err := Lines(icaoLine1, misreadLine2).Budget(0).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if res.MRZ.ChecksumsValid || res.Report.Attempts != 0 {
		t.Errorf("Budget(0) result valid = %v, attempts = %d", res.MRZ.ChecksumsValid, res.Report.Attempts)
	}
}

func TestScanner_Confusions(t *testing.T) {
	line2 := "L898902C36UTO74D8122F1204159ZE184226B<<<<<10"

	m, _, err := Lines(icaoLine1, line2).Confusions(correct.ConfusionMap{'D': '0'}).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Errorf("custom confusion table not used, failed: %v", m.Checks.Failed())
	}
}

func TestScanner_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		s    *Scanner
	}{
		{"negative budget", Lines(icaoLine1, icaoLine2).Budget(-1)},
		{"band above one", Lines(icaoLine1, icaoLine2).MRZBand(1.5)},
		{"negative band", Lines(icaoLine1, icaoLine2).MRZBand(-0.1)},
		{"empty language", Lines(icaoLine1, icaoLine2).Language(" ")},
		{"negative height", Lines(icaoLine1, icaoLine2).MinHeight(-1)},
		{"error survives chaining", Lines(icaoLine1, icaoLine2).Budget(-1).Budget(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.s.Parse(); err == nil {
				t.Error("Parse() error = nil, want configuration error")
			}
		})
	}
}

func TestFromText(t *testing.T) {
	text := strings.Join([]string{
		"UTOPIA",
		"PASSPORT   PASSEPORT",
		"ISSUED BY THE MINISTRY OF FOREIGN AFFAIRS 2012",
		"p< uto eriksson<<anna<maria<<<<<<<<<<<<<<<<<<<",
		misreadLine2,
	}, "\n")

	res, _, err := FromText(text).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !res.MRZ.ChecksumsValid {
		t.Errorf("ChecksumsValid = false, failed: %v", res.MRZ.Checks.Failed())
	}
	if res.Selection.Line1.Index != 3 || res.Selection.Line2.Index != 4 {
		t.Errorf("selected lines %d and %d, want 3 and 4", res.Selection.Line1.Index, res.Selection.Line2.Index)
	}
}

func TestFromText_NoCandidates(t *testing.T) {
	if _, _, err := FromText("UTOPIA\nPASSPORT").Parse(); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Parse() error = %v, want ErrNoCandidates", err)
	}
}

func TestFromLines_CopiesInput(t *testing.T) {
	lines := []model.TextLine{{Text: icaoLine1}, {Text: icaoLine2}}
	s := FromLines(lines)
	lines[0].Text = "garbage"

	m, _, err := s.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.Surname != "ERIKSSON" {
		t.Errorf("Surname = %q, FromLines did not copy its input", m.Surname)
	}
}

func TestOpen_Text(t *testing.T) {
	path := writeFile(t, "mrz.txt", []byte(icaoLine1+"\n"+icaoLine2+"\n"))

	m, _, err := Open(path).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Errorf("ChecksumsValid = false, failed: %v", m.Checks.Failed())
	}
}

func TestOpen_HOCR(t *testing.T) {
	doc := `<html><head><meta name='ocr-system' content='tesseract 5.3.0' /></head><body>
<div class='ocr_page' title='bbox 0 0 1000 600'>
<span class='ocr_line' title='bbox 20 510 980 550'><span class='ocrx_word' title='bbox 20 510 980 550; x_wconf 90'>` + misreadLine2 + `</span></span>
<span class='ocr_line' title='bbox 20 450 980 490'><span class='ocrx_word' title='bbox 20 450 980 490; x_wconf 90'>` + strings.ReplaceAll(icaoLine1, "<", "&lt;") + `</span></span>
</div></body></html>`
	path := writeFile(t, "page.hocr", []byte(strings.ReplaceAll(doc, misreadLine2, strings.ReplaceAll(misreadLine2, "<", "&lt;"))))

	m, warnings, err := Open(path).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Errorf("ChecksumsValid = false, failed: %v", m.Checks.Failed())
	}
	if !HasWarning(warnings, WarningCorrected) {
		t.Errorf("missing corrected warning: %s", FormatWarnings(warnings))
	}
}

// fakeRecognizer records the image it was given and returns fixed lines.
type fakeRecognizer struct {
	got   []byte
	lines []model.TextLine
	err   error
}

func (f *fakeRecognizer) RecognizeLines(imageData []byte) ([]model.TextLine, error) {
	f.got = imageData
	return f.lines, f.err
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestOpen_Image(t *testing.T) {
	path := writeFile(t, "passport.png", testPNG(t, 200, 100))
	rec := &fakeRecognizer{lines: []model.TextLine{
		{Text: misreadLine2, Confidence: 80, BBox: model.NewBBox(5, 60, 190, 20)},
		{Text: icaoLine1, Confidence: 85, BBox: model.NewBBox(5, 20, 190, 20)},
	}}

	m, _, err := Open(path).MRZBand(0.5).MinHeight(100).Recognizer(rec).Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !m.ChecksumsValid {
		t.Errorf("ChecksumsValid = false, failed: %v", m.Checks.Failed())
	}

	img, err := png.Decode(bytes.NewReader(rec.got))
	if err != nil {
		t.Fatalf("recognizer was not given a PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 400, 100) {
		t.Errorf("prepared image bounds = %v, want (0,0)-(400,100)", img.Bounds())
	}
}

func TestOpen_RecognizerError(t *testing.T) {
	path := writeFile(t, "passport.png", testPNG(t, 20, 10))
	rec := &fakeRecognizer{err: errors.New("engine crashed")}

	if _, _, err := Open(path).Recognizer(rec).Parse(); err == nil || !strings.Contains(err.Error(), "engine crashed") {
		t.Errorf("Parse() error = %v, want recognizer error", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.png")).Parse(); err == nil {
		t.Error("Parse() of a missing file returned nil error")
	}
	if _, _, err := Open("").Parse(); err == nil {
		t.Error("Parse() without a filename returned nil error")
	}

	path := writeFile(t, "document.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"))
	if _, _, err := Open(path).Parse(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSelect_Pair(t *testing.T) {
	sel, err := Lines(icaoLine1, icaoLine2).Select()
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if sel.Line1.Text != icaoLine1 || sel.Line2.Text != icaoLine2 {
		t.Errorf("Select() = %+v", sel)
	}
}

func TestMust(t *testing.T) {
	sel := Must(Lines(icaoLine1, icaoLine2).Select())
	if sel.Line2.Index != 1 {
		t.Errorf("Must() = %+v", sel)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustParse() did not panic on error")
		}
	}()
	MustParse(Lines(icaoLine1, icaoLine2).Budget(-1).Parse())
}

func TestWarningType_String(t *testing.T) {
	tests := []struct {
		t    WarningType
		want string
	}{
		{WarningPrefixRepaired, "prefix_repaired"},
		{WarningCorrected, "corrected"},
		{WarningChecksumFailed, "checksum_failed"},
		{WarningInvalidDate, "invalid_date"},
		{WarningType(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("WarningType(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Type: WarningPrefixRepaired, Message: "a"},
		{Type: WarningChecksumFailed, Message: "b"},
	}
	if got := FormatWarnings(warnings); got != "prefix_repaired: a; checksum_failed: b" {
		t.Errorf("FormatWarnings() = %q", got)
	}
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("FormatWarnings(nil) = %q, want empty", got)
	}
}
