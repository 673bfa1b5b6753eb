package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// MRZWhitelist is the character set Tesseract is restricted to when
// reading an MRZ.
const MRZWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"
