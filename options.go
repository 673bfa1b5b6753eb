package mrzscan

import (
	"time"

	"github.com/tsawler/mrzscan/correct"
	"github.com/tsawler/mrzscan/internal/imaging"
)

// ScanOptions holds configuration for MRZ scanning.
type ScanOptions struct {
	// Correction
	correct    bool
	budget     int
	confusions correct.ConfusionMap

	// Recognition (image sources only)
	language  string
	band      float64 // fraction of the image height kept from the bottom, 0 = whole image
	minHeight int
	recognize Recognizer

	// Date resolution reference time; zero means time.Now at scan time
	now time.Time
}

// defaultOptions returns the default scan options.
func defaultOptions() ScanOptions {
	return ScanOptions{
		correct:    true,
		budget:     correct.DefaultBudget,
		confusions: nil, // nil means correct.DigitConfusions
		language:   "eng",
		band:       0,
		minHeight:  imaging.DefaultMinHeight,
		recognize:  nil, // nil means a Tesseract client per scan
	}
}

// clone creates a deep copy of ScanOptions.
func (o ScanOptions) clone() ScanOptions {
	newOpts := o

	// Deep copy confusion table
	if o.confusions != nil {
		newOpts.confusions = make(correct.ConfusionMap, len(o.confusions))
		for k, v := range o.confusions {
			newOpts.confusions[k] = v
		}
	}

	return newOpts
}

// corrector builds the Corrector described by the options.
func (o ScanOptions) corrector() *correct.Corrector {
	opts := []correct.Option{correct.WithBudget(o.budget)}
	if o.confusions != nil {
		opts = append(opts, correct.WithConfusions(o.confusions))
	}
	return correct.New(opts...)
}

// referenceTime returns the time two-digit years are resolved against.
func (o ScanOptions) referenceTime() time.Time {
	if o.now.IsZero() {
		return time.Now()
	}
	return o.now
}
