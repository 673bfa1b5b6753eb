//go:build ocr

// Package ocr recognizes MRZ text lines in document images and reads the
// hOCR output of OCR engines.
//
// Image recognition wraps the Tesseract OCR engine via gosseract and is only
// compiled with the "ocr" build tag. It requires Tesseract to be installed
// on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/mrzscan/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// NewMRZ creates a client configured for MRZ recognition with ConfigureMRZ.
func NewMRZ(lang string) (*Client, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to set language %q: %w", lang, err)
		}
	}
	if err := c.ConfigureMRZ(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ConfigureMRZ restricts recognition to the MRZ alphabet and treats the
// image as a single uniform block of text.
func (c *Client) ConfigureMRZ() error {
	if err := c.client.SetWhitelist(MRZWhitelist); err != nil {
		return fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := c.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeLines performs OCR on image data and returns one TextLine per
// recognized text line, with its bounding box and confidence.
func (c *Client) RecognizeLines(imageData []byte) ([]model.TextLine, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	lines := make([]model.TextLine, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, model.TextLine{
			Text:       text,
			Confidence: b.Confidence,
			BBox:       model.BBoxFromRect(b.Box),
		})
	}
	return lines, nil
}

// HOCR performs OCR on image data and returns the result as hOCR.
func (c *Client) HOCR(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	out, err := c.client.HOCRText()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return out, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
