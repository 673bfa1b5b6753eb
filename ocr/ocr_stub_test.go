//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	err := client.Close()
	if err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestStubMethodsReturnError(t *testing.T) {
	if _, err := NewMRZ("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("NewMRZ() error = %v, want ErrOCRNotEnabled", err)
	}

	client := &Client{}
	if err := client.ConfigureMRZ(); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("ConfigureMRZ() error = %v, want ErrOCRNotEnabled", err)
	}
	if _, err := client.RecognizeLines(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeLines() error = %v, want ErrOCRNotEnabled", err)
	}
	if _, err := client.HOCR(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("HOCR() error = %v, want ErrOCRNotEnabled", err)
	}
	if _, err := client.RecognizeImage(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage() error = %v, want ErrOCRNotEnabled", err)
	}
}
