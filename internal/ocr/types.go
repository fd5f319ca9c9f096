// Package ocr extracts conversation text from chat screenshots via the
// CLOVA OCR batch endpoint. The extraction agent wraps the backend call with
// image preprocessing, a minimum-length quality gate with bounded retries,
// and a text cleanup pass.
package ocr

import (
	"context"
	"errors"
	"strings"
)

// ErrNoImages is returned when the caller submits an empty image set.
// No backend call is attempted in that case.
var ErrNoImages = errors.New("ocr: no images provided")

// ImageInput is one caller-owned screenshot. The agent never retains a
// reference to the bytes beyond its own call.
type ImageInput struct {
	Name string
	Data []byte
}

// ProcessedImage is the preprocessed form submitted to the backend,
// one-to-one with its ImageInput.
type ProcessedImage struct {
	Name   string
	Format string
	Data   []byte
}

// Field is one recognized text region in an image.
type Field struct {
	InferText string `json:"inferText"`
}

// ImageResult holds the recognized fields for one submitted image.
type ImageResult struct {
	Fields []Field `json:"fields"`
}

// Result is the decoded OCR backend response for a batch submission.
type Result struct {
	Images []ImageResult `json:"images"`
}

// Text concatenates every recognized field across all images, space-joined
// in submission order.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, img := range r.Images {
		for _, f := range img.Fields {
			if f.InferText != "" {
				parts = append(parts, f.InferText)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Backend submits one batch of preprocessed images and returns the decoded
// recognition result. Implementations must return an error for transport
// failures and non-success statuses; the agent owns retries.
type Backend interface {
	Run(ctx context.Context, images []ProcessedImage) (*Result, error)
}
