// Package imageproc normalizes screenshot bytes before OCR submission.
//
// Chat screenshots come in with arbitrary resolutions, dark themes, and
// compression noise. The preprocessor converts to grayscale, stretches the
// contrast range, and bounds the longest dimension, which measurably improves
// OCR hit rates on low-contrast themes. Preprocessing must never sink the
// pipeline: any decode or encode failure returns the original bytes unchanged.
package imageproc

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the longest image side sent to the OCR backend.
const DefaultMaxDimension = 1920

// Preprocessor normalizes raw image bytes. The zero value is ready to use.
type Preprocessor struct {
	// MaxDimension is the resize bound; 0 means DefaultMaxDimension.
	MaxDimension int
}

// Preprocess returns a normalized copy of data: grayscale, contrast-stretched,
// resized to the configured bound, re-encoded as PNG. On any internal error
// the original bytes are returned unchanged — preprocessing is best-effort
// and never fails the pipeline.
func (p Preprocessor) Preprocess(data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("preprocess: decode failed, passing original bytes through")
		return data
	}

	gray := toGrayContrastStretched(img)
	resized := p.resize(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		log.Debug().Err(err).Msg("preprocess: encode failed, passing original bytes through")
		return data
	}

	log.Debug().
		Str("source_format", format).
		Int("in_bytes", len(data)).
		Int("out_bytes", buf.Len()).
		Msg("screenshot preprocessed")
	return buf.Bytes()
}

// toGrayContrastStretched converts img to grayscale and linearly rescales
// the luma range to the full 0..255 span. A flat image (min == max) is
// returned as plain grayscale.
func toGrayContrastStretched(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	minY, maxY := uint8(255), uint8(0)
	for _, v := range gray.Pix {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	if maxY <= minY {
		return gray
	}

	span := int(maxY) - int(minY)
	for i, v := range gray.Pix {
		gray.Pix[i] = uint8((int(v) - int(minY)) * 255 / span)
	}
	return gray
}

// resize scales the image down so its longest side is within the bound.
// Images already within the bound are returned as-is; upscaling is never done.
func (p Preprocessor) resize(img *image.Gray) *image.Gray {
	maxDim := p.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w >= h {
		newW = maxDim
		newH = h * maxDim / w
	} else {
		newH = maxDim
		newW = w * maxDim / h
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	resized := image.NewGray(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}

// Format sniffs the image format of data for the OCR request ("png", "jpg",
// "gif", ...). Unrecognized data defaults to "png", which is what the
// preprocessor emits anyway.
func Format(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "png"
	}
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
