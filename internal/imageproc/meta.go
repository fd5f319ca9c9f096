package imageproc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// ScreenshotMeta is the subset of EXIF metadata worth logging for an
// uploaded screenshot: dimensions for OCR sizing decisions, capture time and
// device for debugging user reports ("the 10pm screenshot from my phone").
type ScreenshotMeta struct {
	Width       int
	Height      int
	DateTaken   time.Time
	HasDate     bool
	DeviceMake  string
	DeviceModel string
}

// ProbeMetadata extracts EXIF metadata from screenshot bytes using the
// imagemeta library (pure Go; handles JPEG, PNG, HEIC containers). Missing
// or unparseable metadata is normal for screenshots — they usually carry
// none — so failures return an empty ScreenshotMeta, not an error.
func ProbeMetadata(data []byte) ScreenshotMeta {
	meta := ScreenshotMeta{}

	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("no usable metadata in screenshot")
		return meta
	}

	meta.Width = int(exifData.ImageWidth)
	meta.Height = int(exifData.ImageHeight)

	if !exifData.DateTimeOriginal().IsZero() {
		meta.DateTaken = exifData.DateTimeOriginal()
		meta.HasDate = true
	} else if !exifData.CreateDate().IsZero() {
		meta.DateTaken = exifData.CreateDate()
		meta.HasDate = true
	}

	meta.DeviceMake = strings.TrimSpace(exifData.Make)
	meta.DeviceModel = strings.TrimSpace(exifData.Model)
	return meta
}

// Summary renders the metadata as one log-friendly line.
func (m ScreenshotMeta) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d", m.Width, m.Height)
	if m.HasDate {
		fmt.Fprintf(&sb, " taken %s", m.DateTaken.Format("2006-01-02 15:04"))
	}
	if m.DeviceModel != "" {
		fmt.Fprintf(&sb, " on %s %s", m.DeviceMake, m.DeviceModel)
	}
	return sb.String()
}
