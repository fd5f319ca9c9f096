package suggest

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/assets"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/textutil"
)

// Summarizer condenses OCR'd conversation text into one situation summary.
type Summarizer struct {
	backend chat.Backend
}

// NewSummarizer creates a situation summarizer over the given backend.
func NewSummarizer(backend chat.Backend) *Summarizer {
	return &Summarizer{backend: backend}
}

// Run summarizes the conversation. Backend failure degrades to an empty
// summary; the caller sees a result that is empty only on total failure.
func (s *Summarizer) Run(ctx context.Context, text string) string {
	raw, err := s.backend.Complete(ctx, chat.Request{
		Bundle: assets.BundleSituationSummary,
		Input:  text,
	})
	if err != nil {
		log.Warn().Err(err).Msg("situation summary failed, degrading to empty")
		return ""
	}

	summary := textutil.DeduplicateSentences(raw)
	log.Debug().
		Int("summary_length", len([]rune(summary))).
		Msg("situation summary complete")
	return summary
}
