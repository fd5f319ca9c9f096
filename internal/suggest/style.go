package suggest

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/assets"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/parse"
)

// StyleResult is the typed outcome of one style-analysis call. Fields the
// model did not produce are empty strings; when both Tone and Purpose are
// missing the whole result is replaced by sentinels (see StyleAgent.Run).
type StyleResult struct {
	Raw       string
	Situation string
	Tone      string
	Purpose   string
}

// StyleAgent turns conversation text into a (situation, tone, purpose)
// triple via a single style-analysis call.
type StyleAgent struct {
	backend chat.Backend
}

// NewStyleAgent creates a style analyzer over the given backend.
func NewStyleAgent(backend chat.Backend) *StyleAgent {
	return &StyleAgent{backend: backend}
}

// Run analyzes the conversation text. It never fails: a transport error, an
// empty decode, or output missing both the tone and purpose labels all
// degrade to the sentinel tone/purpose pair. Output varies call to call
// because the analysis uses a randomized sampling seed.
func (s *StyleAgent) Run(ctx context.Context, text string) StyleResult {
	raw, err := s.backend.Complete(ctx, chat.Request{
		Bundle:     assets.BundleStyleAnalysis,
		Input:      text,
		RandomSeed: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("style analysis failed, using sentinels")
		return StyleResult{Tone: DefaultTone, Purpose: GeneralPurpose}
	}
	if strings.TrimSpace(raw) == "" {
		log.Warn().Msg("style analysis returned empty output, using sentinels")
		return StyleResult{Tone: DefaultTone, Purpose: GeneralPurpose}
	}

	fields := parse.Fields(raw, parse.StyleLabels)
	result := StyleResult{
		Raw:       raw,
		Situation: fields["situation"],
		Tone:      fields["tone"],
		Purpose:   fields["purpose"],
	}
	if result.Tone == "" && result.Purpose == "" {
		log.Warn().Str("raw", raw).Msg("style analysis output had no tone or purpose label")
		result.Tone = DefaultTone
		result.Purpose = GeneralPurpose
	}

	log.Debug().
		Str("tone", result.Tone).
		Str("purpose", result.Purpose).
		Msg("style analysis complete")
	return result
}
