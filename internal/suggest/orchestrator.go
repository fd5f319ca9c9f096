package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/assets"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/textutil"
)

// replyAttempts is the fixed fan-out for reply generation. Attempts are
// independent calls with distinct random seeds, not refinement iterations.
const replyAttempts = 3

// Orchestrator composes reply and title generation per Mode.
type Orchestrator struct {
	backend  chat.Backend
	attempts int
}

// NewOrchestrator creates an orchestrator over the given backend.
func NewOrchestrator(backend chat.Backend) *Orchestrator {
	return &Orchestrator{backend: backend, attempts: replyAttempts}
}

// Run generates a suggestion batch for the given mode.
//
// All modes except ExtendExisting issue exactly three independent reply
// attempts plus one title call. A failed attempt fills its slot with the
// backend's diagnostic string instead of aborting, so reply order always
// matches attempt order. The only error is ErrEmptyInput, returned before
// any backend call when the mode carries no usable input text.
func (o *Orchestrator) Run(ctx context.Context, mode Mode) (Batch, error) {
	switch m := mode.(type) {
	case SituationOnly:
		if strings.TrimSpace(m.Situation) == "" {
			return Batch{}, ErrEmptyInput
		}
		return o.generate(ctx, assets.BundleReplySuggestion, m.Situation, m.Situation), nil

	case ManualStyle:
		if strings.TrimSpace(m.Situation) == "" {
			return Batch{}, ErrEmptyInput
		}
		input := composeStyledInput(m.Situation, m.Tone, m.Purpose, "")
		return o.generate(ctx, assets.BundleStyledReply, input, m.Situation), nil

	case ManualStyleWithDetail:
		if strings.TrimSpace(m.Situation) == "" {
			return Batch{}, ErrEmptyInput
		}
		input := composeStyledInput(m.Situation, m.Tone, m.Purpose, m.Detail)
		return o.generate(ctx, assets.BundleStyledReply, input, m.Situation), nil

	case ExtendExisting:
		if strings.TrimSpace(m.Suggestion) == "" {
			return Batch{}, ErrEmptyInput
		}
		return o.extend(ctx, m), nil

	default:
		return Batch{}, fmt.Errorf("suggest: unknown generation mode %T", mode)
	}
}

// generate runs the fixed reply fan-out over replyInput and one title call
// over titleInput.
func (o *Orchestrator) generate(ctx context.Context, bundle, replyInput, titleInput string) Batch {
	replies := make([]string, 0, o.attempts)
	for i := 0; i < o.attempts; i++ {
		text, err := o.backend.Complete(ctx, chat.Request{
			Bundle:     bundle,
			Input:      replyInput,
			RandomSeed: true,
		})
		if err != nil {
			// The diagnostic string takes the slot; the batch goes on.
			log.Warn().Err(err).Int("attempt", i+1).Msg("reply attempt failed")
			replies = append(replies, err.Error())
			continue
		}
		replies = append(replies, textutil.DeduplicateSentences(text))
	}

	return Batch{Replies: replies, Titles: o.titles(ctx, titleInput)}
}

// extend is a single-attempt regeneration of an existing suggestion.
func (o *Orchestrator) extend(ctx context.Context, m ExtendExisting) Batch {
	input := "기존 답변: " + m.Suggestion + "\n원하는 길이: " + m.Length
	if !detailOmitted(m.Detail) {
		input += "\n사용자가 추가적으로 제공하는 디테일한 내용: " + m.Detail
	}

	text, err := o.backend.Complete(ctx, chat.Request{
		Bundle:     assets.BundleExtendSuggestion,
		Input:      input,
		RandomSeed: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("extension attempt failed")
		return Batch{Replies: []string{err.Error()}, Titles: o.titles(ctx, m.Suggestion)}
	}

	return Batch{
		Replies: []string{textutil.DeduplicateSentences(text)},
		Titles:  o.titles(ctx, m.Suggestion),
	}
}

// titles is the single independent title call. Failure degrades to an empty
// list; titles are a garnish, never worth failing the batch for.
func (o *Orchestrator) titles(ctx context.Context, input string) []string {
	text, err := o.backend.Complete(ctx, chat.Request{
		Bundle: assets.BundleTitleSuggestion,
		Input:  input,
	})
	if err != nil {
		log.Warn().Err(err).Msg("title generation failed")
		return nil
	}
	return textutil.SplitSuggestionLines(text)
}

// composeStyledInput builds the labeled prompt input for the manual-style
// modes. Tone and purpose are embedded only when both are present; an
// omitted detail clause leaves the input at two sections.
func composeStyledInput(situation, tone, purpose, detail string) string {
	var sb strings.Builder
	sb.WriteString("상황: ")
	sb.WriteString(situation)
	if tone != "" && purpose != "" {
		sb.WriteString("\n말투: ")
		sb.WriteString(tone)
		sb.WriteString("\n용도: ")
		sb.WriteString(purpose)
	}
	if !detailOmitted(detail) {
		sb.WriteString("\n사용자가 추가적으로 제공하는 디테일한 내용: ")
		sb.WriteString(detail)
	}
	return sb.String()
}
