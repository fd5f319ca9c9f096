package ocr

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/imageproc"
	"github.com/gleelab/glee-suggester/internal/retry"
	"github.com/gleelab/glee-suggester/internal/textutil"
)

const (
	// DefaultRetryBudget is the number of extra OCR attempts after the
	// first one (3 calls total).
	DefaultRetryBudget = 2

	// DefaultMinTextLen is the quality gate: extracted text shorter than
	// this (after trimming) triggers a retry. Screenshots of real
	// conversations always clear it; a near-empty result usually means the
	// backend glitched.
	DefaultMinTextLen = 5

	// defaultBackoff is the fixed delay between OCR attempts.
	defaultBackoff = time.Second
)

// Agent drives the OCR backend over a screenshot batch: preprocess each
// image, submit the batch, gate on extracted-text quality with bounded
// retries, then run the cleanup pass. An Agent is configured once (retry
// budget included) and reused across calls; it holds no per-call state.
type Agent struct {
	backend      Backend
	preprocessor imageproc.Preprocessor
	policy       retry.Policy
	minTextLen   int
}

// AgentOption tweaks Agent construction.
type AgentOption func(*Agent)

// WithRetryBudget overrides the number of extra attempts.
func WithRetryBudget(n int) AgentOption {
	return func(a *Agent) { a.policy.MaxRetries = n }
}

// WithMinTextLen overrides the quality-gate threshold.
func WithMinTextLen(n int) AgentOption {
	return func(a *Agent) { a.minTextLen = n }
}

// WithSleep replaces the backoff sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) AgentOption {
	return func(a *Agent) { a.policy.Sleep = sleep }
}

// WithPreprocessor overrides the image preprocessor.
func WithPreprocessor(p imageproc.Preprocessor) AgentOption {
	return func(a *Agent) { a.preprocessor = p }
}

// NewAgent creates an extraction agent over the given backend.
func NewAgent(backend Backend, opts ...AgentOption) *Agent {
	a := &Agent{
		backend: backend,
		policy: retry.Policy{
			MaxRetries: DefaultRetryBudget,
			Backoff:    defaultBackoff,
		},
		minTextLen: DefaultMinTextLen,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run extracts one normalized text blob from the screenshot batch.
//
// The only hard failure is an empty image set. Backend errors are retried up
// to the configured budget and then degrade to an empty string; text below
// the quality gate is retried the same way and then accepted as-is. The
// returned text has been through the cleanup pass (whitespace normalization
// plus sentence dedup).
func (a *Agent) Run(ctx context.Context, images []ImageInput) (string, error) {
	if len(images) == 0 {
		return "", ErrNoImages
	}

	// Preprocessing is per-image and order-preserving. Failures inside the
	// preprocessor degrade to original bytes, never to a missing image.
	processed := make([]ProcessedImage, 0, len(images))
	for _, img := range images {
		data := a.preprocessor.Preprocess(img.Data)
		processed = append(processed, ProcessedImage{
			Name:   img.Name,
			Format: imageproc.Format(data),
			Data:   data,
		})
	}

	text, err := retry.Do(ctx, a.policy,
		func(ctx context.Context) (string, error) {
			result, err := a.backend.Run(ctx, processed)
			if err != nil {
				return "", err
			}
			return result.Text(), nil
		},
		func(text string) bool {
			ok := len([]rune(strings.TrimSpace(text))) >= a.minTextLen
			if !ok {
				log.Warn().Int("length", len([]rune(text))).Msg("OCR text below quality gate, retrying")
			}
			return ok
		})
	if err != nil {
		// Budget exhausted on transport errors: degrade to empty text.
		log.Error().Err(err).Msg("OCR attempts exhausted")
		text = ""
	}

	cleaned := a.postProcess(text)
	log.Info().
		Int("image_count", len(images)).
		Int("text_length", len([]rune(cleaned))).
		Str("preview", textutil.Truncate(cleaned, 40)).
		Msg("OCR extraction complete")
	return cleaned, nil
}

// postProcess is the free-form cleanup pass applied to raw OCR output:
// whitespace normalization and removal of repeated sentences.
func (a *Agent) postProcess(text string) string {
	return textutil.DeduplicateSentences(textutil.NormalizeWhitespace(text))
}
