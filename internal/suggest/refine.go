package suggest

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/assets"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/retry"
	"github.com/gleelab/glee-suggester/internal/textutil"
)

const (
	// DefaultRefineBudget is the number of extra refinement attempts after
	// the first reply.
	DefaultRefineBudget = 2

	// DefaultMinReplyLen is the refinement quality gate: replies shorter
	// than this (in runes, trimmed) are retried with a steering clause.
	DefaultMinReplyLen = 10

	// steeringClause nudges the model toward a longer, more specific reply
	// on retry.
	steeringClause = "좀 더 구체적으로, 길이를 늘려서 답변해줘."
)

// Refiner is the quality-gated single-reply path: one reply per call,
// re-requested with a steering clause appended to the input whenever the
// produced text is too short. Distinct from the orchestrator's fixed
// fan-out, which never inspects reply quality.
type Refiner struct {
	backend chat.Backend
	policy  retry.Policy
	minLen  int
}

// RefinerOption tweaks Refiner construction.
type RefinerOption func(*Refiner)

// WithRefineBudget overrides the number of extra attempts.
func WithRefineBudget(n int) RefinerOption {
	return func(r *Refiner) { r.policy.MaxRetries = n }
}

// WithRefineSleep replaces the backoff sleep, for tests.
func WithRefineSleep(sleep func(ctx context.Context, d time.Duration)) RefinerOption {
	return func(r *Refiner) { r.policy.Sleep = sleep }
}

// WithMinReplyLen overrides the quality-gate threshold.
func WithMinReplyLen(n int) RefinerOption {
	return func(r *Refiner) { r.minLen = n }
}

// NewRefiner creates a quality-gated reply generator over the given backend.
func NewRefiner(backend chat.Backend, opts ...RefinerOption) *Refiner {
	r := &Refiner{
		backend: backend,
		policy: retry.Policy{
			MaxRetries: DefaultRefineBudget,
			Backoff:    time.Second,
		},
		minLen: DefaultMinReplyLen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run produces one reply for the input text. Too-short replies are retried
// up to the budget with the steering clause appended to the input each time,
// then the final attempt is accepted as-is. Transport exhaustion degrades to
// an empty reply. Empty input is the only error.
func (r *Refiner) Run(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}

	first := true
	reply, err := retry.Do(ctx, r.policy,
		func(ctx context.Context) (string, error) {
			if !first {
				input += "\n" + steeringClause
			}
			first = false
			text, err := r.backend.Complete(ctx, chat.Request{
				Bundle:     assets.BundleReplySuggestion,
				Input:      input,
				RandomSeed: true,
			})
			if err != nil {
				return "", err
			}
			return textutil.DeduplicateSentences(text), nil
		},
		func(reply string) bool {
			ok := len([]rune(strings.TrimSpace(reply))) >= r.minLen
			if !ok {
				log.Warn().Int("length", len([]rune(reply))).Msg("reply below quality gate, refining")
			}
			return ok
		})
	if err != nil {
		log.Error().Err(err).Msg("refinement attempts exhausted")
		return "", nil
	}
	return reply, nil
}
