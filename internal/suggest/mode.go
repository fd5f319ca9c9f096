// Package suggest holds the generation-side agents: the situation
// summarizer, the style analyzer, the reply/title orchestrator with its four
// generation modes, and the quality-gated single-reply refiner. All of them
// sit on the chat.Backend interface and degrade to typed sentinel results on
// backend failure rather than surfacing transport errors.
package suggest

import "errors"

// ErrEmptyInput is returned when a caller provides no usable input text.
// It is the only hard failure in this package; everything backend-side
// degrades instead.
var ErrEmptyInput = errors.New("suggest: empty input")

// Sentinel values substituted when style analysis cannot produce a usable
// tone/purpose pair. Callers treat these as a degraded-but-valid result.
const (
	DefaultTone    = "default tone"
	GeneralPurpose = "general purpose"
)

// DetailNone marks an absent detail clause. The Korean form is what the
// mobile client sends; the English form is accepted for API callers.
const (
	DetailNone       = "none"
	DetailNoneKorean = "없음"
)

// Mode selects the prompt template and input composition for one generation
// request. It is a closed set: exactly the four types below implement it.
type Mode interface {
	mode()
}

// SituationOnly generates replies from the situation text alone.
type SituationOnly struct {
	Situation string
}

// ManualStyle embeds a caller-chosen tone and purpose alongside the
// situation.
type ManualStyle struct {
	Situation string
	Tone      string
	Purpose   string
}

// ManualStyleWithDetail additionally appends a free-form detail clause.
// A Detail equal to DetailNone (or its Korean form, or empty) omits the
// clause.
type ManualStyleWithDetail struct {
	Situation string
	Tone      string
	Purpose   string
	Detail    string
}

// ExtendExisting lengthens a previously generated suggestion instead of
// starting from a situation. Length is a free-form target ("short", "long",
// "moderate"); Detail is optional extra guidance.
type ExtendExisting struct {
	Suggestion string
	Length     string
	Detail     string
}

func (SituationOnly) mode()         {}
func (ManualStyle) mode()           {}
func (ManualStyleWithDetail) mode() {}
func (ExtendExisting) mode()        {}

// Batch is the orchestrator's result: replies in attempt order plus title
// suggestions. A failed attempt leaves a diagnostic string in its slot, so
// len(Replies) always equals the number of attempts made.
type Batch struct {
	Replies []string
	Titles  []string
}

// detailOmitted reports whether the detail clause should be left out.
func detailOmitted(detail string) bool {
	return detail == "" || detail == DetailNone || detail == DetailNoneKorean
}
