// Package textutil post-processes assembled model output: sentence-level
// deduplication (a known artifact of degenerate LLM decoding is the same
// clause emitted twice), whitespace cleanup, and small helpers for splitting
// generated suggestions.
package textutil

import (
	"strings"
)

// DefaultTerminators are the sentence-ending runes used when a Deduplicator
// is built with none. Covers Korean and Latin punctuation plus the CJK full
// stop and ellipsis forms seen in model output.
const DefaultTerminators = ".!?。！？…"

// Deduplicator removes repeated sentences from assembled text while
// preserving the order of first occurrence. Two segments are duplicates when
// their comparison keys are equal; the default key is the
// whitespace-normalized segment text (exact match). Normalize is a field so
// a fuzzier similarity can be swapped in.
//
// Dedupe is idempotent: Dedupe(Dedupe(x)) == Dedupe(x).
type Deduplicator struct {
	// Terminators is the set of runes that end a sentence.
	// Empty means DefaultTerminators.
	Terminators string

	// Normalize produces the comparison key for a segment.
	// Nil means whitespace normalization.
	Normalize func(string) string
}

// DeduplicateSentences removes repeated sentences using the default
// terminator set and exact whitespace-normalized comparison.
func DeduplicateSentences(text string) string {
	return Deduplicator{}.Dedupe(text)
}

// Dedupe splits text into sentence segments, drops segments whose comparison
// key was already seen, and reassembles the survivors in order, emitting each
// segment's original text.
func (d Deduplicator) Dedupe(text string) string {
	terminators := d.Terminators
	if terminators == "" {
		terminators = DefaultTerminators
	}
	normalize := d.Normalize
	if normalize == nil {
		normalize = NormalizeWhitespace
	}

	segments := splitSentences(text, terminators)

	seen := make(map[string]bool, len(segments))
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		key := normalize(seg)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, strings.TrimSpace(seg))
	}

	return strings.Join(kept, " ")
}

// splitSentences cuts text into segments, each ending with a run of
// terminator runes. A trailing unterminated remainder is its own segment.
func splitSentences(text string, terminators string) []string {
	var segments []string
	var current strings.Builder
	inTerminator := false

	for _, r := range text {
		isTerm := strings.ContainsRune(terminators, r)
		if inTerminator && !isTerm {
			segments = append(segments, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		inTerminator = isTerm
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the result. Used as the default duplicate-comparison key.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
