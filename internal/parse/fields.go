// Package parse extracts labeled sections from free-form model output.
//
// The style-analysis prompt asks the model to answer with one section per
// line ("상황: ...", "말투: ...", "용도: ..."), but model output is only
// mostly well-formed. This is a best-effort line-oriented parser, not a
// grammar: lines that match no label are ignored, labels that never appear
// map to the empty string, and a label appearing twice keeps its last value.
package parse

import "strings"

// Label names one field to extract. The key and every alias are matched as
// line prefixes; the key is what appears in the result map. Aliases let the
// same field be labeled in more than one language (the prompts are Korean,
// the API surface is English).
type Label struct {
	Key     string
	Aliases []string
}

// StyleLabels are the three fields produced by the style-analysis call.
var StyleLabels = []Label{
	{Key: "situation", Aliases: []string{"상황"}},
	{Key: "tone", Aliases: []string{"말투"}},
	{Key: "purpose", Aliases: []string{"용도"}},
}

// Fields scans text line by line for the given labels. A line matches a
// label when, after trimming, it starts with the label name optionally
// followed by spaces and a colon; the remainder of the line is the value.
// Every label key is present in the result, absent ones as "".
func Fields(text string, labels []Label) map[string]string {
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		out[l.Key] = ""
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, l := range labels {
			if value, ok := matchLabel(line, l); ok {
				out[l.Key] = value // last write wins
				break
			}
		}
	}
	return out
}

// matchLabel tries the label key and each alias as a prefix of line,
// tolerating "label:", "label :", and a bare "label" before the value.
func matchLabel(line string, l Label) (string, bool) {
	names := append([]string{l.Key}, l.Aliases...)
	for _, name := range names {
		rest, ok := strings.CutPrefix(line, name)
		if !ok {
			continue
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if after, ok := strings.CutPrefix(trimmed, ":"); ok {
			return strings.TrimSpace(after), true
		}
		// No colon: accept only when the label is a whole word
		// ("tones" must not match "tone").
		if rest == "" || rest != trimmed {
			return strings.TrimSpace(trimmed), true
		}
	}
	return "", false
}
