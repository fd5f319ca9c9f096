package textutil

import "strings"

// Truncate shortens s to at most n runes for log previews.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// SplitTitleContent splits a generated suggestion into title and content.
// A suggestion whose first colon-delimited prefix names a title (e.g.
// "제목: ..." or "Title: ...") yields that remainder as the title and empty
// content; any other colon is treated as part of the content.
func SplitTitleContent(suggestion string) (title, content string) {
	content = suggestion

	idx := strings.Index(suggestion, ":")
	if idx < 0 {
		return "", content
	}

	prefix := strings.ToLower(strings.TrimSpace(suggestion[:idx]))
	if prefix == "제목" || prefix == "title" {
		return strings.TrimSpace(suggestion[idx+1:]), ""
	}
	return "", content
}

// SplitSuggestionLines turns a single model response into a list of
// suggestions, one per non-empty line, stripping common list decorations
// ("1.", "-", "•") the model tends to add.
func SplitSuggestionLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•*")
		line = strings.TrimSpace(line)
		line = trimOrdinal(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// trimOrdinal strips a leading "N." or "N)" list marker.
func trimOrdinal(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] == '.' || s[i] == ')' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
