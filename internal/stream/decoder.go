// Package stream decodes the incremental token streams returned by the CLOVA
// Studio chat-completion endpoints. A response body is a sequence of
// newline-delimited events; each event line carries a "data:" marker followed
// by a JSON object with the next token at message.content. The decoder
// assembles the full message from those tokens.
//
// Decoding is deliberately forgiving: malformed lines are skipped, never
// fatal, and the worst case is an empty string. The transport above may hand
// the decoder a buffered body or a live response stream; the contract is the
// same either way.
package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Marker is the event prefix used by the chat-completion stream.
const Marker = "data:"

// maxLineSize bounds a single event line. Tokens are tiny; 1 MiB leaves
// plenty of headroom for oversized vendor events.
const maxLineSize = 1 << 20

// tokenEvent is the decoded shape of one stream event. Only the token path
// the decoder cares about is typed; everything else in the event is ignored.
type tokenEvent struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Decode assembles the full message text from a buffered response body.
func Decode(body string) string {
	return DecodeReader(strings.NewReader(body))
}

// DecodeReader assembles the full message text from a streamed response body.
//
// Lines without the event marker are dropped, unparseable payloads are
// skipped, and a token identical to the immediately preceding one is
// discarded — the backend occasionally retransmits the same token event
// twice in a row. Read errors simply end the decode with whatever has been
// accumulated so far.
func DecodeReader(r io.Reader) string {
	var sb strings.Builder
	var prevToken string
	first := true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, Marker) {
			continue
		}
		payload := strings.TrimSpace(line[len(Marker):])

		var ev tokenEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue // malformed event, never aborts the decode
		}

		token := ev.Message.Content
		if !first && token == prevToken {
			continue // duplicate retransmission of the previous token
		}
		sb.WriteString(token)
		prevToken = token
		first = false
	}

	return strings.TrimSpace(sb.String())
}
