package store

import (
	"strings"
	"testing"
)

func TestKeyShapes(t *testing.T) {
	if got := userPK("user-1"); got != "USER#user-1" {
		t.Errorf("userPK = %q", got)
	}
	if got := suggestionSK("abc"); got != "SUGGESTION#abc" {
		t.Errorf("suggestionSK = %q", got)
	}
}

func TestConversationCompressionRoundTrip(t *testing.T) {
	raw := strings.Repeat("내일 저녁에 볼까? 미안, 오늘은 야근이야.\n", 50)

	compressed := zstdEncoder.EncodeAll([]byte(raw), nil)
	if len(compressed) >= len(raw) {
		t.Errorf("compressed %d bytes >= raw %d bytes for repetitive text", len(compressed), len(raw))
	}

	back, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if string(back) != raw {
		t.Error("round trip mismatch")
	}
}
