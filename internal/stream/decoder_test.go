package stream

import (
	"strings"
	"testing"
)

func TestDecode_AssemblesTokens(t *testing.T) {
	body := strings.Join([]string{
		`data: {"message":{"content":"안녕"}}`,
		`data: {"message":{"content":"하세요"}}`,
		`data: {"message":{"content":"!"}}`,
	}, "\n")

	got := Decode(body)
	if got != "안녕하세요!" {
		t.Errorf("Decode = %q, want %q", got, "안녕하세요!")
	}
}

func TestDecode_DuplicateAdjacentTokenSuppressed(t *testing.T) {
	body := strings.Join([]string{
		`data: {"message":{"content":"A"}}`,
		`data: {"message":{"content":"A"}}`,
		`data: {"message":{"content":"B"}}`,
	}, "\n")

	got := Decode(body)
	if got != "AB" {
		t.Errorf("Decode = %q, want %q (adjacent duplicate collapsed)", got, "AB")
	}
}

func TestDecode_NonAdjacentRepeatKept(t *testing.T) {
	body := strings.Join([]string{
		`data: {"message":{"content":"A"}}`,
		`data: {"message":{"content":"B"}}`,
		`data: {"message":{"content":"A"}}`,
	}, "\n")

	got := Decode(body)
	if got != "ABA" {
		t.Errorf("Decode = %q, want %q", got, "ABA")
	}
}

func TestDecode_SkipsMalformedAndUnmarkedLines(t *testing.T) {
	body := strings.Join([]string{
		`event: result`,
		`data: {not json`,
		``,
		`data: {"message":{"content":"ok"}}`,
		`id: 3`,
		`data: {"other":"field"}`,
		`data: {"message":{"content":" done"}}`,
	}, "\n")

	got := Decode(body)
	if got != "ok done" {
		t.Errorf("Decode = %q, want %q", got, "ok done")
	}
}

func TestDecode_NeverFailsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"data:",
		"data: null",
		"data: 17",
		"data: [1,2,3]",
		"\x00\xffgarbage\ndata: \n",
		strings.Repeat("data: {\"message\":{}}\n", 100),
	}
	for _, in := range inputs {
		got := Decode(in)
		if got != "" {
			t.Errorf("Decode(%q) = %q, want empty", in, got)
		}
	}
}

func TestDecode_MissingContentTreatedAsEmpty(t *testing.T) {
	body := strings.Join([]string{
		`data: {"message":{"content":"start"}}`,
		`data: {"message":{}}`,
		`data: {"message":{"content":"end"}}`,
	}, "\n")

	got := Decode(body)
	if got != "startend" {
		t.Errorf("Decode = %q, want %q", got, "startend")
	}
}

func TestDecode_TrimsResult(t *testing.T) {
	body := `data: {"message":{"content":"  padded  "}}`
	got := Decode(body)
	if got != "padded" {
		t.Errorf("Decode = %q, want %q", got, "padded")
	}
}
