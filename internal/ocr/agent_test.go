package ocr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(ctx context.Context, d time.Duration) {}

// fakeBackend scripts OCR responses per call.
type fakeBackend struct {
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeBackend) Run(ctx context.Context, images []ProcessedImage) (*Result, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1 // repeat the last scripted response
	}
	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &Result{Images: []ImageResult{{Fields: []Field{{InferText: r.text}}}}}, nil
}

func testImages() []ImageInput {
	return []ImageInput{{Name: "shot1.png", Data: []byte("not-a-real-image")}}
}

func TestAgent_EmptyImageSet(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "unused"}}}
	agent := NewAgent(backend)

	_, err := agent.Run(context.Background(), nil)
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("err = %v, want ErrNoImages", err)
	}
	if backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0 for invalid input", backend.calls)
	}
}

func TestAgent_ShortTextExhaustsRetriesThenAccepted(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "ab"}}}
	agent := NewAgent(backend, WithRetryBudget(2), WithSleep(noSleep))

	text, err := agent.Run(context.Background(), testImages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want exactly 3 (budget 2)", backend.calls)
	}
	if text != "ab" {
		t.Errorf("text = %q, want the short text accepted as final", text)
	}
}

func TestAgent_SuccessFirstAttempt(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "오늘 저녁에 볼까? 좋아!"}}}
	agent := NewAgent(backend, WithSleep(noSleep))

	text, err := agent.Run(context.Background(), testImages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}
	if text != "오늘 저녁에 볼까? 좋아!" {
		t.Errorf("text = %q", text)
	}
}

func TestAgent_TransportErrorThenRecovery(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("connection reset")},
		{text: "다시 연락할게 미안해"},
	}}
	agent := NewAgent(backend, WithSleep(noSleep))

	text, err := agent.Run(context.Background(), testImages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
	if text != "다시 연락할게 미안해" {
		t.Errorf("text = %q", text)
	}
}

func TestAgent_AllAttemptsFailDegradesToEmpty(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{err: errors.New("503")}}}
	agent := NewAgent(backend, WithRetryBudget(1), WithSleep(noSleep))

	text, err := agent.Run(context.Background(), testImages())
	if err != nil {
		t.Fatalf("transport exhaustion must degrade, not fail: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestAgent_PostProcessDedupes(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "미안해요. 미안해요. 내일 봐요."}}}
	agent := NewAgent(backend, WithSleep(noSleep))

	text, err := agent.Run(context.Background(), testImages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "미안해요. 내일 봐요." {
		t.Errorf("text = %q, want deduplicated", text)
	}
}

func TestResult_TextJoinsAllImagesAndFields(t *testing.T) {
	r := &Result{Images: []ImageResult{
		{Fields: []Field{{InferText: "안녕"}, {InferText: "하세요"}}},
		{Fields: []Field{{InferText: "반가워요"}}},
	}}
	if got := r.Text(); got != "안녕 하세요 반가워요" {
		t.Errorf("Text() = %q", got)
	}
}

func TestResult_TextEmpty(t *testing.T) {
	if got := (&Result{}).Text(); got != "" {
		t.Errorf("Text() = %q, want empty", got)
	}
	var nilResult *Result
	if got := nilResult.Text(); got != "" {
		t.Errorf("nil Text() = %q, want empty", got)
	}
}
