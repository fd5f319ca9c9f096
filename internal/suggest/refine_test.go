package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func noSleep(ctx context.Context, d time.Duration) {}

func TestRefiner_AcceptsFirstGoodReply(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "충분히 길고 구체적인 답변이에요."},
	}}
	r := NewRefiner(backend, WithRefineSleep(noSleep))

	reply, err := r.Run(context.Background(), "상황 텍스트")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.requests) != 1 {
		t.Errorf("backend calls = %d, want 1", len(backend.requests))
	}
	if reply != "충분히 길고 구체적인 답변이에요." {
		t.Errorf("reply = %q", reply)
	}
}

func TestRefiner_ShortReplyRetriedWithSteeringClause(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "응"},
		{text: "응, 알겠어. 내일 꼭 시간 맞춰서 갈게!"},
	}}
	r := NewRefiner(backend, WithRefineSleep(noSleep))

	reply, err := r.Run(context.Background(), "상황 텍스트")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.requests) != 2 {
		t.Fatalf("backend calls = %d, want 2", len(backend.requests))
	}
	if backend.requests[0].Input != "상황 텍스트" {
		t.Errorf("first input = %q", backend.requests[0].Input)
	}
	if !strings.Contains(backend.requests[1].Input, steeringClause) {
		t.Errorf("second input = %q, want steering clause appended", backend.requests[1].Input)
	}
	if reply != "응, 알겠어. 내일 꼭 시간 맞춰서 갈게!" {
		t.Errorf("reply = %q", reply)
	}
}

func TestRefiner_ExhaustedBudgetAcceptsShortReply(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "응"}}}
	r := NewRefiner(backend, WithRefineBudget(2), WithRefineSleep(noSleep))

	reply, err := r.Run(context.Background(), "상황 텍스트")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.requests) != 3 {
		t.Errorf("backend calls = %d, want exactly 3 (budget 2)", len(backend.requests))
	}
	if reply != "응" {
		t.Errorf("reply = %q, want short reply accepted as final", reply)
	}
	// The steering clause stacks once per retry.
	if got := strings.Count(backend.requests[2].Input, steeringClause); got != 2 {
		t.Errorf("steering clauses in final input = %d, want 2", got)
	}
}

func TestRefiner_TransportExhaustionDegradesToEmpty(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("connection reset")},
	}}
	r := NewRefiner(backend, WithRefineBudget(1), WithRefineSleep(noSleep))

	reply, err := r.Run(context.Background(), "상황 텍스트")
	if err != nil {
		t.Fatalf("transport exhaustion must degrade, not fail: %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
	if len(backend.requests) != 2 {
		t.Errorf("backend calls = %d, want 2", len(backend.requests))
	}
}

func TestRefiner_EmptyInputFailsFast(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "unused"}}}
	r := NewRefiner(backend, WithRefineSleep(noSleep))

	_, err := r.Run(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if len(backend.requests) != 0 {
		t.Errorf("backend calls = %d, want 0", len(backend.requests))
	}
}
