package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(ctx context.Context, d time.Duration) {}

func TestDo_AcceptFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), Policy{MaxRetries: 2, Sleep: noSleep},
		func(ctx context.Context) (string, error) {
			calls++
			return "hello world", nil
		},
		func(s string) bool { return len(s) >= 5 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hello world" {
		t.Errorf("value = %q, want %q", v, "hello world")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_QualityGateExhaustion(t *testing.T) {
	// A backend that always produces too-short output must be called exactly
	// MaxRetries+1 times, and the short value is accepted as final.
	calls := 0
	v, err := Do(context.Background(), Policy{MaxRetries: 2, Backoff: time.Second, Sleep: noSleep},
		func(ctx context.Context) (string, error) {
			calls++
			return "ab", nil
		},
		func(s string) bool { return len(s) >= 5 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "ab" {
		t.Errorf("value = %q, want %q", v, "ab")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ErrorThenSuccess(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), Policy{MaxRetries: 2, Sleep: noSleep},
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transport down")
			}
			return "recovered", nil
		},
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "recovered" {
		t.Errorf("value = %q, want %q", v, "recovered")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_AllAttemptsError(t *testing.T) {
	wantErr := errors.New("still down")
	calls := 0
	v, err := Do(context.Background(), Policy{MaxRetries: 1, Sleep: noSleep},
		func(ctx context.Context) (string, error) {
			calls++
			return "ignored", wantErr
		},
		nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if v != "" {
		t.Errorf("value = %q, want zero value", v)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDo_NilAcceptReturnsFirstSuccess(t *testing.T) {
	v, err := Do(context.Background(), Policy{MaxRetries: 5, Sleep: noSleep},
		func(ctx context.Context) (int, error) { return 42, nil },
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
}

func TestDo_BackoffBetweenAttempts(t *testing.T) {
	var slept []time.Duration
	_, err := Do(context.Background(), Policy{
		MaxRetries: 2,
		Backoff:    time.Second,
		Sleep:      func(ctx context.Context, d time.Duration) { slept = append(slept, d) },
	},
		func(ctx context.Context) (string, error) { return "x", nil },
		func(s string) bool { return false })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slept) != 2 {
		t.Fatalf("sleep calls = %d, want 2", len(slept))
	}
	for _, d := range slept {
		if d != time.Second {
			t.Errorf("slept %v, want 1s", d)
		}
	}
}
