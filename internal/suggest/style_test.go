package suggest

import (
	"context"
	"errors"
	"testing"
)

func TestStyleAgent_ParsesAllThreeLabels(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "상황: 친구에게 사과해야 함\n말투: 부드러운 반말\n용도: 카카오톡"},
	}}
	agent := NewStyleAgent(backend)

	result := agent.Run(context.Background(), "대화 내용")
	if result.Situation != "친구에게 사과해야 함" {
		t.Errorf("situation = %q", result.Situation)
	}
	if result.Tone != "부드러운 반말" {
		t.Errorf("tone = %q", result.Tone)
	}
	if result.Purpose != "카카오톡" {
		t.Errorf("purpose = %q", result.Purpose)
	}
	if !backend.requests[0].RandomSeed {
		t.Error("style analysis must use a random seed")
	}
}

func TestStyleAgent_NoLabelsReturnsSentinels(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "이 대화는 친구 사이의 일상적인 대화입니다."},
	}}
	agent := NewStyleAgent(backend)

	result := agent.Run(context.Background(), "대화 내용")
	if result.Tone != DefaultTone {
		t.Errorf("tone = %q, want sentinel %q", result.Tone, DefaultTone)
	}
	if result.Purpose != GeneralPurpose {
		t.Errorf("purpose = %q, want sentinel %q", result.Purpose, GeneralPurpose)
	}
}

func TestStyleAgent_BackendErrorReturnsSentinels(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("connection refused")},
	}}
	agent := NewStyleAgent(backend)

	result := agent.Run(context.Background(), "대화 내용")
	if result.Tone != DefaultTone || result.Purpose != GeneralPurpose {
		t.Errorf("result = %+v, want sentinels without raising", result)
	}
}

func TestStyleAgent_EmptyOutputReturnsSentinels(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{{text: "   \n  "}}}
	agent := NewStyleAgent(backend)

	result := agent.Run(context.Background(), "대화 내용")
	if result.Tone != DefaultTone || result.Purpose != GeneralPurpose {
		t.Errorf("result = %+v, want sentinels", result)
	}
}

func TestStyleAgent_PartialLabelsKept(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "말투: 격식 있는 존댓말"},
	}}
	agent := NewStyleAgent(backend)

	// One of tone/purpose present: keep what was parsed, no sentinels.
	result := agent.Run(context.Background(), "대화 내용")
	if result.Tone != "격식 있는 존댓말" {
		t.Errorf("tone = %q", result.Tone)
	}
	if result.Purpose != "" {
		t.Errorf("purpose = %q, want empty", result.Purpose)
	}
}

func TestSummarizer_DeduplicatesSummary(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "약속에 늦어 사과하는 상황. 약속에 늦어 사과하는 상황."},
	}}
	s := NewSummarizer(backend)

	got := s.Run(context.Background(), "대화 내용")
	if got != "약속에 늦어 사과하는 상황." {
		t.Errorf("summary = %q", got)
	}
}

func TestSummarizer_BackendErrorDegradesToEmpty(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("timeout")},
	}}
	s := NewSummarizer(backend)

	if got := s.Run(context.Background(), "대화 내용"); got != "" {
		t.Errorf("summary = %q, want empty on failure", got)
	}
}
