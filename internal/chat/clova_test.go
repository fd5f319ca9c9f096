package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gleelab/glee-suggester/internal/assets"
)

func TestClovaClient_StreamedCompletion(t *testing.T) {
	var gotPath string
	var gotPayload payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if r.Header.Get("X-NCP-CLOVASTUDIO-REQUEST-ID") == "" {
			t.Error("request id header missing")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range []string{
			`data: {"message": {"content": "안녕"}}`,
			`data: {"message": {"content": "하세요"}}`,
			`not an event line`,
			`data: {"message": {"content": "!"}}`,
		} {
			w.Write([]byte(line + "\n"))
		}
	}))
	defer server.Close()

	client := NewClovaClient(server.URL, "test-token")
	text, err := client.Complete(context.Background(), Request{
		Bundle: assets.BundleSituationSummary,
		Input:  "대화 내용",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "안녕하세요!" {
		t.Errorf("text = %q", text)
	}

	bundle := assets.MustLoad(assets.BundleSituationSummary)
	if !strings.HasSuffix(gotPath, "/"+bundle.Model) {
		t.Errorf("path = %q, want model suffix %q", gotPath, bundle.Model)
	}
	if len(gotPayload.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(gotPayload.Messages))
	}
	if gotPayload.Messages[0].Role != "system" || gotPayload.Messages[0].Content != bundle.System {
		t.Errorf("system message = %+v", gotPayload.Messages[0])
	}
	if gotPayload.Messages[1].Role != "user" || gotPayload.Messages[1].Content != "대화 내용" {
		t.Errorf("user message = %+v", gotPayload.Messages[1])
	}
	if gotPayload.MaxTokens != bundle.Params.MaxTokens {
		t.Errorf("maxTokens = %d, want %d", gotPayload.MaxTokens, bundle.Params.MaxTokens)
	}
	if gotPayload.Seed != 0 {
		t.Errorf("seed = %d, want omitted without RandomSeed", gotPayload.Seed)
	}
}

func TestClovaClient_RandomSeedSet(t *testing.T) {
	var gotPayload payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`data: {"message": {"content": "ok"}}` + "\n"))
	}))
	defer server.Close()

	client := NewClovaClient(server.URL, "t")
	if _, err := client.Complete(context.Background(), Request{
		Bundle:     assets.BundleStyleAnalysis,
		Input:      "x",
		RandomSeed: true,
	}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if gotPayload.Seed == 0 {
		t.Error("seed missing despite RandomSeed")
	}
}

func TestClovaClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClovaClient(server.URL, "t")
	_, err := client.Complete(context.Background(), Request{
		Bundle: assets.BundleReplySuggestion,
		Input:  "x",
	})
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want status code in message", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want body excerpt in message", err)
	}
}

func TestClovaClient_UnknownBundle(t *testing.T) {
	client := NewClovaClient("http://unused", "t")
	if _, err := client.Complete(context.Background(), Request{Bundle: "no-such-bundle"}); err == nil {
		t.Fatal("expected error for unknown bundle")
	}
}
