package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClovaClient_BatchRequestShape(t *testing.T) {
	var gotMessage requestMessage
	var gotFiles []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue("message")), &gotMessage); err != nil {
			t.Errorf("parse message JSON: %v", err)
		}
		for _, fh := range r.MultipartForm.File["file"] {
			gotFiles = append(gotFiles, fh.Filename)
		}
		if r.Header.Get("X-OCR-SECRET") != "secret-key" {
			t.Errorf("X-OCR-SECRET = %q", r.Header.Get("X-OCR-SECRET"))
		}

		json.NewEncoder(w).Encode(Result{Images: []ImageResult{
			{Fields: []Field{{InferText: "첫"}, {InferText: "번째"}}},
			{Fields: []Field{{InferText: "두번째"}}},
		}})
	}))
	defer server.Close()

	client := NewClovaClient(server.URL, "secret-key")
	result, err := client.Run(context.Background(), []ProcessedImage{
		{Name: "a.png", Format: "png", Data: []byte{1, 2}},
		{Name: "b.jpg", Format: "jpg", Data: []byte{3, 4}},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One batched call declared both images.
	if len(gotMessage.Images) != 2 {
		t.Fatalf("declared images = %d, want 2", len(gotMessage.Images))
	}
	if gotMessage.Images[0].Format != "png" || gotMessage.Images[1].Format != "jpg" {
		t.Errorf("formats = %+v", gotMessage.Images)
	}
	if gotMessage.Version != "V2" {
		t.Errorf("version = %q, want V2", gotMessage.Version)
	}
	if gotMessage.RequestID == "" {
		t.Error("requestId missing")
	}
	if gotMessage.Timestamp == 0 {
		t.Error("timestamp missing")
	}
	if len(gotFiles) != 2 || gotFiles[0] != "a.png" || gotFiles[1] != "b.jpg" {
		t.Errorf("file parts = %v", gotFiles)
	}

	if got := result.Text(); got != "첫 번째 두번째" {
		t.Errorf("Text() = %q", got)
	}
}

func TestClovaClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClovaClient(server.URL, "k")
	_, err := client.Run(context.Background(), []ProcessedImage{{Name: "a.png", Format: "png"}})
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
}

func TestClovaClient_EmptyBatchRejected(t *testing.T) {
	client := NewClovaClient("http://unused", "k")
	_, err := client.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
}
