package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/assets"
	"github.com/gleelab/glee-suggester/internal/stream"
	"github.com/gleelab/glee-suggester/internal/textutil"
)

// DefaultStudioBaseURL is the CLOVA Studio chat-completion endpoint root.
// The model segment from the prompt bundle is appended per call.
const DefaultStudioBaseURL = "https://clovastudio.stream.ntruss.com/testapp/v1/chat-completions"

// defaultChatTimeout bounds one chat-completion call including the full
// token stream.
const defaultChatTimeout = 60 * time.Second

// ClovaClient calls CLOVA Studio chat-completion endpoints and decodes the
// streamed token events into one assembled string.
type ClovaClient struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
}

// Compile-time interface check.
var _ Backend = (*ClovaClient)(nil)

// NewClovaClient creates a chat client. baseURL may be empty to use the
// default Studio endpoint.
func NewClovaClient(baseURL, bearerToken string) *ClovaClient {
	if baseURL == "" {
		baseURL = DefaultStudioBaseURL
	}
	return &ClovaClient{
		httpClient:  &http.Client{Timeout: defaultChatTimeout},
		baseURL:     baseURL,
		bearerToken: bearerToken,
	}
}

// message is one chat turn in the request payload.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// payload is the chat-completion request body. Field names follow the CLOVA
// Studio API.
type payload struct {
	Messages      []message `json:"messages"`
	TopP          float64   `json:"topP,omitempty"`
	TopK          int       `json:"topK,omitempty"`
	MaxTokens     int       `json:"maxTokens,omitempty"`
	Temperature   float64   `json:"temperature,omitempty"`
	RepeatPenalty float64   `json:"repeatPenalty,omitempty"`
	Seed          int64     `json:"seed,omitempty"`
}

// Complete issues one chat-completion call for the named prompt bundle and
// returns the assembled response text. The response body is a stream of
// "data:" token events; decoding is tolerant of malformed events and
// collapses duplicate adjacent tokens.
func (c *ClovaClient) Complete(ctx context.Context, req Request) (string, error) {
	bundle, err := assets.Load(req.Bundle)
	if err != nil {
		return "", err
	}

	p := payload{
		Messages: []message{
			{Role: "system", Content: bundle.System},
			{Role: "user", Content: req.Input},
		},
		TopP:          bundle.Params.TopP,
		TopK:          bundle.Params.TopK,
		MaxTokens:     bundle.Params.MaxTokens,
		Temperature:   bundle.Params.Temperature,
		RepeatPenalty: bundle.Params.RepeatPenalty,
	}
	if req.RandomSeed {
		p.Seed = 1 + rand.Int63n(1<<30) // non-zero so it survives omitempty
	}

	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	url := c.baseURL + "/" + bundle.Model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.bearerToken)
	httpReq.Header.Set("X-NCP-CLOVASTUDIO-REQUEST-ID", uuid.NewString())
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().
			Int("status", resp.StatusCode).
			Str("model", bundle.Model).
			Str("body", textutil.Truncate(string(respBody), 200)).
			Msg("chat backend returned non-success status")
		return "", fmt.Errorf("chat backend status %d: %s", resp.StatusCode, textutil.Truncate(string(respBody), 200))
	}

	text := stream.DecodeReader(resp.Body)
	log.Debug().
		Str("bundle", bundle.Name).
		Str("model", bundle.Model).
		Int("response_length", len([]rune(text))).
		Dur("duration", time.Since(start)).
		Msg("chat completion decoded")
	return text, nil
}
