package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/textutil"
)

const (
	// apiVersion is the CLOVA OCR protocol version sent with every request.
	apiVersion = "V2"

	// defaultTimeout is the HTTP client timeout for OCR calls.
	defaultTimeout = 30 * time.Second
)

// ClovaClient calls the CLOVA OCR general endpoint. One call submits the
// whole screenshot batch: the request JSON declares every image, and the
// image bytes ride along as multipart file parts.
type ClovaClient struct {
	httpClient *http.Client
	url        string
	secretKey  string
}

// Compile-time interface check.
var _ Backend = (*ClovaClient)(nil)

// NewClovaClient creates an OCR client for the given invoke URL and secret.
func NewClovaClient(url, secretKey string) *ClovaClient {
	return &ClovaClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		url:        url,
		secretKey:  secretKey,
	}
}

// requestImage declares one image of the batch in the request JSON.
type requestImage struct {
	Format string `json:"format"`
	Name   string `json:"name"`
}

// requestMessage is the "message" JSON part of the multipart request.
type requestMessage struct {
	Images    []requestImage `json:"images"`
	RequestID string         `json:"requestId"`
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"`
}

// Run submits all images as a single batch and decodes the recognition
// result. Non-2xx statuses and transport failures are returned as errors.
func (c *ClovaClient) Run(ctx context.Context, images []ProcessedImage) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	body, contentType, err := buildMultipart(images)
	if err != nil {
		return nil, fmt.Errorf("build OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-OCR-SECRET", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", textutil.Truncate(string(respBody), 200)).
			Msg("OCR backend returned non-success status")
		return nil, fmt.Errorf("OCR backend status %d: %s", resp.StatusCode, textutil.Truncate(string(respBody), 200))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode OCR response: %w", err)
	}
	return &result, nil
}

// buildMultipart assembles the CLOVA OCR multipart body: a "message" field
// carrying the batch declaration JSON, then one "file" part per image.
func buildMultipart(images []ProcessedImage) (*bytes.Buffer, string, error) {
	msg := requestMessage{
		RequestID: uuid.NewString(),
		Version:   apiVersion,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, img := range images {
		msg.Images = append(msg.Images, requestImage{Format: img.Format, Name: img.Name})
	}

	msgJSON, err := json.Marshal(msg)
	if err != nil {
		return nil, "", fmt.Errorf("marshal message: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("message", string(msgJSON)); err != nil {
		return nil, "", fmt.Errorf("write message field: %w", err)
	}
	for _, img := range images {
		part, err := w.CreateFormFile("file", img.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", img.Name, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", img.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
