package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gleelab/glee-suggester/internal/ocr"
	"github.com/gleelab/glee-suggester/internal/s3util"
	"github.com/gleelab/glee-suggester/internal/suggest"
)

// Analysis purposes selecting which pipeline path runs.
const (
	purposeSituation = "situation"
	purposeStyle     = "style"
)

type analyzeKeysRequest struct {
	Purpose string   `json:"purpose"`
	Keys    []string `json:"keys"`
}

type analyzeResponse struct {
	Situation string `json:"situation"`
	Tone      string `json:"tone"`
	Purpose   string `json:"purpose"`
}

// handleAnalyze accepts screenshots either inline (multipart form, "image"
// parts) or by S3 key reference (JSON body), and runs situation or style
// analysis over them.
func (d Deps) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var images []ocr.ImageInput
	var purpose string
	var err error

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		images, purpose, err = d.imagesFromMultipart(r)
	case strings.HasPrefix(contentType, "application/json"):
		images, purpose, err = d.imagesFromKeys(r)
	default:
		httpError(w, http.StatusUnsupportedMediaType, "multipart form or JSON body required")
		return
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(images) == 0 {
		httpError(w, http.StatusBadRequest, "at least one image is required")
		return
	}
	if len(images) > maxImages {
		httpError(w, http.StatusBadRequest, "at most 4 images are allowed")
		return
	}

	switch purpose {
	case purposeSituation, "":
		situation, err := d.Pipeline.AnalyzeSituation(r.Context(), images)
		if err != nil {
			httpError(w, http.StatusBadRequest, "analysis failed", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, analyzeResponse{Situation: situation})

	case purposeStyle:
		result, err := d.Pipeline.AnalyzeStyle(r.Context(), images)
		if err != nil {
			httpError(w, http.StatusBadRequest, "analysis failed", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, analyzeResponse{
			Situation: result.Situation,
			Tone:      result.Tone,
			Purpose:   result.Purpose,
		})

	default:
		httpError(w, http.StatusBadRequest, "purpose must be \"situation\" or \"style\"")
	}
}

func (d Deps) imagesFromMultipart(r *http.Request) ([]ocr.ImageInput, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", errors.New("invalid multipart form")
	}
	purpose := r.FormValue("purpose")

	var images []ocr.ImageInput
	for _, fh := range r.MultipartForm.File["image"] {
		f, err := fh.Open()
		if err != nil {
			return nil, "", errors.New("unreadable image part")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "", errors.New("unreadable image part")
		}
		images = append(images, ocr.ImageInput{Name: fh.Filename, Data: data})
	}
	return images, purpose, nil
}

func (d Deps) imagesFromKeys(r *http.Request) ([]ocr.ImageInput, string, error) {
	var req analyzeKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "", errors.New("invalid JSON body")
	}
	if d.S3 == nil || d.Bucket == "" {
		return nil, "", errors.New("S3 input path is not configured")
	}
	images, err := s3util.DownloadImages(r.Context(), d.S3, d.Bucket, req.Keys)
	if err != nil {
		return nil, "", errors.New("failed to fetch screenshots")
	}
	return images, req.Purpose, nil
}

type generateRequest struct {
	Situation  string `json:"situation"`
	Tone       string `json:"tone"`
	Purpose    string `json:"purpose"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion"`
	Length     string `json:"length"`
}

type generateResponse struct {
	Replies []string `json:"replies"`
	Titles  []string `json:"titles"`
}

// handleGenerate dispatches to a generation mode based on which request
// fields are present: suggestion+length extends an existing suggestion,
// situation+tone+purpose(+detail) uses the manual-style modes, and a bare
// situation generates from the situation alone.
func (d Deps) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var mode suggest.Mode
	switch {
	case req.Suggestion != "" && req.Length != "":
		mode = suggest.ExtendExisting{Suggestion: req.Suggestion, Length: req.Length, Detail: req.Detail}
	case req.Situation != "" && req.Tone != "" && req.Purpose != "" && req.Detail != "":
		mode = suggest.ManualStyleWithDetail{Situation: req.Situation, Tone: req.Tone, Purpose: req.Purpose, Detail: req.Detail}
	case req.Situation != "" && req.Tone != "" && req.Purpose != "":
		mode = suggest.ManualStyle{Situation: req.Situation, Tone: req.Tone, Purpose: req.Purpose}
	case req.Situation != "":
		mode = suggest.SituationOnly{Situation: req.Situation}
	default:
		httpError(w, http.StatusBadRequest, "invalid generate suggestion request")
		return
	}

	batch, err := d.Pipeline.GenerateReplies(r.Context(), mode)
	if err != nil {
		if errors.Is(err, suggest.ErrEmptyInput) {
			httpError(w, http.StatusBadRequest, "invalid generate suggestion request")
			return
		}
		httpError(w, http.StatusInternalServerError, "generation failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, generateResponse{Replies: batch.Replies, Titles: batch.Titles})
}

type refineRequest struct {
	Input string `json:"input"`
}

type refineResponse struct {
	Reply string `json:"reply"`
}

// handleRefine runs the quality-gated single-reply path.
func (d Deps) handleRefine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply, err := d.Pipeline.RefineReply(r.Context(), req.Input)
	if err != nil {
		httpError(w, http.StatusBadRequest, "input text is required")
		return
	}
	respondJSON(w, http.StatusOK, refineResponse{Reply: reply})
}
