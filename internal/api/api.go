// Package api provides the HTTP surface shared by the local web server and
// the Lambda binary.
//
// Endpoints:
//
//	GET    /api/health                 — health check
//	POST   /api/analyze                — screenshots → situation (+ tone, purpose)
//	POST   /api/generate               — mode-dispatched suggestion generation
//	POST   /api/refine                 — quality-gated single-reply refinement
//	POST   /api/suggestions            — save a suggestion
//	GET    /api/suggestions            — list the caller's suggestions
//	GET    /api/suggestions/{id}       — fetch one suggestion
//	PUT    /api/suggestions/{id}       — update text and tags
//	PUT    /api/suggestions/{id}/tags  — update tags only
//	DELETE /api/suggestions/{id}       — delete one suggestion
//
// Authentication is out of scope; the caller's identity arrives in the
// X-User-ID header, set by the gateway in front of this service.
package api

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gleelab/glee-suggester/internal/pipeline"
	"github.com/gleelab/glee-suggester/internal/store"
)

// maxImages bounds one analysis request, matching the mobile client's
// four-screenshot limit.
const maxImages = 4

// maxUploadBytes bounds the whole multipart analysis request.
const maxUploadBytes = 32 << 20

// Deps are the collaborators the handlers need. S3 and Bucket are optional;
// without them the key-reference input path returns an error.
type Deps struct {
	Pipeline *pipeline.Pipeline
	Store    store.SuggestionStore
	S3       *s3.Client
	Bucket   string
}

// NewMux builds the API routing table. Callers wrap it with the middleware
// they need (see WithLogging, WithCORS).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/analyze", d.handleAnalyze)
	mux.HandleFunc("/api/generate", d.handleGenerate)
	mux.HandleFunc("/api/refine", d.handleRefine)
	mux.HandleFunc("/api/suggestions", d.handleSuggestions)
	mux.HandleFunc("/api/suggestions/", d.handleSuggestionByID)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
