package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gleelab/glee-suggester/internal/store"
)

type suggestionRequest struct {
	Title           string   `json:"title"`
	Suggestion      string   `json:"suggestion"`
	Tags            []string `json:"tags"`
	RawConversation string   `json:"rawConversation"`
}

type updateSuggestionRequest struct {
	Suggestion string   `json:"suggestion"`
	Tags       []string `json:"tags"`
}

type updateTagsRequest struct {
	Tags []string `json:"tags"`
}

// handleSuggestions covers the collection routes: create and list.
func (d Deps) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		httpError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req suggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Suggestion) == "" {
			httpError(w, http.StatusBadRequest, "suggestion text is required")
			return
		}
		sg := &store.Suggestion{
			UserID:          uid,
			Title:           req.Title,
			Suggestion:      req.Suggestion,
			Tags:            req.Tags,
			RawConversation: req.RawConversation,
		}
		if err := d.Store.Put(r.Context(), sg); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to save suggestion", err.Error())
			return
		}
		respondJSON(w, http.StatusCreated, sg)

	case http.MethodGet:
		list, err := d.Store.ListByUser(r.Context(), uid)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to list suggestions", err.Error())
			return
		}
		if list == nil {
			list = []*store.Suggestion{}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": list})

	default:
		httpError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

// handleSuggestionByID covers /api/suggestions/{id} and
// /api/suggestions/{id}/tags.
func (d Deps) handleSuggestionByID(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		httpError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/suggestions/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		httpError(w, http.StatusBadRequest, "suggestion id is required")
		return
	}

	if sub == "tags" {
		d.updateTags(w, r, uid, id)
		return
	}
	if sub != "" {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		sg, err := d.Store.Get(r.Context(), uid, id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to load suggestion", err.Error())
			return
		}
		if sg == nil {
			httpError(w, http.StatusNotFound, "suggestion not found")
			return
		}
		respondJSON(w, http.StatusOK, sg)

	case http.MethodPut:
		var req updateSuggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sg, err := d.Store.Update(r.Context(), uid, id, req.Suggestion, req.Tags)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to update suggestion", err.Error())
			return
		}
		if sg == nil {
			httpError(w, http.StatusNotFound, "suggestion not found")
			return
		}
		respondJSON(w, http.StatusOK, sg)

	case http.MethodDelete:
		if err := d.Store.Delete(r.Context(), uid, id); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to delete suggestion", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		httpError(w, http.StatusMethodNotAllowed, "GET, PUT, or DELETE required")
	}
}

func (d Deps) updateTags(w http.ResponseWriter, r *http.Request, uid, id string) {
	if r.Method != http.MethodPut {
		httpError(w, http.StatusMethodNotAllowed, "PUT required")
		return
	}
	var req updateTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sg, err := d.Store.UpdateTags(r.Context(), uid, id, req.Tags)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to update tags", err.Error())
		return
	}
	if sg == nil {
		httpError(w, http.StatusNotFound, "suggestion not found")
		return
	}
	respondJSON(w, http.StatusOK, sg)
}
