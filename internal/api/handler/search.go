package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hmori-dev/capsearch/internal/api/middleware"
	"github.com/hmori-dev/capsearch/internal/domain/model"
	"github.com/hmori-dev/capsearch/internal/domain/repository"
	"github.com/hmori-dev/capsearch/internal/usecase"
)

// Request/Response types

type SearchRequest struct {
	VideoURL string `json:"videoUrl"`
	Keyword  string `json:"keyword"`
}

type SearchResponse struct {
	Timestamps []model.KeywordHit `json:"timestamps"`
}

// SearchHandler handles caption search HTTP requests.
type SearchHandler struct {
	svc        usecase.SearchService
	dailyLimit int
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc usecase.SearchService, dailyLimit int) *SearchHandler {
	return &SearchHandler{svc: svc, dailyLimit: dailyLimit}
}

// Search handles POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.VideoURL == "" {
		Error(w, http.StatusBadRequest, "invalid_video_url", "Video URL is required")
		return
	}

	hits, err := h.svc.Search(r.Context(), usecase.SearchInput{
		UserID:   userID,
		VideoURL: req.VideoURL,
		Keyword:  req.Keyword,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if hits == nil {
		hits = []model.KeywordHit{}
	}
	JSON(w, http.StatusOK, SearchResponse{Timestamps: hits})
}

func (h *SearchHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrQuotaExhausted):
		Error(w, http.StatusTooManyRequests, "quota_exhausted",
			fmt.Sprintf("Daily search limit (%d searches) reached", h.dailyLimit))
	case errors.Is(err, model.ErrInvalidVideoURL):
		Error(w, http.StatusBadRequest, "invalid_video_url", "Could not extract a video ID from the URL")
	case errors.Is(err, model.ErrEmptyKeyword):
		Error(w, http.StatusBadRequest, "invalid_keyword", "Keyword cannot be empty")
	case errors.Is(err, repository.ErrNoCaptions):
		Error(w, http.StatusBadRequest, "no_captions", "No captions available for this video")
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		Error(w, http.StatusBadGateway, "upstream_unavailable", "Caption provider is currently unavailable")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
