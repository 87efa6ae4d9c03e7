package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hmori-dev/capsearch/internal/api/middleware"
	"github.com/hmori-dev/capsearch/internal/domain/model"
	"github.com/hmori-dev/capsearch/internal/domain/repository"
	"github.com/hmori-dev/capsearch/internal/usecase"
)

// Mock SearchService

type mockSearchService struct {
	searchFn func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error)
}

func (m *mockSearchService) Search(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, input)
	}
	return nil, nil
}

func TestSearchHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		requestBody    any
		setupMock      func(m *mockSearchService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:   "successful search",
			userID: "user-1",
			requestBody: SearchRequest{
				VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Keyword:  "hello",
			},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					if input.UserID != "user-1" {
						t.Errorf("service received userID %q", input.UserID)
					}
					return []model.KeywordHit{
						{Timestamp: "00:00:01,000", Text: "hello world"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp SearchResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if len(resp.Timestamps) != 1 {
					t.Fatalf("got %d timestamps, want 1", len(resp.Timestamps))
				}
				if resp.Timestamps[0].Timestamp != "00:00:01,000" {
					t.Errorf("timestamp = %q", resp.Timestamps[0].Timestamp)
				}
			},
		},
		{
			name:   "no matches returns empty array",
			userID: "user-1",
			requestBody: SearchRequest{
				VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Keyword:  "absent",
			},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, nil
				}
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), `"timestamps":[]`) {
					t.Errorf("expected empty timestamps array, got %s", body)
				}
			},
		},
		{
			name:           "missing user in context",
			userID:         "",
			requestBody:    SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: "x"},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid JSON body",
			userID:         "user-1",
			requestBody:    "{not json",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing video URL",
			userID:         "user-1",
			requestBody:    SearchRequest{Keyword: "hello"},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "quota exhausted",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: "x"},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, repository.ErrQuotaExhausted
				}
			},
			wantStatusCode: http.StatusTooManyRequests,
			checkResponse: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), "Daily search limit (3 searches) reached") {
					t.Errorf("quota message missing, got %s", body)
				}
			},
		},
		{
			name:        "invalid video URL",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://example.com/nope", Keyword: "x"},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, model.ErrInvalidVideoURL
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "empty keyword",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: ""},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, model.ErrEmptyKeyword
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "no captions",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: "x"},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, repository.ErrNoCaptions
				}
			},
			wantStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), "No captions available for this video") {
					t.Errorf("no-captions message missing, got %s", body)
				}
			},
		},
		{
			name:        "upstream unavailable",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: "x"},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, usecase.ErrUpstreamUnavailable
				}
			},
			wantStatusCode: http.StatusBadGateway,
		},
		{
			name:        "unexpected error",
			userID:      "user-1",
			requestBody: SearchRequest{VideoURL: "https://youtu.be/abc", Keyword: "x"},
			setupMock: func(m *mockSearchService) {
				m.searchFn = func(ctx context.Context, input usecase.SearchInput) ([]model.KeywordHit, error) {
					return nil, errors.New("connection refused")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSearchService{}
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := NewSearchHandler(svc, 3)

			var body bytes.Buffer
			switch b := tt.requestBody.(type) {
			case string:
				body.WriteString(b)
			default:
				if err := json.NewEncoder(&body).Encode(b); err != nil {
					t.Fatalf("encode request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/search", &body)
			if tt.userID != "" {
				ctx := context.WithValue(req.Context(), middleware.UserIDKey, tt.userID)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			h.Search(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}
