package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
)

type mockVerifier struct {
	verifyFn func(ctx context.Context, token string) (string, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, token)
	}
	return "", repository.ErrInvalidToken
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifyFn   func(ctx context.Context, token string) (string, error)
		wantStatus int
		wantUserID string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifyFn: func(ctx context.Context, token string) (string, error) {
				if token != "good-token" {
					return "", fmt.Errorf("unexpected token %q", token)
				}
				return "user-42", nil
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-42",
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token after scheme",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			authHeader: "Bearer expired",
			verifyFn: func(ctx context.Context, token string) (string, error) {
				return "", repository.ErrInvalidToken
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{verifyFn: tt.verifyFn}

			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(verifier, slog.New(slog.DiscardHandler))(next)

			req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Errorf("user ID = %q, want %q", gotUserID, tt.wantUserID)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID when absent", func(t *testing.T) {
		var gotID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetRequestID(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rec, req)

		if gotID == "" {
			t.Fatal("request ID not set in context")
		}
		if rec.Header().Get("X-Request-Id") != gotID {
			t.Error("response header does not match context request ID")
		}
	})

	t.Run("reuses the client-provided ID", func(t *testing.T) {
		var gotID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetRequestID(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", "client-supplied")
		rec := httptest.NewRecorder()
		RequestID(next).ServeHTTP(rec, req)

		if gotID != "client-supplied" {
			t.Errorf("request ID = %q, want client-supplied", gotID)
		}
	})
}
