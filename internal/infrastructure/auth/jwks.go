// Package auth implements bearer credential verification against a JWKS
// endpoint. The identity provider signs JWTs; this package validates the
// signature and standard claims and resolves the token to the stable user
// identifier carried in the sub claim.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
)

// VerifierConfig holds configuration for the JWKS token verifier.
type VerifierConfig struct {
	JWKSURL         string
	Issuer          string // empty = issuer not checked
	RefreshInterval time.Duration
	ClientTimeout   time.Duration
	Leeway          time.Duration
}

// DefaultVerifierConfig returns a VerifierConfig with sensible defaults.
func DefaultVerifierConfig(jwksURL string) VerifierConfig {
	return VerifierConfig{
		JWKSURL:         jwksURL,
		RefreshInterval: 15 * time.Minute,
		ClientTimeout:   10 * time.Second,
		Leeway:          30 * time.Second,
	}
}

// JWKSVerifier implements repository.TokenVerifier with JWT signature
// validation against a remotely fetched, periodically refreshed key set.
type JWKSVerifier struct {
	keys   keyfunc.Keyfunc
	issuer string
	leeway time.Duration
}

// NewJWKSVerifier creates a verifier backed by the JWKS endpoint in cfg.
// The key set refreshes in the background; startup does not fail if the
// identity provider is temporarily unreachable.
func NewJWKSVerifier(cfg VerifierConfig, logger *slog.Logger) (*JWKSVerifier, error) {
	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: cfg.ClientTimeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("failed to refresh JWKS",
				slog.String("url", cfg.JWKSURL),
				slog.String("error", err.Error()),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS storage: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyfunc: %w", err)
	}

	return &JWKSVerifier{
		keys:   keys,
		issuer: cfg.Issuer,
		leeway: cfg.Leeway,
	}, nil
}

// Verify validates the token and returns the sub claim as the user
// identifier. All verification failures collapse into ErrInvalidToken so the
// caller leaks nothing about why a credential was rejected.
func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.KeyfuncCtx(ctx), opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", repository.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", repository.ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing sub claim", repository.ErrInvalidToken)
	}

	return subject, nil
}

// Compile-time verification that JWKSVerifier implements repository.TokenVerifier.
var _ repository.TokenVerifier = (*JWKSVerifier)(nil)
