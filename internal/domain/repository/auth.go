package repository

import "context"

// TokenVerifier validates a bearer credential and resolves it to a stable
// user identifier. Implementations should be provided by the infrastructure
// layer (e.g., JWT verification against a JWKS endpoint).
type TokenVerifier interface {
	// Verify checks the credential and returns the user identifier it
	// belongs to. Returns ErrInvalidToken for missing, malformed, expired or
	// otherwise unverifiable credentials.
	Verify(ctx context.Context, token string) (string, error)
}
