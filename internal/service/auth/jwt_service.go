package auth

import (
	"context"
	"time"
)

// JWTService verifies the HS256 access tokens issued by the auth service.
// Token generation exists for local tooling and tests.
type JWTService interface {
	// GenerateToken creates a signed access token for subject valid for ttl.
	GenerateToken(ctx context.Context, subject string, ttl time.Duration) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString and
	// returns its claims. A valid token may carry an empty Subject; callers
	// that need a user decide how to treat that.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of an access token.
type Claims struct {
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
