package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jungle/notifications-service/internal/config"
)

// TestJWTSecret is the signing secret used by NewTestJWTService.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestJWTService creates a JWT service signed with TestJWTSecret.
func NewTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: TestJWTSecret})
	require.NoError(t, err, "failed to create test JWT service")
	return svc
}

// GenerateTokenForTestingT returns a one-hour token for subject.
func GenerateTokenForTestingT(t *testing.T, svc JWTService, subject string) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), subject, time.Hour)
	require.NoError(t, err, "failed to generate test token")
	return token
}

// GenerateAuthHeaderForTestingT returns a Bearer Authorization header for subject.
func GenerateAuthHeaderForTestingT(t *testing.T, svc JWTService, subject string) string {
	t.Helper()
	return "Bearer " + GenerateTokenForTestingT(t, svc, subject)
}
