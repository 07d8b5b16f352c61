package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jungle/notifications-service/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := newHMACJWTService(testSecret, fixedClock(fixedTime))
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "user-42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	issuer, err := newHMACJWTService(testSecret, fixedClock(fixedTime))
	require.NoError(t, err)
	valid, err := issuer.GenerateToken(context.Background(), "user-1", ttl)
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		now     time.Time
		token   string
		wantErr error
	}{
		{name: "valid token", secret: testSecret, now: fixedTime, token: valid},
		{name: "within clock skew after expiry", secret: testSecret, now: fixedTime.Add(ttl + time.Minute), token: valid},
		{name: "expired token", secret: testSecret, now: fixedTime.Add(ttl + time.Hour), token: valid, wantErr: ErrExpiredToken},
		{name: "not yet valid", secret: testSecret, now: fixedTime.Add(-time.Hour), token: valid, wantErr: ErrTokenNotYetValid},
		{name: "invalid signature", secret: "wrong-secret-that-is-long-enough-for-testing", now: fixedTime, token: valid, wantErr: ErrInvalidToken},
		{name: "malformed token", secret: testSecret, now: fixedTime, token: "this.is.not.a.valid.jwt.token", wantErr: ErrInvalidToken},
		{name: "empty token", secret: testSecret, now: fixedTime, token: "", wantErr: ErrMissingToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := newHMACJWTService(tt.secret, fixedClock(tt.now))
			require.NoError(t, err)

			claims, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
		})
	}
}

func TestValidateTokenIssuedInFuture(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(now.Add(time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
	})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc, err := newHMACJWTService(testSecret, fixedClock(now))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
	assert.Nil(t, claims)
}

func TestValidateTokenWithoutSubject(t *testing.T) {
	t.Parallel()

	now := time.Now()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc, err := newHMACJWTService(testSecret, time.Now)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "user-1"})
	token, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc, err := newHMACJWTService(testSecret, time.Now)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
