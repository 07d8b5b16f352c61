package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jungle/notifications-service/internal/api/shared"
	"github.com/jungle/notifications-service/internal/service/auth"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	jwtService := auth.NewTestJWTService(t)
	valid := auth.GenerateTokenForTestingT(t, jwtService, "user-1")
	noSubject, err := jwtService.GenerateToken(context.Background(), "", time.Hour)
	require.NoError(t, err)
	expired, err := jwtService.GenerateToken(context.Background(), "user-1", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
		expectedUserID string
	}{
		{name: "valid token", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK, expectedUserID: "user-1"},
		{name: "lowercase scheme", authHeader: "bearer " + valid, expectedStatus: http.StatusOK, expectedUserID: "user-1"},
		{name: "missing auth header", expectedStatus: http.StatusUnauthorized, expectedBody: "Authorization header required"},
		{name: "invalid auth format", authHeader: "InvalidFormat", expectedStatus: http.StatusUnauthorized, expectedBody: "Invalid authorization format"},
		{name: "expired token", authHeader: "Bearer " + expired, expectedStatus: http.StatusUnauthorized, expectedBody: "Token expired"},
		{name: "invalid token", authHeader: "Bearer garbage", expectedStatus: http.StatusUnauthorized, expectedBody: "Invalid token"},
		{name: "token without subject", authHeader: "Bearer " + noSubject, expectedStatus: http.StatusUnauthorized, expectedBody: "Invalid token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedUserID, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(jwtService).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			assert.Equal(t, tt.expectedUserID, capturedUserID)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	})

	rec := httptest.NewRecorder()
	TraceMiddleware(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Len(t, traceID, shared.TraceIDLength*2)
}
