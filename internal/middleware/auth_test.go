package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/idtoken"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func protected(t *testing.T) http.Handler {
	return AuthMiddleware(testSecret, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		assert.True(t, ok)
		w.Write([]byte(userID))
	}))
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	protected(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	protected(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	protected(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	tokenString, _ := token.SignedString([]byte(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	protected(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", w.Body.String())
}

func TestPubSubAuthMiddleware(t *testing.T) {
	const (
		audience = "https://api.example.com/v1/activity/push"
		pusher   = "push@example.iam.gserviceaccount.com"
	)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	cfg := PushAuthConfig{Audience: audience, ServiceAccountEmail: pusher}

	validator := func(claims map[string]interface{}, err error) tokenValidator {
		return func(_ context.Context, token, aud string) (*idtoken.Payload, error) {
			assert.Equal(t, "good-token", token)
			assert.Equal(t, audience, aud)
			if err != nil {
				return nil, err
			}
			return &idtoken.Payload{Audience: aud, Claims: claims}, nil
		}
	}
	verified := map[string]interface{}{"email": pusher, "email_verified": true}

	tests := []struct {
		name     string
		cfg      PushAuthConfig
		header   string
		validate tokenValidator
		want     int
	}{
		{"emulator skips verification", PushAuthConfig{SkipVerification: true}, "", nil, http.StatusNoContent},
		{"unconfigured", PushAuthConfig{}, "Bearer good-token", nil, http.StatusInternalServerError},
		{"missing header", cfg, "", nil, http.StatusUnauthorized},
		{"wrong scheme", cfg, "Basic good-token", nil, http.StatusUnauthorized},
		{"invalid token", cfg, "Bearer good-token", validator(nil, errors.New("bad signature")), http.StatusUnauthorized},
		{"other account", cfg, "Bearer good-token", validator(map[string]interface{}{"email": "x@example.com", "email_verified": true}, nil), http.StatusForbidden},
		{"unverified email", cfg, "Bearer good-token", validator(map[string]interface{}{"email": pusher}, nil), http.StatusForbidden},
		{"valid", cfg, "Bearer good-token", validator(verified, nil), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/activity/push", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			pushAuth(tt.cfg, tt.validate, zerolog.Nop())(ok).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
