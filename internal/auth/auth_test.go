package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benx421/carmarket/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPrincipal() models.Principal {
	return models.Principal{
		ID:    uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00"),
		Email: "abebe@example.com",
		Name:  "Abebe Bikila",
		Role:  "buyer",
	}
}

func TestAuthenticator_ParseRoundTrip(t *testing.T) {
	a := NewAuthenticator(testSecret, testLogger())

	token, err := a.NewToken(testPrincipal(), time.Hour)
	require.NoError(t, err)

	got, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal(), *got)
}

func TestAuthenticator_ParseLegacyIDClaim(t *testing.T) {
	a := NewAuthenticator(testSecret, testLogger())

	claims := Claims{
		UserID: "e1d2c3b4-a596-4788-99aa-bbccddeeff00",
		Email:  "abebe@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal().ID, got.ID)
}

func TestAuthenticator_ParseRejects(t *testing.T) {
	a := NewAuthenticator(testSecret, testLogger())
	other := NewAuthenticator("another-secret-1234567", testLogger())

	wrongKey, err := other.NewToken(testPrincipal(), time.Hour)
	require.NoError(t, err)

	expired, err := a.NewToken(testPrincipal(), -time.Minute)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong signing key", token: wrongKey},
		{name: "expired", token: expired},
		{name: "non uuid subject", token: badSubject},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Parse(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator(testSecret, testLogger())
	token, err := a.NewToken(testPrincipal(), time.Hour)
	require.NoError(t, err)

	var seen *models.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := a.Middleware(next)

	t.Run("bearer header", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/payments/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, testPrincipal().ID, seen.ID)
	})

	t.Run("legacy header", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/payments/mine", nil)
		req.Header.Set("x-auth-token", token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.NotNil(t, seen)
		assert.Equal(t, "abebe@example.com", seen.Email)
	})

	t.Run("no token passes through anonymous", func(t *testing.T) {
		seen = &models.Principal{}
		req := httptest.NewRequest(http.MethodGet, "/payments/verify", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payments/mine", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthenticated","message":"invalid or expired token"}`, rec.Body.String())
	})
}
