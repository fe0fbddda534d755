package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/dandi-labs/dandi/internal/auth/domain"
	"github.com/dandi-labs/dandi/internal/auth/http/mocks"
	"github.com/dandi-labs/dandi/internal/httputil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSessionRouter mounts the middleware in front of a handler that echoes the principal.
func newSessionRouter(verifier *mocks.MockSessionVerifier) *gin.Engine {
	router := gin.New()
	router.Use(SessionMiddleware(verifier, "", newTestLogger()))
	router.GET("/apikeys", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"owner_id": principal.OwnerID.String(),
			"source":   string(principal.Source),
		})
	})
	return router
}

func TestSessionMiddleware(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("Success_Cookie", func(t *testing.T) {
		verifier := mocks.NewMockSessionVerifier(t)
		verifier.On("Verify", "cookie-token").Return(ownerID, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/apikeys", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "cookie-token"})
		w := httptest.NewRecorder()
		newSessionRouter(verifier).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ownerID.String(), body["owner_id"])
		assert.Equal(t, "session", body["source"])
	})

	t.Run("Success_BearerFallback", func(t *testing.T) {
		verifier := mocks.NewMockSessionVerifier(t)
		verifier.On("Verify", "header-token").Return(ownerID, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/apikeys", nil)
		req.Header.Set("Authorization", "BEARER header-token")
		w := httptest.NewRecorder()
		newSessionRouter(verifier).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_CookieWins", func(t *testing.T) {
		verifier := mocks.NewMockSessionVerifier(t)
		verifier.On("Verify", "cookie-token").Return(ownerID, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/apikeys", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
		w := httptest.NewRecorder()
		newSessionRouter(verifier).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	unauthorized := []struct {
		name   string
		header string
		token  string
	}{
		{name: "MissingToken"},
		{name: "MalformedHeader", header: "Basic dXNlcjpwYXNz"},
		{name: "EmptyBearer", header: "Bearer "},
		{name: "InvalidToken", header: "Bearer forged", token: "forged"},
	}

	var firstBody string
	for _, tt := range unauthorized {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			verifier := mocks.NewMockSessionVerifier(t)
			if tt.token != "" {
				verifier.On("Verify", tt.token).Return(uuid.Nil, authDomain.ErrInvalidSession).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/apikeys", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newSessionRouter(verifier).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body.Error)

			if firstBody == "" {
				firstBody = w.Body.String()
			}
			assert.Equal(t, firstBody, w.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{header: "", expected: ""},
		{header: "Bearer abc", expected: "abc"},
		{header: "bearer abc ", expected: "abc"},
		{header: "Token abc", expected: ""},
		{header: "Bearer", expected: ""},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.expected, BearerToken(c), tt.header)
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	principal, ok := GetPrincipal(ctx)
	assert.False(t, ok)
	assert.Nil(t, principal)

	want := &authDomain.Principal{OwnerID: uuid.New(), Source: authDomain.PrincipalSourceAPIKey}
	got, ok := GetPrincipal(WithPrincipal(ctx, want))
	assert.True(t, ok)
	assert.Same(t, want, got)

	_, ok = GetPrincipal(WithPrincipal(ctx, nil))
	assert.False(t, ok)
}
