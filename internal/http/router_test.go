package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandi-labs/dandi/internal/apikey/apikeytest"
	apikeyHTTP "github.com/dandi-labs/dandi/internal/apikey/http"
	"github.com/dandi-labs/dandi/internal/apikey/http/dto"
	apikeyService "github.com/dandi-labs/dandi/internal/apikey/service"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
	authService "github.com/dandi-labs/dandi/internal/auth/service"
	"github.com/dandi-labs/dandi/internal/config"
	"github.com/dandi-labs/dandi/internal/metrics"
)

const routerSessionSecret = "router-test-secret"

// routerEnv wires the real router to an in-memory store.
type routerEnv struct {
	handler  http.Handler
	sessions authService.SessionService
	store    *apikeytest.MemoryRepository
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sealer, err := apikeyService.NewSecretSealer(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)

	store := apikeytest.NewMemoryRepository()
	useCase := apikeyUseCase.NewAPIKeyUseCase(
		apikeytest.TxManager{},
		store,
		apikeyService.NewKeyGenerator(),
		sealer,
	)

	sessions, err := authService.NewSessionService(routerSessionSecret, "")
	require.NoError(t, err)

	provider, err := metrics.NewProvider("router_test")
	require.NoError(t, err)

	cfg := &config.Config{LogLevel: "info", SessionCookieName: "dandi_session"}

	server := NewServer(nil, "localhost", 0, logger)
	server.SetupRouter(
		cfg,
		apikeyHTTP.NewAPIKeyHandler(useCase, logger),
		apikeyHTTP.NewValidateKeyHandler(useCase, logger),
		apikeyHTTP.NewDataHandler(useCase, logger),
		useCase,
		sessions,
		provider,
	)
	gin.SetMode(gin.TestMode)

	return &routerEnv{handler: server.GetHandler(), sessions: sessions, store: store}
}

func (e *routerEnv) session(t *testing.T, ownerID uuid.UUID) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Issue(ownerID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: "dandi_session", Value: token}
}

func (e *routerEnv) do(method, path string, body any, cookie *http.Cookie, bearer string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_APIKeyLifecycle(t *testing.T) {
	env := newRouterEnv(t)
	ownerID := uuid.Must(uuid.NewV7())
	cookie := env.session(t, ownerID)

	w := env.do(http.MethodPost, "/apikeys", dto.CreateAPIKeyRequest{Name: "CI Bot", Type: "development"}, cookie, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.APIKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "dandi-************************", created.Key)

	w = env.do(http.MethodGet, "/apikeys/"+created.ID+"?showFull=true", nil, cookie, "")
	require.Equal(t, http.StatusOK, w.Code)
	var revealed dto.APIKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &revealed))
	assert.Regexp(t, `^dandi_[2-9A-HJ-NP-Za-km-z]{32}$`, revealed.Key)
	secret := revealed.Key

	w = env.do(http.MethodPost, "/validate-key", dto.ValidateKeyRequest{APIKey: secret}, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true}`, w.Body.String())

	w = env.do(http.MethodGet, "/v1/data", nil, nil, secret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), secret)

	w = env.do(http.MethodGet, "/apikeys", nil, cookie, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), secret)
	var listed []dto.APIKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].Usage)
	assert.NotNil(t, listed[0].LastUsed)
	assert.Equal(t, "dandi..."+secret[len(secret)-4:], listed[0].Key)

	w = env.do(http.MethodPut, "/apikeys/"+created.ID, dto.RenameAPIKeyRequest{Name: "CI Bot v2"}, cookie, "")
	require.Equal(t, http.StatusOK, w.Code)

	intruder := env.session(t, uuid.Must(uuid.NewV7()))
	w = env.do(http.MethodDelete, "/apikeys/"+created.ID, nil, intruder, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, env.store.Len())

	w = env.do(http.MethodDelete, "/apikeys/"+created.ID, nil, cookie, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, env.store.Len())

	w = env.do(http.MethodPost, "/validate-key", dto.ValidateKeyRequest{APIKey: secret}, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid API key"}`, w.Body.String())
}

func TestRouter_ImportConflict(t *testing.T) {
	env := newRouterEnv(t)
	cookie := env.session(t, uuid.Must(uuid.NewV7()))
	req := dto.ImportAPIKeyRequest{Name: "Legacy", Key: "legacy_abcdef1234567890", Type: "production"}

	w := env.do(http.MethodPost, "/apikeys/import", req, cookie, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), req.Key)

	w = env.do(http.MethodPost, "/apikeys/import", req, cookie, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_SessionRequired(t *testing.T) {
	env := newRouterEnv(t)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/apikeys"},
		{http.MethodPost, "/apikeys"},
		{http.MethodPost, "/apikeys/import"},
		{http.MethodGet, "/apikeys/" + uuid.NewString()},
		{http.MethodPut, "/apikeys/" + uuid.NewString()},
		{http.MethodDelete, "/apikeys/" + uuid.NewString()},
	} {
		w := env.do(tt.method, tt.path, nil, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, tt.method+" "+tt.path)
	}

	w := env.do(http.MethodGet, "/apikeys", nil, &http.Cookie{Name: "dandi_session", Value: "forged"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_DataRequiresAPIKey(t *testing.T) {
	env := newRouterEnv(t)
	ownerID := uuid.Must(uuid.NewV7())

	token, err := env.sessions.Issue(ownerID, time.Hour)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/v1/data", nil, nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid API key"}`, w.Body.String())
}

func TestRouter_HealthAndMetricsSurface(t *testing.T) {
	env := newRouterEnv(t)

	w := env.do(http.MethodGet, "/health", nil, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/ready", nil, nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(http.MethodGet, "/metrics", nil, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
