// Package http provides HTTP handlers for api key management, key validation
// and the api key authenticated data endpoint.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/apikey/http/dto"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
	authHTTP "github.com/dandi-labs/dandi/internal/auth/http"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
	"github.com/dandi-labs/dandi/internal/httputil"
	customValidation "github.com/dandi-labs/dandi/internal/validation"
)

// APIKeyHandler handles the session authenticated api key endpoints. Every
// operation is scoped to the principal stored by the session middleware.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new api key handler with required dependencies.
func NewAPIKeyHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// ListHandler returns every key of the caller, newest first, list-masked.
// GET /apikeys
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(apiKeys))
}

// CreateHandler generates a new key.
// POST /apikeys - Returns 201 Created with the key redacted.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key created",
		slog.String("api_key_id", apiKey.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("type", string(apiKey.Class)))

	c.JSON(http.StatusCreated, dto.MapAPIKeyToRedactedResponse(apiKey))
}

// ImportHandler stores an externally generated key.
// POST /apikeys/import - Returns 201 Created with the key redacted.
func (h *APIKeyHandler) ImportHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.ImportAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Import(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key imported",
		slog.String("api_key_id", apiKey.ID.String()),
		slog.String("owner_id", ownerID.String()))

	c.JSON(http.StatusCreated, dto.MapAPIKeyToRedactedResponse(apiKey))
}

// GetHandler returns one key, redacted unless showFull=true.
// GET /apikeys/:id?showFull=bool
func (h *APIKeyHandler) GetHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	showFull := false
	if raw := c.Query("showFull"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid showFull parameter: must be a boolean"),
				h.logger,
			)
			return
		}
		showFull = parsed
	}

	if !showFull {
		apiKey, err := h.apiKeyUseCase.Get(c.Request.Context(), id, ownerID)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapAPIKeyToRedactedResponse(apiKey))
		return
	}

	apiKey, err := h.apiKeyUseCase.Reveal(c.Request.Context(), id, ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key revealed",
		slog.String("api_key_id", apiKey.ID.String()),
		slog.String("owner_id", ownerID.String()))

	c.JSON(http.StatusOK, dto.MapAPIKeyToRevealResponse(apiKey))
}

// RenameHandler changes the name of a key.
// PUT /apikeys/:id - Returns 200 OK with the key redacted.
func (h *APIKeyHandler) RenameHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.RenameAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Rename(c.Request.Context(), id, ownerID, req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeyToRedactedResponse(apiKey))
}

// DeleteHandler removes a key.
// DELETE /apikeys/:id - Returns 204 No Content.
func (h *APIKeyHandler) DeleteHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.apiKeyUseCase.Delete(c.Request.Context(), id, ownerID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key deleted",
		slog.String("api_key_id", id.String()),
		slog.String("owner_id", ownerID.String()))

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ownerID returns the caller's owner id, answering 401 when the route was
// mounted without session authentication.
func (h *APIKeyHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return principal.OwnerID, true
}

func (h *APIKeyHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid api key ID format: must be a valid UUID"),
			h.logger,
		)
		return uuid.Nil, false
	}
	return id, true
}

// isInvalidKey reports whether err means the presented secret is not a usable key.
func isInvalidKey(err error) bool {
	return apperrors.Is(err, apikeyDomain.ErrAPIKeyNotFound) || apperrors.Is(err, apperrors.ErrInvalidInput)
}
