package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dandi-labs/dandi/internal/apikey/http/dto"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
	"github.com/dandi-labs/dandi/internal/httputil"
	customValidation "github.com/dandi-labs/dandi/internal/validation"
)

// invalidAPIKeyMessage is the only body returned for unknown keys.
const invalidAPIKeyMessage = "Invalid API key"

func respondInvalidAPIKey(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{Error: invalidAPIKeyMessage})
}

// ValidateKeyHandler checks raw api keys presented by integrations.
type ValidateKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewValidateKeyHandler creates a new validate-key handler.
func NewValidateKeyHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *ValidateKeyHandler {
	return &ValidateKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// ValidateHandler answers whether a key exists and counts the check as one use.
// POST /validate-key - Returns 200 {"valid":true} or 401 {"error":"Invalid API key"}.
func (h *ValidateKeyHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.RecordUsage(c.Request.Context(), req.APIKey)
	if err != nil {
		if isInvalidKey(err) {
			h.logger.Debug("api key validation failed")
			respondInvalidAPIKey(c)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Debug("api key validated", slog.String("api_key_id", apiKey.ID.String()))

	c.JSON(http.StatusOK, dto.ValidateKeyResponse{Valid: true})
}
