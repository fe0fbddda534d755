package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dandi-labs/dandi/internal/apikey/http/dto"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
	authDomain "github.com/dandi-labs/dandi/internal/auth/domain"
	authHTTP "github.com/dandi-labs/dandi/internal/auth/http"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
	"github.com/dandi-labs/dandi/internal/httputil"
)

// APIKeyMiddleware authenticates a request with "Authorization: Bearer <api key>".
// Each authenticated request counts as one use of the key. The key's owner is
// stored as the request principal.
func APIKeyMiddleware(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := authHTTP.BearerToken(c)
		if secret == "" {
			respondInvalidAPIKey(c)
			c.Abort()
			return
		}

		apiKey, err := apiKeyUseCase.RecordUsage(c.Request.Context(), secret)
		if err != nil {
			if isInvalidKey(err) {
				logger.Debug("api key authentication failed")
				respondInvalidAPIKey(c)
			} else {
				httputil.HandleErrorGin(c, err, logger)
			}
			c.Abort()
			return
		}

		ctx := authHTTP.WithPrincipal(c.Request.Context(), &authDomain.Principal{
			OwnerID: apiKey.OwnerID,
			Source:  authDomain.PrincipalSourceAPIKey,
			KeyID:   apiKey.ID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// DataHandler serves the api key authenticated data API.
type DataHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// ListHandler returns a list-masked page of the authenticated key owner's keys.
// GET /v1/data?offset=0&limit=20
func (h *DataHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	apiKeys, err := h.apiKeyUseCase.ListPage(c.Request.Context(), principal.OwnerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToPageResponse(apiKeys, offset, limit))
}
