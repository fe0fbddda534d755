package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/dandi-labs/dandi/internal/auth/domain"
	authService "github.com/dandi-labs/dandi/internal/auth/service"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
	"github.com/dandi-labs/dandi/internal/httputil"
)

// DefaultSessionCookie is the cookie read when no other name is configured.
const DefaultSessionCookie = "dandi_session"

const bearerPrefix = "bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively. Returns "" when absent or malformed.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// SessionMiddleware authenticates the request with a session token and stores the
// owner as a Principal in the request context.
//
// The token is read from the cookieName cookie, falling back to the Bearer header.
// Missing, invalid and expired tokens all answer 401 with the same body.
func SessionMiddleware(
	verifier authService.SessionVerifier,
	cookieName string,
	logger *slog.Logger,
) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = BearerToken(c)
		}

		if token == "" {
			logger.Debug("session authentication failed: no token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ownerID, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("session authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), &authDomain.Principal{
			OwnerID: ownerID,
			Source:  authDomain.PrincipalSourceSession,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
