package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	authService "github.com/dandi-labs/dandi/internal/auth/service"
)

// RunIssueSessionToken mints a session token for ownerID, valid for ttl.
// The token is accepted by the /apikeys routes as a cookie or bearer token.
func RunIssueSessionToken(
	sessionService authService.SessionService,
	logger *slog.Logger,
	writer io.Writer,
	ownerIDFlag string,
	ttl time.Duration,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	token, err := sessionService.Issue(ownerID, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue session token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(ttl).Truncate(time.Second)

	if format == "json" {
		if err := writeJSON(writer, map[string]string{
			"owner_id":   ownerID.String(),
			"token":      token,
			"expires_at": expiresAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Owner ID: %s\n", ownerID)
		_, _ = fmt.Fprintf(writer, "Expires At: %s\n", expiresAt.Format(time.RFC3339))
		_, _ = fmt.Fprintf(writer, "Token: %s\n", token)
	}

	logger.Info("session token issued",
		slog.String("owner_id", ownerID.String()),
		slog.Duration("ttl", ttl),
	)
	return nil
}
