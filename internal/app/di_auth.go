package app

import (
	"fmt"

	authService "github.com/dandi-labs/dandi/internal/auth/service"
)

// SessionService returns the service that issues and verifies dashboard session tokens.
func (c *Container) SessionService() (authService.SessionService, error) {
	var err error
	c.sessionServiceInit.Do(func() {
		c.sessionService, err = authService.NewSessionService(c.config.SessionSecret, c.config.SessionIssuer)
		if err != nil {
			err = fmt.Errorf("failed to create session service: %w", err)
			c.initErrors["sessionService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionService"]; exists {
		return nil, storedErr
	}
	return c.sessionService, nil
}
