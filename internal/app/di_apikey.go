package app

import (
	"fmt"

	apikeyHTTP "github.com/dandi-labs/dandi/internal/apikey/http"
	apikeyRepository "github.com/dandi-labs/dandi/internal/apikey/repository"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
)

// APIKeyRepository returns the api key repository for the configured driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepositoryInit.Do(func() {
		c.apiKeyRepository, err = c.initAPIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyRepository"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepository, nil
}

// APIKeyUseCase returns the api key use case, decorated with metrics when enabled.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// APIKeyHandler returns the handler for the session authenticated /apikeys routes.
func (c *Container) APIKeyHandler() (*apikeyHTTP.APIKeyHandler, error) {
	var err error
	c.apiKeyHandlerInit.Do(func() {
		var useCase apikeyUseCase.APIKeyUseCase
		useCase, err = c.APIKeyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get api key use case for api key handler: %w", err)
			c.initErrors["apiKeyHandler"] = err
			return
		}
		c.apiKeyHandler = apikeyHTTP.NewAPIKeyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyHandler"]; exists {
		return nil, storedErr
	}
	return c.apiKeyHandler, nil
}

// ValidateKeyHandler returns the handler for POST /validate-key.
func (c *Container) ValidateKeyHandler() (*apikeyHTTP.ValidateKeyHandler, error) {
	var err error
	c.validateKeyHandlerInit.Do(func() {
		var useCase apikeyUseCase.APIKeyUseCase
		useCase, err = c.APIKeyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get api key use case for validate key handler: %w", err)
			c.initErrors["validateKeyHandler"] = err
			return
		}
		c.validateKeyHandler = apikeyHTTP.NewValidateKeyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["validateKeyHandler"]; exists {
		return nil, storedErr
	}
	return c.validateKeyHandler, nil
}

// DataHandler returns the handler for the api key authenticated /v1 routes.
func (c *Container) DataHandler() (*apikeyHTTP.DataHandler, error) {
	var err error
	c.dataHandlerInit.Do(func() {
		var useCase apikeyUseCase.APIKeyUseCase
		useCase, err = c.APIKeyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get api key use case for data handler: %w", err)
			c.initErrors["dataHandler"] = err
			return
		}
		c.dataHandler = apikeyHTTP.NewDataHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dataHandler"]; exists {
		return nil, storedErr
	}
	return c.dataHandler, nil
}

func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	case "mysql":
		return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	repo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	sealer, err := c.SecretSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret sealer for api key use case: %w", err)
	}

	useCase := apikeyUseCase.NewAPIKeyUseCase(txManager, repo, c.KeyGenerator(), sealer)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
	}
	return apikeyUseCase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics), nil
}
