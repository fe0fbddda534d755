package app

import (
	"context"
	"fmt"

	apikeyService "github.com/dandi-labs/dandi/internal/apikey/service"
	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"
	cryptoService "github.com/dandi-labs/dandi/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap the sealing key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// SecretSealer returns the sealer that hashes and encrypts api key secrets.
// The sealing key is unwrapped with KMS on first access.
func (c *Container) SecretSealer() (apikeyService.SecretSealer, error) {
	var err error
	c.secretSealerInit.Do(func() {
		c.secretSealer, err = c.initSecretSealer()
		if err != nil {
			c.initErrors["secretSealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretSealer"]; exists {
		return nil, storedErr
	}
	return c.secretSealer, nil
}

// KeyGenerator returns the api key secret generator.
func (c *Container) KeyGenerator() apikeyService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = apikeyService.NewKeyGenerator()
	})
	return c.keyGenerator
}

func (c *Container) initSecretSealer() (apikeyService.SecretSealer, error) {
	key, err := cryptoService.LoadSealingKey(
		context.Background(),
		c.KMSService(),
		c.config.KMSKeyURI,
		c.config.SealingKey,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load sealing key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	sealer, err := apikeyService.NewSecretSealer(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret sealer: %w", err)
	}
	return sealer, nil
}
