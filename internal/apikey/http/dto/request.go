// Package dto provides data transfer objects for api key HTTP requests and responses.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	customValidation "github.com/dandi-labs/dandi/internal/validation"
)

// MaxNameLength caps api key names.
const MaxNameLength = 255

var keyClassRule = validation.In(
	string(apikeyDomain.KeyClassProduction),
	string(apikeyDomain.KeyClassDevelopment),
).Error("must be one of: production, development")

func nameRules(name *string) *validation.FieldRules {
	return validation.Field(name,
		validation.Required,
		customValidation.NotBlank,
		customValidation.Printable,
		validation.RuneLength(1, MaxNameLength),
	)
}

// CreateAPIKeyRequest contains the parameters for creating an api key.
type CreateAPIKeyRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	UsageLimit *int64 `json:"usageLimit"`
}

// Validate checks if the create request is valid. A zero usage limit is
// rejected by the use case.
func (r *CreateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		nameRules(&r.Name),
		validation.Field(&r.Type, validation.Required, keyClassRule),
		validation.Field(&r.UsageLimit, validation.Min(int64(1))),
	)
}

// ToInput converts the request to the use case input.
func (r *CreateAPIKeyRequest) ToInput() *apikeyDomain.CreateAPIKeyInput {
	return &apikeyDomain.CreateAPIKeyInput{
		Name:       r.Name,
		Class:      apikeyDomain.KeyClass(strings.TrimSpace(r.Type)),
		UsageLimit: r.UsageLimit,
	}
}

// RenameAPIKeyRequest contains the new name of an api key.
type RenameAPIKeyRequest struct {
	Name string `json:"name"`
}

// Validate checks if the rename request is valid.
func (r *RenameAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r, nameRules(&r.Name))
}

// ImportAPIKeyRequest contains an externally generated secret to store.
type ImportAPIKeyRequest struct {
	Name string `json:"name"`
	Key  string `json:"key"` //nolint:gosec // plaintext supplied by the owner
	Type string `json:"type"`
}

// Validate checks if the import request is valid.
func (r *ImportAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		nameRules(&r.Name),
		validation.Field(&r.Key,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Type, validation.Required, keyClassRule),
	)
}

// ToInput converts the request to the use case input.
func (r *ImportAPIKeyRequest) ToInput() *apikeyDomain.ImportAPIKeyInput {
	return &apikeyDomain.ImportAPIKeyInput{
		Name:   r.Name,
		Secret: r.Key,
		Class:  apikeyDomain.KeyClass(strings.TrimSpace(r.Type)),
	}
}

// ValidateKeyRequest carries a raw api key presented for validation.
type ValidateKeyRequest struct {
	APIKey string `json:"apiKey"` //nolint:gosec // plaintext presented by a caller
}

// Validate checks if the validate-key request is valid.
func (r *ValidateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.APIKey, validation.Required, customValidation.NotBlank),
	)
}
