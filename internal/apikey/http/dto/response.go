package dto

import (
	"time"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// APIKeyResponse represents an api key in API responses. Key is masked unless
// the caller explicitly asked to reveal it.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key"`
	Type       string     `json:"type"`
	Usage      int64      `json:"usage"`
	UsageLimit *int64     `json:"usage_limit"`
	LastUsed   *time.Time `json:"last_used"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListAPIKeysResponse is a paginated page of list-masked api keys.
type ListAPIKeysResponse struct {
	Data   []APIKeyResponse `json:"data"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

// ValidateKeyResponse is returned for a recognised api key.
type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}

func mapAPIKey(apiKey *apikeyDomain.APIKey, key string) APIKeyResponse {
	return APIKeyResponse{
		ID:         apiKey.ID.String(),
		Name:       apiKey.Name,
		Key:        key,
		Type:       string(apiKey.Class),
		Usage:      apiKey.UsageCount,
		UsageLimit: apiKey.UsageLimit,
		LastUsed:   apiKey.LastUsedAt,
		CreatedAt:  apiKey.CreatedAt,
	}
}

// MapAPIKeyToRedactedResponse masks the secret with RedactedMask. Used by create,
// import, rename and masked reads.
func MapAPIKeyToRedactedResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return mapAPIKey(apiKey, apikeyDomain.RedactedMask(apiKey.Secret))
}

// MapAPIKeyToListResponse masks the secret with ListMask.
func MapAPIKeyToListResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return mapAPIKey(apiKey, apikeyDomain.ListMask(apiKey.Secret))
}

// MapAPIKeyToRevealResponse includes the plaintext secret.
// SECURITY: only for an explicit reveal by the key's owner.
func MapAPIKeyToRevealResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return mapAPIKey(apiKey, apiKey.Secret)
}

// MapAPIKeysToListResponse list-masks every key. The result is never nil so it
// always encodes as a JSON array.
func MapAPIKeysToListResponse(apiKeys []*apikeyDomain.APIKey) []APIKeyResponse {
	data := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		data = append(data, MapAPIKeyToListResponse(apiKey))
	}
	return data
}

// MapAPIKeysToPageResponse wraps a list-masked page with its window.
func MapAPIKeysToPageResponse(apiKeys []*apikeyDomain.APIKey, offset, limit int) ListAPIKeysResponse {
	return ListAPIKeysResponse{
		Data:   MapAPIKeysToListResponse(apiKeys),
		Offset: offset,
		Limit:  limit,
	}
}
