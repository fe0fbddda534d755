package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/apikey/http/dto"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
)

// RunCreateAPIKey creates an api key for ownerIDFlag and prints its secret.
// The secret is printed only here; later reads are masked.
// A usageLimit of 0 creates a key without a limit.
func RunCreateAPIKey(
	ctx context.Context,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	ownerIDFlag, name, keyType string,
	usageLimit int64,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	req := dto.CreateAPIKeyRequest{Name: name, Type: keyType}
	if usageLimit != 0 {
		req.UsageLimit = &usageLimit
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid api key: %w", err)
	}

	apiKey, err := apiKeyUseCase.Create(ctx, ownerID, req.ToInput())
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, dto.MapAPIKeyToRevealResponse(apiKey)); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "\nAPI key created successfully!")
		writeAPIKeyText(writer, apiKey, apiKey.Secret)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: Store the key securely. Listings only show it masked.")
	}

	logger.Info("api key created",
		slog.String("api_key_id", apiKey.ID.String()),
		slog.String("owner_id", ownerID.String()),
	)
	return nil
}

// RunImportAPIKey stores a key generated elsewhere for ownerIDFlag.
func RunImportAPIKey(
	ctx context.Context,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	ownerIDFlag, name, key, keyType string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	req := dto.ImportAPIKeyRequest{Name: name, Key: key, Type: keyType}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid api key: %w", err)
	}

	apiKey, err := apiKeyUseCase.Import(ctx, ownerID, req.ToInput())
	if err != nil {
		return fmt.Errorf("failed to import api key: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, dto.MapAPIKeyToRedactedResponse(apiKey)); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "\nAPI key imported successfully!")
		writeAPIKeyText(writer, apiKey, apikeyDomain.RedactedMask(apiKey.Secret))
	}

	logger.Info("api key imported",
		slog.String("api_key_id", apiKey.ID.String()),
		slog.String("owner_id", ownerID.String()),
	)
	return nil
}

// RunListAPIKeys prints every key of ownerIDFlag, newest first, list-masked.
func RunListAPIKeys(
	ctx context.Context,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	ownerIDFlag string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	apiKeys, err := apiKeyUseCase.List(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list api keys: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, dto.MapAPIKeysToListResponse(apiKeys)); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tNAME\tTYPE\tKEY\tUSAGE\tLAST USED\tCREATED AT")
		for _, apiKey := range apiKeys {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				apiKey.ID,
				apiKey.Name,
				apiKey.Class,
				apikeyDomain.ListMask(apiKey.Secret),
				formatUsage(apiKey),
				formatLastUsed(apiKey.LastUsedAt),
				apiKey.CreatedAt.UTC().Format(time.RFC3339),
			)
		}
		_ = tw.Flush()
	}

	logger.Info("api keys listed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(apiKeys)),
	)
	return nil
}

// RunDeleteAPIKey deletes the key idFlag of ownerIDFlag.
func RunDeleteAPIKey(
	ctx context.Context,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	ownerIDFlag, idFlag string,
) error {
	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	id, err := parseUUID("id", idFlag)
	if err != nil {
		return err
	}

	if err := apiKeyUseCase.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "API key %s deleted\n", id)

	logger.Info("api key deleted",
		slog.String("api_key_id", id.String()),
		slog.String("owner_id", ownerID.String()),
	)
	return nil
}

func writeAPIKeyText(writer io.Writer, apiKey *apikeyDomain.APIKey, key string) {
	_, _ = fmt.Fprintf(writer, "ID: %s\n", apiKey.ID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", apiKey.Name)
	_, _ = fmt.Fprintf(writer, "Type: %s\n", apiKey.Class)
	_, _ = fmt.Fprintf(writer, "Key: %s\n", key)
	if apiKey.UsageLimit != nil {
		_, _ = fmt.Fprintf(writer, "Usage Limit: %d\n", *apiKey.UsageLimit)
	}
}

func formatUsage(apiKey *apikeyDomain.APIKey) string {
	if apiKey.UsageLimit == nil {
		return fmt.Sprintf("%d", apiKey.UsageCount)
	}
	return fmt.Sprintf("%d/%d", apiKey.UsageCount, *apiKey.UsageLimit)
}

func formatLastUsed(lastUsedAt *time.Time) string {
	if lastUsedAt == nil {
		return "never"
	}
	return lastUsedAt.UTC().Format(time.RFC3339)
}
