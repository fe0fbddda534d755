package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dandi-labs/dandi/cmd/app/commands"
	"github.com/dandi-labs/dandi/internal/apikey/reveal"
	"github.com/dandi-labs/dandi/internal/app"
	"github.com/dandi-labs/dandi/internal/config"
)

func ownerIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "owner-id",
		Aliases:  []string{"o"},
		Required: true,
		Usage:    "Owner ID (UUID)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "type",
		Aliases:  []string{"t"},
		Required: true,
		Usage:    "Key type: 'production' or 'development'",
	}
}

func getAPIKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Create an api key and print its secret",
			Flags: []cli.Flag{
				ownerIDFlag(),
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable key name",
				},
				typeFlag(),
				&cli.IntFlag{
					Name:  "usage-limit",
					Value: 0,
					Usage: "Informational usage limit (0 for none)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAPIKey(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner-id"),
					cmd.String("name"),
					cmd.String("type"),
					int64(cmd.Int("usage-limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "import-api-key",
			Usage: "Import an api key generated elsewhere",
			Flags: []cli.Flag{
				ownerIDFlag(),
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable key name",
				},
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "The existing api key secret",
				},
				typeFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunImportAPIKey(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner-id"),
					cmd.String("name"),
					cmd.String("key"),
					cmd.String("type"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-api-keys",
			Usage: "List an owner's api keys, masked",
			Flags: []cli.Flag{
				ownerIDFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunListAPIKeys(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete-api-key",
			Usage: "Delete an api key",
			Flags: []cli.Flag{
				ownerIDFlag(),
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "API key ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeleteAPIKey(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner-id"),
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "reveal-api-key",
			Usage: "Show an api key secret until Enter is pressed or the window elapses",
			Flags: []cli.Flag{
				ownerIDFlag(),
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "API key ID (UUID)",
				},
				&cli.DurationFlag{
					Name:    "window",
					Aliases: []string{"w"},
					Value:   reveal.DefaultWindow,
					Usage:   "How long the secret stays visible",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevealAPIKey(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("owner-id"),
					cmd.String("id"),
					cmd.Duration("window"),
				)
			},
		},
	}
}
