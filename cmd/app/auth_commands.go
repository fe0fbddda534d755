package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dandi-labs/dandi/cmd/app/commands"
	"github.com/dandi-labs/dandi/internal/app"
	"github.com/dandi-labs/dandi/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-session-token",
			Usage: "Issue a dashboard session token for an owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "owner-id",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owner ID (UUID)",
				},
				&cli.DurationFlag{
					Name:  "ttl",
					Usage: "Token lifetime (defaults to AUTH_SESSION_TOKEN_EXPIRATION_SECONDS)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				sessionService, err := container.SessionService()
				if err != nil {
					return err
				}

				ttl := cmd.Duration("ttl")
				if ttl == 0 {
					ttl = cfg.SessionTokenExpiration
				}

				return commands.RunIssueSessionToken(
					sessionService,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner-id"),
					ttl,
					cmd.String("format"),
				)
			},
		},
	}
}
