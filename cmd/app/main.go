// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/contractflow/contractflow/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "contractflow",
		Usage:   "Contract status and notification delivery engine",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server with the reminder scheduler",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "worker",
				Usage: "Start the notification delivery workers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunWorker(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "remind-all",
				Usage: "Run one reminder pass over every contract pending signature",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRemindAll(ctx)
				},
			},
			{
				Name:  "remind-contract",
				Usage: "Evaluate the reminder policy for a single contract",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Contract ID (UUID)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRemindContract(ctx, cmd.String("id"))
				},
			},
			{
				Name:  "pause",
				Usage: "Suspend notification dispatch until the given deadline",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "until",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Pause deadline in RFC 3339 format (e.g., 2026-09-15T09:00:00Z)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunPause(ctx, cmd.String("until"))
				},
			},
			{
				Name:  "resume",
				Usage: "Resume notification dispatch",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunResume(ctx)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
