package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/cmsgen/cmsgen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "cmsgen",
		Usage:   `Generate typed clients, validation schemas and data services from a headless CMS schema.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("CMSGEN_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			zerolog.SetGlobalLevel(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a cmsgen.json configuration in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "generate",
				Usage: "Fetch the CMS schema and generate client code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token, overrides the configured one",
						Sources: cli.EnvVars("CMS_API_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "url",
						Usage:   "CMS base URL, overrides the configured one",
						Sources: cli.EnvVars("CMS_API_URL"),
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "regenerate when the configuration changes",
					},
					&cli.BoolFlag{
						Name:  "force-clean",
						Usage: "remove files left over from a previous layout without asking",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, commands.GenerateOptions{
						Token:      c.String("token"),
						URL:        c.String("url"),
						Watch:      c.Bool("watch"),
						ForceClean: c.Bool("force-clean"),
					})
				},
			},
			{
				Name:  "clean",
				Usage: "Remove all generated files from the output directory",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "skip the confirmation prompt",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Clean(ctx, commands.CleanOptions{
						Force: c.Bool("force"),
					})
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run cmsgen")
	}
}
