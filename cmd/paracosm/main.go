package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/paracosm-app/backend/internal/config"
	"github.com/paracosm-app/backend/internal/database"
	"github.com/paracosm-app/backend/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "paracosm",
		Usage: "collaborative world-building backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to paracosm.toml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the API server",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					if err := config.Validate(cfg); err != nil {
						return err
					}

					srv, err := server.NewServer(cfg)
					if err != nil {
						return err
					}

					log.Info().Str("addr", srv.Addr).Msg("server starting")
					return srv.ListenAndServe()
				},
			},
			{
				Name:  "migrate",
				Usage: "create database tables",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return database.Initialize(cfg.Database)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("paracosm exited")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return cfg, nil
}
