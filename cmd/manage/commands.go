package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/service"
)

var errSQLiteMigrations = errors.New("sqlite schemas are created on startup; migrate down and status need postgres")

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "manage",
		Usage:     "recipebox administration",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.ErrWriter, cmd.String("log-level"), "text")
			return ctx, nil
		},
		Commands: []*cli.Command{
			migrateCmd(),
			createSuperuserCmd(),
			storageCmd(),
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply, roll back or inspect schema migrations",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					if cfg.DBDriver == "sqlite" {
						db, err := database.New(ctx, cfg)
						if err != nil {
							return err
						}
						return database.RunMigrations(ctx, db)
					}
					return withPostgres(ctx, cfg, database.MigrateUp)
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					return withPostgres(ctx, cfg, database.MigrateDown)
				},
			},
			{
				Name:  "status",
				Usage: "Print the state of every migration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					return withPostgres(ctx, cfg, func(ctx context.Context, db *sql.DB) error {
						if err := database.MigrationStatus(ctx, db); err != nil {
							return err
						}
						v, err := database.MigrationVersion(ctx, db)
						if err != nil {
							return err
						}
						_, err = fmt.Fprintf(cmd.Root().Writer, "current version: %d\n", v)
						return err
					})
				},
			},
		},
	}
}

func createSuperuserCmd() *cli.Command {
	return &cli.Command{
		Name:  "createsuperuser",
		Usage: "Create an account with staff and superuser rights",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("SUPERUSER_PASSWORD")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := database.New(ctx, cfg)
			if err != nil {
				return err
			}
			if err := database.RunMigrations(ctx, db); err != nil {
				return err
			}

			user, err := service.NewAuthService(db, cfg.JWTSecret).
				CreateSuperuser(ctx, cmd.String("email"), cmd.String("password"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "created superuser %s\n", user)
			return err
		},
	}
}

func storageCmd() *cli.Command {
	return &cli.Command{
		Name:  "storage",
		Usage: "Media storage tasks",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Allow public reads of uploaded images in the S3 bucket",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					if cfg.StorageBackend != "s3" {
						_, err := fmt.Fprintln(cmd.Root().Writer, "local storage needs no setup")
						return err
					}
					s3cfg, err := config.NewS3Config(ctx, cfg)
					if err != nil {
						return err
					}
					if err := s3cfg.SetupBucketPolicy(ctx); err != nil {
						return err
					}
					_, err = fmt.Fprintf(cmd.Root().Writer, "bucket %s ready\n", cfg.S3BucketName)
					return err
				},
			},
		},
	}
}

func withPostgres(ctx context.Context, cfg *config.Config, fn func(context.Context, *sql.DB) error) error {
	if cfg.DBDriver == "sqlite" {
		return errSQLiteMigrations
	}
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return fn(ctx, db)
}
