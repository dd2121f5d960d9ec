package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pageza/recipebox/backend/internal/database/migrations"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Models lists every table managed by gorm auto-migration.
var Models = []any{
	&models.User{},
	&models.Token{},
	&models.Tag{},
	&models.Ingredient{},
	&models.Recipe{},
}

// RunMigrations brings the schema up to date. SQLite databases are
// auto-migrated from the models; PostgreSQL runs the embedded goose
// migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		slog.Info("using gorm auto-migration for sqlite")
		return db.WithContext(ctx).AutoMigrate(Models...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return MigrateUp(ctx, sqlDB)
}

func setupGoose() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	return goose.SetDialect("postgres")
}

// MigrateUp applies all pending migrations.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, ".")
}

// MigrationVersion returns the current schema version.
func MigrationVersion(ctx context.Context, db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}
