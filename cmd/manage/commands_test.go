package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/models"
)

func sqliteEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manage.db")
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("STORAGE_BACKEND", "local")
	return path
}

func TestCreateSuperuser(t *testing.T) {
	sqliteEnv(t)
	var out bytes.Buffer

	err := newApp(&out).Run(context.Background(), []string{
		"manage", "createsuperuser", "--email", "Admin@Example.COM", "--password", "secret123",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created superuser Admin@example.com")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	db, err := database.New(context.Background(), cfg)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("email = ?", "Admin@example.com").First(&user).Error)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsActive)
}

func TestMigrateOnSQLite(t *testing.T) {
	sqliteEnv(t)
	var out bytes.Buffer

	require.NoError(t, newApp(&out).Run(context.Background(), []string{"manage", "migrate", "up"}))

	err := newApp(&out).Run(context.Background(), []string{"manage", "migrate", "down"})
	assert.ErrorIs(t, err, errSQLiteMigrations)
}

func TestStorageInitLocal(t *testing.T) {
	sqliteEnv(t)
	var out bytes.Buffer

	require.NoError(t, newApp(&out).Run(context.Background(), []string{"manage", "storage", "init"}))
	assert.Contains(t, out.String(), "local storage needs no setup")
}
