package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDL_StripsGooseAnnotations(t *testing.T) {
	ddl, err := DDL()
	require.NoError(t, err)

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, ddl, "username    TEXT NOT NULL UNIQUE")
	assert.Contains(t, ddl, "DEFAULT 'user'")
	assert.NotContains(t, ddl, "+goose")
	assert.NotContains(t, ddl, "DROP TABLE")
}

func TestRunMigrations_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), nil))
	assert.Equal(t, "migrations", gotDir)
}

func TestRunMigrations_WrapsError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("permission denied")
	}

	err := RunMigrations(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error: permission denied")
}
