package postgres

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/internal/config"
)

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	src, err := embeddedSource()
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	version, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	up, _, err := src.ReadUp(version)
	require.NoError(t, err)
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	_ = up.Close()
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS projects")
	assert.Contains(t, string(body), "projects_team_name_key")

	down, _, err := src.ReadDown(version)
	require.NoError(t, err)
	_ = down.Close()
}

func TestRunMigrationsDisabled(t *testing.T) {
	assert.NoError(t, RunMigrations(nil, nil))
	assert.NoError(t, RunMigrations(&config.Config{}, nil))
}

func TestNewPoolRejectsMalformedURL(t *testing.T) {
	_, err := NewPool(context.Background(), config.DatabaseConfig{URL: "postgres://%zz"}, "planner", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}
