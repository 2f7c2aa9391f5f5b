package migrations

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every up migration needs a down migration for Rollback to work.
func TestMigrations_HaveDownFiles(t *testing.T) {
	src, err := iofs.New(migrationFiles, "sql")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up migration %d", version)
		up.Close()

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down migration %d", version)
		body, err := io.ReadAll(down)
		down.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, body, "down migration %d is empty", version)

		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}
}
