package planet

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

// Runs against a migrated database when TEST_DATABASE_URL is set.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `DELETE FROM planets WHERE kepler_name LIKE 'Test-%'`)
	require.NoError(t, err)

	repo := NewPostgresRepository(db, testLogger())

	inserted, err := repo.UpsertPlanet(ctx, Planet{KeplerName: "Test-1 b"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.UpsertPlanet(ctx, Planet{KeplerName: "Test-1 b"})
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err := repo.FindByName(ctx, "Test-1 b")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.FindByName(ctx, "Test-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
