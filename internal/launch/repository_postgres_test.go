package launch

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

// Runs against a migrated, disposable database when TEST_DATABASE_URL is set.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `TRUNCATE launches`)
	require.NoError(t, err)

	repo := NewPostgresRepository(db, testLogger())

	_, found, err := repo.LatestFlightNumber(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	for _, n := range []int{102, 101} {
		require.NoError(t, repo.SaveLaunch(ctx, sampleLaunch(n)))
	}

	latest, _, err := repo.LatestFlightNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 102, latest)

	all, err := repo.ListLaunches(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102}, flightNumbers(all))
	assert.Equal(t, []string{"Zero to Mastery", "NASA"}, all[0].Customers)

	page, err := repo.ListLaunches(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{102}, flightNumbers(page))

	modified, err := repo.AbortLaunch(ctx, 101)
	require.NoError(t, err)
	assert.True(t, modified)

	modified, err = repo.AbortLaunch(ctx, 101)
	require.NoError(t, err)
	assert.False(t, modified)
}
