package planet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `# This file was produced by the NASA Exoplanet Archive
# COLUMN kepid:          KepID
kepid,kepoi_name,kepler_name,koi_disposition,koi_insol,koi_prad
10797460,K00752.01,Kepler-227 b,CONFIRMED,93.59,2.26
10811496,K00753.01,,CANDIDATE,39.3,0.86
9002278,K00701.04,Kepler-62 f,CONFIRMED,0.41,1.41
8120608,K00571.05,Kepler-186 f,CONFIRMED,0.37,1.17
10593626,K00087.01,Kepler-22 b,CONFIRMED,1.11,2.38
4138008,K01422.04,Kepler-296 A f,CONFIRMED,0.62,1.52
7455287,K00886.03,Kepler-1652 b,CONFIRMED,0.84,1.59
3835670,K00149.01,Kepler-442 b,FALSE POSITIVE,0.70,1.30
`

type stringSource struct {
	data  string
	err   error
	opens int
}

func (s *stringSource) Open(context.Context) (io.ReadCloser, error) {
	s.opens++
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.data)), nil
}

type failingRepository struct {
	*MemoryRepository
	failFor string
}

func (r *failingRepository) UpsertPlanet(ctx context.Context, p Planet) (bool, error) {
	if p.KeplerName == r.failFor {
		return false, errors.New("write timeout")
	}
	return r.MemoryRepository.UpsertPlanet(ctx, p)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsHabitable(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{"earth like", Row{Disposition: "CONFIRMED", InsolationFlux: 1.0, Radius: 1.0}, true},
		{"candidate", Row{Disposition: "CANDIDATE", InsolationFlux: 1.0, Radius: 1.0}, false},
		{"lower flux bound is exclusive", Row{Disposition: "CONFIRMED", InsolationFlux: 0.36, Radius: 1.0}, false},
		{"upper flux bound is exclusive", Row{Disposition: "CONFIRMED", InsolationFlux: 1.11, Radius: 1.0}, false},
		{"radius bound is exclusive", Row{Disposition: "CONFIRMED", InsolationFlux: 1.0, Radius: 1.6}, false},
		{"missing flux", Row{Disposition: "CONFIRMED", InsolationFlux: math.NaN(), Radius: 1.0}, false},
		{"missing radius", Row{Disposition: "CONFIRMED", InsolationFlux: 1.0, Radius: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHabitable(tt.row))
		})
	}
}

func TestLoaderLoad(t *testing.T) {
	repo := NewMemoryRepository()
	loader := NewLoader(&stringSource{data: sampleDataset}, repo, testLogger())

	stats, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, LoadStats{Rows: 8, Habitable: 4, Inserted: 4}, stats)

	planets, err := repo.ListPlanets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Planet{
		{KeplerName: "Kepler-1652 b"},
		{KeplerName: "Kepler-186 f"},
		{KeplerName: "Kepler-296 A f"},
		{KeplerName: "Kepler-62 f"},
	}, planets)
}

func TestLoaderIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	source := &stringSource{data: sampleDataset}
	loader := NewLoader(source, repo, testLogger())

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, source.opens)
	assert.Equal(t, first.Habitable, second.Habitable)
	assert.Equal(t, 0, second.Inserted)

	planets, err := repo.ListPlanets(context.Background())
	require.NoError(t, err)
	assert.Len(t, planets, first.Habitable)
}

func TestLoaderSkipsBadRows(t *testing.T) {
	data := `kepler_name,koi_disposition,koi_insol,koi_prad
Kepler-62 f,CONFIRMED,0.41,1.41
Kepler-x,CONFIRMED,not-a-number,1.0
Kepler-short,CONFIRMED
Kepler-bad "quote,CONFIRMED,0.5,1.0
Kepler-186 f,CONFIRMED,0.37,1.17
`
	repo := NewMemoryRepository()
	stats, err := NewLoader(&stringSource{data: data}, repo, testLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Habitable)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 3, stats.Failed)
}

func TestLoaderDoesNotCountUnnamedRows(t *testing.T) {
	data := `kepler_name,koi_disposition,koi_insol,koi_prad
,CONFIRMED,0.41,1.41
Kepler-186 f,CONFIRMED,0.37,1.17
`
	repo := NewMemoryRepository()
	stats, err := NewLoader(&stringSource{data: data}, repo, testLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, LoadStats{Rows: 2, Habitable: 1, Inserted: 1, Failed: 1}, stats)

	planets, err := repo.ListPlanets(context.Background())
	require.NoError(t, err)
	assert.Len(t, planets, stats.Habitable)
}

func TestLoaderContinuesAfterStorageError(t *testing.T) {
	repo := &failingRepository{MemoryRepository: NewMemoryRepository(), failFor: "Kepler-186 f"}

	stats, err := NewLoader(&stringSource{data: sampleDataset}, repo, testLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Habitable)
	assert.Equal(t, 3, stats.Inserted)
	assert.Equal(t, 1, stats.Failed)
}

func TestLoaderFailsWhenSourceCannotOpen(t *testing.T) {
	loader := NewLoader(&stringSource{err: errors.New("no such file")}, NewMemoryRepository(), testLogger())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}

func TestLoaderFailsOnMissingColumns(t *testing.T) {
	loader := NewLoader(&stringSource{data: "kepler_name,koi_prad\nKepler-62 f,1.41\n"}, NewMemoryRepository(), testLogger())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "koi_disposition")
	assert.Contains(t, err.Error(), "koi_insol")
}

func TestLoaderFailsOnEmptyDataset(t *testing.T) {
	loader := NewLoader(&stringSource{data: "# only comments\n"}, NewMemoryRepository(), testLogger())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestLoaderStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(&stringSource{data: sampleDataset}, NewMemoryRepository(), testLogger()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
