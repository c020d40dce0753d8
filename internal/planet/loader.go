package planet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"mission-control/internal/metrics"
)

// Dataset column names.
const (
	ColumnDisposition    = "koi_disposition"
	ColumnInsolationFlux = "koi_insol"
	ColumnRadius         = "koi_prad"
	ColumnName           = "kepler_name"
)

const (
	confirmedDisposition = "CONFIRMED"
	minInsolationFlux    = 0.36
	maxInsolationFlux    = 1.11
	maxPlanetaryRadius   = 1.6
)

// Source opens the dataset stream. Every call starts from the beginning.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsHabitable reports whether a row is a confirmed planet with Earth-like
// insolation and radius. Bounds are exclusive.
func IsHabitable(row Row) bool {
	return row.Disposition == confirmedDisposition &&
		row.InsolationFlux > minInsolationFlux &&
		row.InsolationFlux < maxInsolationFlux &&
		row.Radius < maxPlanetaryRadius
}

type Loader struct {
	source Source
	repo   Repository
	logger *slog.Logger
}

func NewLoader(source Source, repo Repository, logger *slog.Logger) *Loader {
	return &Loader{
		source: source,
		repo:   repo,
		logger: logger,
	}
}

// Load streams the dataset and upserts every habitable row. Bad rows and
// per-row storage failures are logged and skipped; failing to open or read
// the stream aborts the load.
func (l *Loader) Load(ctx context.Context) (LoadStats, error) {
	logger := l.logger.With("component", "planet_loader", "operation", "load")
	logger.Info("Loading planets data")

	var stats LoadStats

	stream, err := l.source.Open(ctx)
	if err != nil {
		logger.Error("Failed to open planets dataset", "error", err)
		return stats, fmt.Errorf("failed to open planets dataset: %w", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Warn("Failed to close planets dataset", "error", err)
		}
	}()

	reader := csv.NewReader(stream)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		logger.Error("Failed to read dataset header", "error", err)
		return stats, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		logger.Error("Dataset header is missing columns", "error", err)
		return stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Failed++
				metrics.CatalogRowsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
				logger.Warn("Skipping malformed dataset row", "line", parseErr.Line, "error", err)
				continue
			}
			logger.Error("Failed to read planets dataset", "error", err)
			return stats, fmt.Errorf("failed to read planets dataset: %w", err)
		}

		stats.Rows++
		line, _ := reader.FieldPos(0)

		row, err := columns.parse(record)
		if err != nil {
			stats.Failed++
			metrics.CatalogRowsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			logger.Warn("Skipping unparseable dataset row", "line", line, "error", err)
			continue
		}

		if !IsHabitable(row) {
			metrics.CatalogRowsTotal.WithLabelValues(metrics.OutcomeDiscarded).Inc()
			continue
		}

		if row.Name == "" {
			stats.Failed++
			metrics.CatalogRowsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			logger.Warn("Skipping habitable row without a name", "line", line)
			continue
		}

		stats.Habitable++
		metrics.CatalogRowsTotal.WithLabelValues(metrics.OutcomeHabitable).Inc()

		inserted, err := l.repo.UpsertPlanet(ctx, Planet{KeplerName: row.Name})
		if err != nil {
			stats.Failed++
			logger.Error("Could not save planet", "kepler_name", row.Name, "error", err)
			continue
		}
		if inserted {
			stats.Inserted++
		}
	}

	metrics.HabitablePlanets.Set(float64(stats.Habitable))
	logger.Info("Habitable planets found",
		"count", stats.Habitable,
		"rows", stats.Rows,
		"inserted", stats.Inserted,
		"failed", stats.Failed,
	)

	return stats, nil
}

type columnIndex struct {
	disposition int
	insolation  int
	radius      int
	name        int
}

func indexColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		disposition: lookup(ColumnDisposition),
		insolation:  lookup(ColumnInsolationFlux),
		radius:      lookup(ColumnRadius),
		name:        lookup(ColumnName),
	}

	if len(missing) > 0 {
		return idx, fmt.Errorf("dataset header is missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) parse(record []string) (Row, error) {
	field := func(i int) (string, error) {
		if i >= len(record) {
			return "", fmt.Errorf("row has %d fields, need at least %d", len(record), i+1)
		}
		return strings.TrimSpace(record[i]), nil
	}

	var row Row
	var err error

	if row.Disposition, err = field(c.disposition); err != nil {
		return row, err
	}
	if row.Name, err = field(c.name); err != nil {
		return row, err
	}

	insol, err := field(c.insolation)
	if err != nil {
		return row, err
	}
	if row.InsolationFlux, err = parseMeasurement(ColumnInsolationFlux, insol); err != nil {
		return row, err
	}

	radius, err := field(c.radius)
	if err != nil {
		return row, err
	}
	if row.Radius, err = parseMeasurement(ColumnRadius, radius); err != nil {
		return row, err
	}

	return row, nil
}

// parseMeasurement maps an empty cell to NaN, which fails every comparison
// in IsHabitable.
func parseMeasurement(column, value string) (float64, error) {
	if value == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", column, value, err)
	}
	return v, nil
}
