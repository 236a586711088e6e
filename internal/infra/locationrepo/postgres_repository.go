package locationrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

// PostgresRepository implements hours.LocationRepository using pgx.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger.With("component", "locationrepo.postgres")}
}

type locationRow struct {
	slug     string
	name     string
	timezone string
}

// List returns every location with valid stored hours, ordered by slug. Locations whose hours fail
// validation are logged and left out; FindBySlug still reports them as unavailable.
func (r *PostgresRepository) List(ctx context.Context) ([]hours.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slug, name, timezone
		FROM locations
		ORDER BY slug
	`)
	if err != nil {
		return nil, err
	}
	heads, err := pgx.CollectRows(rows, scanLocationRow)
	if err != nil {
		return nil, err
	}

	byLocation, err := r.loadHours(ctx, "")
	if err != nil {
		return nil, err
	}
	return assembleLocations(heads, byLocation, r.logger), nil
}

// FindBySlug loads one location and validates its stored hours.
func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (hours.Location, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slug, name, timezone
		FROM locations
		WHERE slug = $1
		LIMIT 1
	`, slug)
	if err != nil {
		return hours.Location{}, false, err
	}
	head, err := pgx.CollectOneRow(rows, scanLocationRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hours.Location{}, false, nil
		}
		return hours.Location{}, false, err
	}

	byLocation, err := r.loadHours(ctx, slug)
	if err != nil {
		return hours.Location{}, false, err
	}
	loc, err := buildLocation(head, byLocation[head.slug])
	if err != nil {
		return hours.Location{}, false, err
	}
	return loc, true, nil
}

// Save replaces a location and its hours in one transaction. Hours are validated before writing.
func (r *PostgresRepository) Save(ctx context.Context, slug, name, timezone string, entries []hours.DayHours) error {
	if _, err := hours.NewSchedule(entries); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO locations (slug, name, timezone)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, timezone = EXCLUDED.timezone
		`, slug, name, timezone); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM location_hours WHERE location_slug = $1`, slug); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for i, entry := range entries {
			batch.Queue(`
				INSERT INTO location_hours (location_slug, position, day, open_time, close_time, closed)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, slug, i, entry.Day, entry.Open, entry.Close, entry.Closed)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// loadHours returns raw entries grouped by location; an empty slug loads every location.
func (r *PostgresRepository) loadHours(ctx context.Context, slug string) (map[string][]hours.DayHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT location_slug, day, open_time, close_time, closed
		FROM location_hours
		WHERE $1 = '' OR location_slug = $1
		ORDER BY location_slug, position
	`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]hours.DayHours)
	for rows.Next() {
		var (
			owner string
			entry hours.DayHours
		)
		if err := rows.Scan(&owner, &entry.Day, &entry.Open, &entry.Close, &entry.Closed); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], entry)
	}
	return out, rows.Err()
}

func scanLocationRow(row pgx.CollectableRow) (locationRow, error) {
	var rec locationRow
	err := row.Scan(&rec.slug, &rec.name, &rec.timezone)
	return rec, err
}

func assembleLocations(heads []locationRow, byLocation map[string][]hours.DayHours, logger *slog.Logger) []hours.Location {
	out := make([]hours.Location, 0, len(heads))
	for _, head := range heads {
		loc, err := buildLocation(head, byLocation[head.slug])
		if err != nil {
			logger.Warn("skipping location with invalid stored hours", "slug", head.slug, "error", err)
			continue
		}
		out = append(out, loc)
	}
	return out
}

func buildLocation(head locationRow, entries []hours.DayHours) (hours.Location, error) {
	schedule, err := hours.NewSchedule(entries)
	if err != nil {
		return hours.Location{}, fmt.Errorf("location %q: %w: %w", head.slug, hours.ErrScheduleUnavailable, err)
	}
	return hours.Location{
		Slug:     head.slug,
		Name:     head.name,
		Timezone: head.timezone,
		Schedule: schedule,
	}, nil
}

var _ hours.LocationRepository = (*PostgresRepository)(nil)
