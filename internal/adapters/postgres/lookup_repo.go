package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// LookupRepo implements ports.LookupRepository with pgx.
type LookupRepo struct {
	db *DB
}

// NewLookupRepo creates a new LookupRepo.
func NewLookupRepo(db *DB) *LookupRepo {
	return &LookupRepo{db: db}
}

const lookupColumns = `
	id, session_id, start_query, end_query,
	start_lon, start_lat, end_lon, end_lat,
	state, failure, message, distance_m, duration_s, geometry,
	created_at, completed_at`

// Insert stores a finished lookup. Re-inserting the same id is a no-op.
func (r *LookupRepo) Insert(ctx context.Context, l *domain.Lookup) error {
	startLon, startLat := coordArgs(l.Start)
	endLon, endLat := coordArgs(l.End)
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO route_lookups (`+lookupColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`, l.ID, l.SessionID, l.StartQuery, l.EndQuery,
		startLon, startLat, endLon, endLat,
		l.State, l.Failure, l.Message, l.DistanceMeters, l.DurationSeconds, l.Geometry,
		l.CreatedAt, l.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert lookup %s: %w", l.ID, err)
	}
	return nil
}

// GetByID returns a lookup or domain.ErrLookupNotFound.
func (r *LookupRepo) GetByID(ctx context.Context, id string) (*domain.Lookup, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+lookupColumns+` FROM route_lookups WHERE id = $1`, id)
	l, err := scanLookup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLookupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lookup %s: %w", id, err)
	}
	return l, nil
}

// List returns a page of lookups, newest first, and the total count.
func (r *LookupRepo) List(ctx context.Context, offset, limit int) ([]domain.Lookup, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM route_lookups`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lookups: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+lookupColumns+`
		FROM route_lookups
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	lookups := make([]domain.Lookup, 0, limit)
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, 0, err
		}
		lookups = append(lookups, *l)
	}
	return lookups, total, rows.Err()
}

func scanLookup(row pgx.Row) (*domain.Lookup, error) {
	var l domain.Lookup
	var startLon, startLat, endLon, endLat *float64
	err := row.Scan(
		&l.ID, &l.SessionID, &l.StartQuery, &l.EndQuery,
		&startLon, &startLat, &endLon, &endLat,
		&l.State, &l.Failure, &l.Message, &l.DistanceMeters, &l.DurationSeconds, &l.Geometry,
		&l.CreatedAt, &l.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Start = coordFromColumns(startLon, startLat)
	l.End = coordFromColumns(endLon, endLat)
	return &l, nil
}

// coordArgs maps an optional coordinate to nullable columns.
func coordArgs(c *domain.Coordinate) (lon, lat *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Lon, &c.Lat
}

func coordFromColumns(lon, lat *float64) *domain.Coordinate {
	if lon == nil || lat == nil {
		return nil
	}
	return &domain.Coordinate{Lon: *lon, Lat: *lat}
}
