package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one versioned schema change.
type Migration struct {
	Version string // e.g. "001_route_lookups"
	Up      string
	Down    string
}

// Migrations returns the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	entries, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	out := make([]Migration, 0, len(entries))
	for _, up := range entries {
		version := strings.TrimSuffix(strings.TrimPrefix(up, "migrations/"), ".up.sql")
		upSQL, err := migrationFS.ReadFile(up)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", up, err)
		}
		downSQL, err := migrationFS.ReadFile("migrations/" + version + ".down.sql")
		if err != nil {
			return nil, fmt.Errorf("read down for %s: %w", version, err)
		}
		out = append(out, Migration{Version: version, Up: string(upSQL), Down: string(downSQL)})
	}
	return out, nil
}

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// MigrateUp applies every pending migration, each in its own transaction,
// and returns the versions applied.
func (db *DB) MigrateUp(ctx context.Context) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}
	if _, err := db.Pool.Exec(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Up); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			return done, fmt.Errorf("apply %s: %w", m.Version, err)
		}
		done = append(done, m.Version)
	}
	return done, nil
}

// MigrateDown reverts the most recently applied migration. It returns an
// empty version when nothing is applied.
func (db *DB) MigrateDown(ctx context.Context) (string, error) {
	migrations, err := Migrations()
	if err != nil {
		return "", err
	}
	if _, err := db.Pool.Exec(ctx, migrationsTable); err != nil {
		return "", fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return "", err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !applied[m.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Down); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.Version)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("revert %s: %w", m.Version, err)
		}
		return m.Version, nil
	}
	return "", nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.Pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}
