//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// Run with: ROUTEMAP_TEST_DSN=postgres://... go test -tags integration ./internal/adapters/postgres/
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("ROUTEMAP_TEST_DSN")
	if dsn == "" {
		t.Skip("ROUTEMAP_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := New(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)
	if _, err := db.MigrateUp(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLookupRepo_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewLookupRepo(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	l := &domain.Lookup{
		ID:              uuid.NewString(),
		SessionID:       "it-" + uuid.NewString(),
		StartQuery:      "Hauptplatz 1, 8010 Graz, Steiermark, Austria",
		EndQuery:        "Nowhere 9, 0000 X, Steiermark, Austria",
		Start:           &domain.Coordinate{Lon: 15.4395, Lat: 47.0707},
		State:           "failed",
		Failure:         "address_not_found",
		Message:         "address not found",
		CreatedAt:       now,
		CompletedAt:     now,
		DistanceMeters:  0,
		DurationSeconds: 0,
	}
	if err := repo.Insert(ctx, l); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, l); err != nil {
		t.Fatalf("duplicate insert must be a no-op: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Start == nil || got.Start.Lat != 47.0707 || got.End != nil {
		t.Errorf("unexpected coordinates: %+v / %+v", got.Start, got.End)
	}
	if got.Failure != "address_not_found" || !got.CreatedAt.Equal(now) {
		t.Errorf("unexpected lookup: %+v", got)
	}

	items, total, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total < 1 || len(items) == 0 {
		t.Errorf("expected at least one lookup, got %d/%d", len(items), total)
	}
}

func TestLookupRepo_NotFound(t *testing.T) {
	repo := NewLookupRepo(testDB(t))
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrLookupNotFound) {
		t.Errorf("expected ErrLookupNotFound, got %v", err)
	}
}
