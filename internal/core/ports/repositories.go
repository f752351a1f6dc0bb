package ports

import (
	"context"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// LookupRepository persists finished planning cycles.
type LookupRepository interface {
	Insert(ctx context.Context, lookup *domain.Lookup) error
	GetByID(ctx context.Context, id string) (*domain.Lookup, error)
	List(ctx context.Context, offset, limit int) ([]domain.Lookup, int, error)
}
