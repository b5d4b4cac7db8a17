package repository

import (
	"context"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// BatchRepository defines persistence for review batches. The pipeline only
// constructs and hands off batches; durability lives behind this interface.
type BatchRepository interface {
	// Upsert stores a batch keyed by (product handle, source). A second
	// import with the same key fully replaces the prior batch.
	Upsert(ctx context.Context, batch *domain.ReviewBatch) error

	// ListByProduct returns all batches for a product, optionally filtered
	// to one source. Zero matching batches is not an error.
	ListByProduct(ctx context.Context, productHandle string, source *domain.Source) ([]domain.ReviewBatch, error)
}
