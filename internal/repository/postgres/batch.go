package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/pkg/database"
)

// BatchRepository implements review batch persistence using PostgreSQL.
// Reviews are stored as a jsonb document per batch; the batch row carries the
// precomputed aggregates for the single-source case, while cross-source
// aggregates are always recomputed at retrieval time by the service layer.
type BatchRepository struct {
	pool database.DBTX
}

// NewBatchRepository creates a new PostgreSQL-backed batch repository.
func NewBatchRepository(pool database.DBTX) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// Upsert stores a review batch, replacing any prior batch for the same
// (product_handle, source) key.
func (r *BatchRepository) Upsert(ctx context.Context, batch *domain.ReviewBatch) (err error) {
	query := `
		INSERT INTO review_batches (product_handle, source, import_date, reviews, total_reviews, average_rating, rating_breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_handle, source) DO UPDATE SET
			import_date      = EXCLUDED.import_date,
			reviews          = EXCLUDED.reviews,
			total_reviews    = EXCLUDED.total_reviews,
			average_rating   = EXCLUDED.average_rating,
			rating_breakdown = EXCLUDED.rating_breakdown`

	ctx, end := database.TraceQuery(ctx, "UpsertBatch", query)
	defer func() { end(err) }()

	reviewsJSON, err := json.Marshal(batch.Reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}
	breakdownJSON, err := json.Marshal(batch.RatingBreakdown)
	if err != nil {
		return fmt.Errorf("marshal rating breakdown: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		batch.ProductHandle,
		string(batch.Source),
		batch.ImportDate,
		reviewsJSON,
		batch.TotalReviews,
		batch.AverageRating,
		breakdownJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert review batch: %w", err)
	}

	return nil
}

// ListByProduct returns all stored batches for a product, newest import
// first, optionally filtered to one source.
func (r *BatchRepository) ListByProduct(ctx context.Context, productHandle string, source *domain.Source) (batches []domain.ReviewBatch, err error) {
	query := `
		SELECT product_handle, source, import_date, reviews, total_reviews, average_rating, rating_breakdown
		FROM review_batches
		WHERE product_handle = $1`
	args := []any{productHandle}

	if source != nil {
		query += ` AND source = $2`
		args = append(args, string(*source))
	}
	query += ` ORDER BY import_date DESC`

	ctx, end := database.TraceQuery(ctx, "ListBatchesByProduct", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b             domain.ReviewBatch
			src           string
			reviewsJSON   []byte
			breakdownJSON []byte
		)

		if err = rows.Scan(
			&b.ProductHandle,
			&src,
			&b.ImportDate,
			&reviewsJSON,
			&b.TotalReviews,
			&b.AverageRating,
			&breakdownJSON,
		); err != nil {
			return nil, fmt.Errorf("scan review batch row: %w", err)
		}

		b.Source = domain.Source(src)
		if err = json.Unmarshal(reviewsJSON, &b.Reviews); err != nil {
			return nil, fmt.Errorf("unmarshal reviews for %s/%s: %w", b.ProductHandle, src, err)
		}
		if err = json.Unmarshal(breakdownJSON, &b.RatingBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal rating breakdown for %s/%s: %w", b.ProductHandle, src, err)
		}

		batches = append(batches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review batch rows: %w", err)
	}

	return batches, nil
}
