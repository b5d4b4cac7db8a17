package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/pkg/database"
)

func testBatch() *domain.ReviewBatch {
	return &domain.ReviewBatch{
		ProductHandle: "foam-roller",
		Source:        domain.SourceJudgeMe,
		ImportDate:    time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Reviews: []domain.CanonicalReview{
			{ID: "judgeme-abc", Author: "Jane D.", Rating: 5, Content: "excellent product overall"},
		},
		TotalReviews:    1,
		AverageRating:   5,
		RatingBreakdown: domain.RatingBreakdown{1: 0, 2: 0, 3: 0, 4: 0, 5: 1},
	}
}

func TestUpsert(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)
	batch := testBatch()

	reviewsJSON, err := json.Marshal(batch.Reviews)
	require.NoError(t, err)
	breakdownJSON, err := json.Marshal(batch.RatingBreakdown)
	require.NoError(t, err)

	mockPool.ExpectExec("INSERT INTO review_batches").
		WithArgs(
			batch.ProductHandle,
			string(batch.Source),
			batch.ImportDate,
			reviewsJSON,
			batch.TotalReviews,
			batch.AverageRating,
			breakdownJSON,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Upsert(context.Background(), batch)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpsert_ExecError(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)

	mockPool.ExpectExec("INSERT INTO review_batches").
		WillReturnError(errors.New("connection reset"))

	err = repo.Upsert(context.Background(), testBatch())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert review batch")
}

func TestListByProduct(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)
	batch := testBatch()

	reviewsJSON, err := json.Marshal(batch.Reviews)
	require.NoError(t, err)
	breakdownJSON, err := json.Marshal(batch.RatingBreakdown)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"product_handle", "source", "import_date", "reviews",
		"total_reviews", "average_rating", "rating_breakdown",
	}).AddRow(
		batch.ProductHandle, string(batch.Source), batch.ImportDate,
		reviewsJSON, batch.TotalReviews, batch.AverageRating, breakdownJSON,
	)

	mockPool.ExpectQuery("SELECT (.+) FROM review_batches").
		WithArgs("foam-roller").
		WillReturnRows(rows)

	batches, err := repo.ListByProduct(context.Background(), "foam-roller", nil)

	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "foam-roller", batches[0].ProductHandle)
	assert.Equal(t, domain.SourceJudgeMe, batches[0].Source)
	require.Len(t, batches[0].Reviews, 1)
	assert.Equal(t, "judgeme-abc", batches[0].Reviews[0].ID)
	assert.Equal(t, 1, batches[0].RatingBreakdown[5])
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListByProduct_SourceFilter(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)
	source := domain.SourceLoox

	mockPool.ExpectQuery("SELECT (.+) FROM review_batches").
		WithArgs("foam-roller", string(source)).
		WillReturnRows(pgxmock.NewRows([]string{
			"product_handle", "source", "import_date", "reviews",
			"total_reviews", "average_rating", "rating_breakdown",
		}))

	batches, err := repo.ListByProduct(context.Background(), "foam-roller", &source)

	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListByProduct_QueryError(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)

	mockPool.ExpectQuery("SELECT (.+) FROM review_batches").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.ListByProduct(context.Background(), "foam-roller", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list review batches")
}

func TestListByProduct_CorruptReviewsColumn(t *testing.T) {
	mockPool, err := database.NewMockPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewBatchRepository(mockPool)

	rows := pgxmock.NewRows([]string{
		"product_handle", "source", "import_date", "reviews",
		"total_reviews", "average_rating", "rating_breakdown",
	}).AddRow(
		"foam-roller", "loox", time.Now(), []byte("{not json"),
		0, 0.0, []byte("{}"),
	)

	mockPool.ExpectQuery("SELECT (.+) FROM review_batches").
		WithArgs("foam-roller").
		WillReturnRows(rows)

	_, err = repo.ListByProduct(context.Background(), "foam-roller", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal reviews")
}
