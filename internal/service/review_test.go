package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewsGo/internal/cache"
	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/internal/fetch"
	"github.com/utafrali/ReviewsGo/internal/pipeline"
	apperrors "github.com/utafrali/ReviewsGo/pkg/errors"
	"github.com/utafrali/ReviewsGo/pkg/httpclient"
)

type mockBatchRepository struct {
	mock.Mock
}

func (m *mockBatchRepository) Upsert(ctx context.Context, batch *domain.ReviewBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *mockBatchRepository) ListByProduct(ctx context.Context, productHandle string, source *domain.Source) ([]domain.ReviewBatch, error) {
	args := m.Called(ctx, productHandle, source)
	if batches, ok := args.Get(0).([]domain.ReviewBatch); ok {
		return batches, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(t *testing.T, repo *mockBatchRepository) *ReviewService {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	processor := pipeline.NewProcessor(logger)
	fetchers := fetch.NewRegistry(fetch.Config{}, httpclient.DefaultConfig(), logger)
	resultCache := cache.NewResultCache(nil, time.Minute, logger)
	return NewReviewService(repo, processor, fetchers, resultCache, nil, logger)
}

func TestImportReviews(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	var stored *domain.ReviewBatch
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ReviewBatch")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.ReviewBatch)
		}).
		Return(nil)

	raw := []domain.RawReview{
		{"id": "1", "author": "Jane Doe", "rating": 5, "content": "excellent product, highly recommend"},
		{"id": "2", "rating": 5, "content": "ok"},
	}

	batch, err := svc.ImportReviews(context.Background(), "Foam Roller", domain.SourceJudgeMe, "", raw)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "foam-roller", batch.ProductHandle)
	assert.Equal(t, domain.SourceJudgeMe, batch.Source)
	assert.Equal(t, 1, batch.TotalReviews)
	assert.Equal(t, "Jane D.", batch.Reviews[0].Author)
	assert.Same(t, stored, batch)
	repo.AssertExpectations(t)
}

func TestImportReviews_StoreFailure(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := svc.ImportReviews(context.Background(), "foam-roller", domain.SourceAmazon, "", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store review batch")
}

func TestImportReviews_InvalidInput(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	t.Run("empty handle", func(t *testing.T) {
		_, err := svc.ImportReviews(context.Background(), "  ", domain.SourceAmazon, "", nil)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := svc.ImportReviews(context.Background(), "foam-roller", domain.Source("bogus"), "", nil)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupported))
	})

	repo.AssertNotCalled(t, "Upsert")
}

func TestGetReviews_MergesAcrossSources(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.On("ListByProduct", mock.Anything, "foam-roller", (*domain.Source)(nil)).Return([]domain.ReviewBatch{
		{
			ProductHandle: "foam-roller",
			Source:        domain.SourceAmazon,
			ImportDate:    older,
			Reviews: []domain.CanonicalReview{
				{ID: "amazon-1", Rating: 5, Date: older},
			},
		},
		{
			ProductHandle: "foam-roller",
			Source:        domain.SourceLoox,
			ImportDate:    newer,
			Reviews: []domain.CanonicalReview{
				{ID: "loox-1", Rating: 3, Date: newer},
				{ID: "loox-2", Rating: 4, Date: older.AddDate(0, 1, 0)},
			},
		},
	}, nil)

	batch, err := svc.GetReviews(context.Background(), "foam-roller", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, batch.TotalReviews)
	assert.Equal(t, "loox-1", batch.Reviews[0].ID)
	assert.Equal(t, "loox-2", batch.Reviews[1].ID)
	assert.Equal(t, "amazon-1", batch.Reviews[2].ID)
	assert.InDelta(t, 4.0, batch.AverageRating, 0.0001)
	assert.Equal(t, newer, batch.ImportDate)
	assert.Equal(t, 1, batch.RatingBreakdown[5])
	assert.Equal(t, 1, batch.RatingBreakdown[4])
	assert.Equal(t, 1, batch.RatingBreakdown[3])
}

func TestGetReviews_SourceFilter(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	source := domain.SourceYotpo
	repo.On("ListByProduct", mock.Anything, "foam-roller", &source).Return([]domain.ReviewBatch{
		{
			ProductHandle: "foam-roller",
			Source:        domain.SourceYotpo,
			Reviews:       []domain.CanonicalReview{{ID: "yotpo-1", Rating: 4}},
		},
	}, nil)

	batch, err := svc.GetReviews(context.Background(), "foam-roller", &source)

	require.NoError(t, err)
	assert.Equal(t, domain.SourceYotpo, batch.Source)
	assert.Equal(t, 1, batch.TotalReviews)
}

func TestGetReviews_ZeroState(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	repo.On("ListByProduct", mock.Anything, "ghost-product", (*domain.Source)(nil)).Return([]domain.ReviewBatch{}, nil)

	batch, err := svc.GetReviews(context.Background(), "ghost-product", nil)

	require.NoError(t, err)
	assert.Zero(t, batch.TotalReviews)
	assert.Zero(t, batch.AverageRating)
	assert.Empty(t, batch.Reviews)
	assert.Equal(t, domain.NewRatingBreakdown(), batch.RatingBreakdown)
}

func TestGetReviews_StorageFailureDegradesToZeroState(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	repo.On("ListByProduct", mock.Anything, "foam-roller", (*domain.Source)(nil)).
		Return(nil, errors.New("connection refused"))

	batch, err := svc.GetReviews(context.Background(), "foam-roller", nil)

	require.NoError(t, err)
	assert.Zero(t, batch.TotalReviews)
}

func TestSyncFromPlatform_UnsupportedSource(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	_, err := svc.SyncFromPlatform(context.Background(), "foam-roller", domain.SourceAmazon)

	assert.True(t, errors.Is(err, apperrors.ErrUnsupported))
	repo.AssertNotCalled(t, "Upsert")
}

func TestSyncFromPlatform_FetchFailureStoresEmptyBatch(t *testing.T) {
	repo := &mockBatchRepository{}
	svc := newTestService(t, repo)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	// No credentials are configured, so the fetch fails and resolves to an
	// empty list.
	batch, err := svc.SyncFromPlatform(context.Background(), "foam-roller", domain.SourceJudgeMe)

	require.NoError(t, err)
	assert.Zero(t, batch.TotalReviews)
	repo.AssertExpectations(t)
}
