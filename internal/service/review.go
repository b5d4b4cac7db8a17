package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/utafrali/ReviewsGo/internal/cache"
	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/internal/event"
	"github.com/utafrali/ReviewsGo/internal/fetch"
	"github.com/utafrali/ReviewsGo/internal/pipeline"
	"github.com/utafrali/ReviewsGo/internal/repository"
	apperrors "github.com/utafrali/ReviewsGo/pkg/errors"
	"github.com/utafrali/ReviewsGo/pkg/slug"
)

// ReviewService orchestrates the import pipeline: sanitize and normalize raw
// payloads, persist the resulting batch, publish the import event, and serve
// merged retrieval results.
type ReviewService struct {
	repo      repository.BatchRepository
	processor *pipeline.Processor
	fetchers  *fetch.Registry
	cache     *cache.ResultCache
	events    *event.Producer
	logger    *slog.Logger
	now       func() time.Time
}

func NewReviewService(
	repo repository.BatchRepository,
	processor *pipeline.Processor,
	fetchers *fetch.Registry,
	resultCache *cache.ResultCache,
	events *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:      repo,
		processor: processor,
		fetchers:  fetchers,
		cache:     resultCache,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// ImportReviews runs raw platform reviews through the pipeline and stores the
// resulting batch, replacing any prior batch for the same product and source.
// Event publishing and cache invalidation are best effort; only persistence
// failures fail the import.
func (s *ReviewService) ImportReviews(ctx context.Context, productHandle string, source domain.Source, sourceURL string, raw []domain.RawReview) (*domain.ReviewBatch, error) {
	handle := slug.Generate(productHandle)
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}
	if !source.Valid() {
		return nil, apperrors.UnsupportedSource(source.String())
	}

	reviews := s.processor.Process(raw, source, sourceURL)
	batch := pipeline.BuildBatch(handle, source, reviews, s.now().UTC())

	if err := s.repo.Upsert(ctx, batch); err != nil {
		importsTotal.WithLabelValues(source.String(), "error").Inc()
		return nil, apperrors.Wrap(err, "store review batch")
	}

	importsTotal.WithLabelValues(source.String(), "success").Inc()
	reviewsAcceptedTotal.WithLabelValues(source.String()).Add(float64(len(reviews)))
	reviewsFilteredTotal.WithLabelValues(source.String()).Add(float64(len(raw) - len(reviews)))

	if s.events != nil {
		if err := s.events.PublishBatchImported(ctx, batch); err != nil {
			s.logger.WarnContext(ctx, "failed to publish batch imported event",
				slog.String("product_handle", handle),
				slog.String("source", source.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	s.cache.Invalidate(ctx, handle)

	s.logger.InfoContext(ctx, "review batch imported",
		slog.String("product_handle", handle),
		slog.String("source", source.String()),
		slog.Int("received", len(raw)),
		slog.Int("stored", batch.TotalReviews),
	)
	return batch, nil
}

// GetReviews returns the stored reviews for a product. With a nil source the
// batches of all sources are merged into a single result with recomputed
// aggregates. A product with no stored reviews yields the zero state, not an
// error; so does a storage failure, since the retrieval path backs a
// storefront widget that must degrade gracefully.
func (s *ReviewService) GetReviews(ctx context.Context, productHandle string, source *domain.Source) (*domain.ReviewBatch, error) {
	handle := slug.Generate(productHandle)
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}
	if source != nil && !source.Valid() {
		return nil, apperrors.UnsupportedSource(source.String())
	}

	if batch, ok := s.cache.Get(ctx, handle, source); ok {
		return batch, nil
	}

	batches, err := s.repo.ListByProduct(ctx, handle, source)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load review batches, serving zero state",
			slog.String("product_handle", handle),
			slog.String("error", err.Error()),
		)
		return emptyBatch(handle, source), nil
	}

	merged := mergeBatches(handle, source, batches)
	s.cache.Set(ctx, handle, source, merged)
	return merged, nil
}

// SyncFromPlatform pulls reviews for a product directly from an external
// review platform and imports them. Fetch failures resolve to an empty batch,
// so a broken platform API clears stale data rather than erroring.
func (s *ReviewService) SyncFromPlatform(ctx context.Context, productHandle string, source domain.Source) (*domain.ReviewBatch, error) {
	handle := slug.Generate(productHandle)
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}
	if _, ok := s.fetchers.Get(source); !ok {
		return nil, apperrors.UnsupportedSource(source.String())
	}

	raw := s.fetchers.FetchSafe(ctx, source, handle)
	return s.ImportReviews(ctx, handle, source, "", raw)
}

func emptyBatch(productHandle string, source *domain.Source) *domain.ReviewBatch {
	src := domain.SourceGeneric
	if source != nil {
		src = *source
	}
	return &domain.ReviewBatch{
		ProductHandle:   productHandle,
		Source:          src,
		Reviews:         []domain.CanonicalReview{},
		TotalReviews:    0,
		AverageRating:   0,
		RatingBreakdown: domain.NewRatingBreakdown(),
	}
}

// mergeBatches unions the reviews of all stored batches for a product into a
// single result, newest first, with aggregates recomputed over the union.
func mergeBatches(productHandle string, source *domain.Source, batches []domain.ReviewBatch) *domain.ReviewBatch {
	if len(batches) == 0 {
		return emptyBatch(productHandle, source)
	}

	var (
		reviews    []domain.CanonicalReview
		importDate time.Time
	)
	for _, b := range batches {
		reviews = append(reviews, b.Reviews...)
		if b.ImportDate.After(importDate) {
			importDate = b.ImportDate
		}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Date.After(reviews[j].Date)
	})

	avg, breakdown := pipeline.Aggregate(reviews)

	src := domain.SourceGeneric
	if source != nil {
		src = *source
	} else if len(batches) == 1 {
		src = batches[0].Source
	}

	return &domain.ReviewBatch{
		ProductHandle:   productHandle,
		Source:          src,
		ImportDate:      importDate,
		Reviews:         reviews,
		TotalReviews:    len(reviews),
		AverageRating:   avg,
		RatingBreakdown: breakdown,
	}
}
