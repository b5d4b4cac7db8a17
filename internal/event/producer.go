package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/ReviewsGo/internal/domain"
	pkgkafka "github.com/utafrali/ReviewsGo/pkg/kafka"
	"github.com/utafrali/ReviewsGo/pkg/logger"
)

// Kafka topic constants for review domain events.
const (
	TopicBatchImported = "reviews.batch.imported"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from this service.
const SourceReviewsService = "reviews-service"

// BatchImportedData is the payload for a batch.imported event.
type BatchImportedData struct {
	ProductHandle string    `json:"product_handle"`
	Source        string    `json:"source"`
	ImportDate    time.Time `json:"import_date"`
	TotalReviews  int       `json:"total_reviews"`
	AverageRating float64   `json:"average_rating"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishBatchImported publishes a batch.imported event for a stored batch.
func (p *Producer) PublishBatchImported(ctx context.Context, batch *domain.ReviewBatch) error {
	data := BatchImportedData{
		ProductHandle: batch.ProductHandle,
		Source:        batch.Source.String(),
		ImportDate:    batch.ImportDate,
		TotalReviews:  batch.TotalReviews,
		AverageRating: batch.AverageRating,
	}

	event, err := pkgkafka.NewEvent(TopicBatchImported, batch.ProductHandle, AggregateTypeProduct, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create batch.imported event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicBatchImported, event); err != nil {
		return fmt.Errorf("publish batch.imported: %w", err)
	}

	p.logger.DebugContext(ctx, "batch.imported event published",
		slog.String("product_handle", batch.ProductHandle),
		slog.String("source", batch.Source.String()),
		slog.Int("total_reviews", batch.TotalReviews),
	)
	return nil
}
