package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// Processor turns raw platform payloads into validated canonical reviews.
// It holds no state between calls; the injected clock exists so relative
// dates ("3 days ago") are exactly testable.
type Processor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor creates a review processor.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock returns a copy of the processor using the given clock.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	cpy := *p
	cpy.now = now
	return &cpy
}

// reviewID derives a deterministic identifier from the source, the
// platform-native id, and the content. A content hash avoids the collisions a
// timestamp-based id would suffer under concurrent imports, and makes
// re-imports idempotent.
func reviewID(source domain.Source, originalID, content string) string {
	h := sha256.Sum256([]byte(string(source) + "|" + originalID + "|" + content))
	return string(source) + "-" + hex.EncodeToString(h[:])[:16]
}

// Process sanitizes, normalizes, and validates one import's raw reviews.
// Each record is handled independently; a malformed record degrades to
// defaults or is dropped by the filter, never aborting the batch.
func (p *Processor) Process(raw []domain.RawReview, source domain.Source, sourceURL string) []domain.CanonicalReview {
	now := p.now().UTC()

	candidates := make([]domain.CanonicalReview, 0, len(raw))
	for _, rr := range raw {
		if rr == nil {
			continue
		}
		candidates = append(candidates, p.processOne(rr, source, sourceURL, now))
	}

	kept := Filter(candidates)
	if dropped := len(candidates) - len(kept); dropped > 0 {
		p.logger.Debug("reviews dropped by quality filter",
			slog.String("source", source.String()),
			slog.Int("dropped", dropped),
			slog.Int("kept", len(kept)),
		)
	}

	deduped := dedupeByID(kept)
	if dupes := len(kept) - len(deduped); dupes > 0 {
		p.logger.Debug("duplicate reviews dropped",
			slog.String("source", source.String()),
			slog.Int("duplicates", dupes),
		)
	}
	return deduped
}

// dedupeByID drops repeated reviews, keeping the first occurrence. Two records
// without a platform id and with identical content hash to the same id, so
// this also collapses literal duplicates in one payload.
func dedupeByID(reviews []domain.CanonicalReview) []domain.CanonicalReview {
	seen := make(map[string]struct{}, len(reviews))
	out := reviews[:0]
	for _, rv := range reviews {
		if _, ok := seen[rv.ID]; ok {
			continue
		}
		seen[rv.ID] = struct{}{}
		out = append(out, rv)
	}
	return out
}

func (p *Processor) processOne(raw domain.RawReview, source domain.Source, sourceURL string, now time.Time) domain.CanonicalReview {
	originalID := stringField(raw, "id", "review_id", "reviewId")
	content := SanitizeText(stringField(raw, "content", "body", "review", "text", "comment"))

	review := domain.CanonicalReview{
		ID:         reviewID(source, originalID, content),
		Author:     SanitizeAuthorName(stringField(raw, "author", "reviewer", "reviewer_name", "customer_name", "name")),
		Rating:     NormalizeRating(anyField(raw, "rating", "star_rating", "stars", "score"), source),
		Title:      SanitizeText(stringField(raw, "title", "review_title", "headline")),
		Content:    content,
		Date:       NormalizeDate(stringField(raw, "date", "review_date", "created_at", "timestamp"), now),
		Verified:   VerificationStatus(raw, source),
		Helpful:    NormalizeHelpfulCount(anyField(raw, "helpful", "helpful_count", "helpful_votes", "votes")),
		Images:     ProcessImages(anyField(raw, "images", "photos", "pictures")),
		Variant:    ExtractVariant(raw),
		Source:     source,
		SourceURL:  sourceURL,
		Imported:   true,
		OriginalID: originalID,
	}

	ApplyAdapter(&review, raw)
	return review
}

// BuildBatch assembles a ReviewBatch with freshly computed aggregates.
func BuildBatch(productHandle string, source domain.Source, reviews []domain.CanonicalReview, importDate time.Time) *domain.ReviewBatch {
	avg, breakdown := Aggregate(reviews)
	return &domain.ReviewBatch{
		ProductHandle:   productHandle,
		Source:          source,
		ImportDate:      importDate,
		Reviews:         reviews,
		TotalReviews:    len(reviews),
		AverageRating:   avg,
		RatingBreakdown: breakdown,
	}
}
