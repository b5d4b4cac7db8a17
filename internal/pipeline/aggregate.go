package pipeline

import (
	"math"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

const minContentLength = 10

// Filter applies the batch-level quality gate: only reviews with a rating in
// [1,5] and content longer than 10 characters survive. Invalid records are
// dropped rather than aborting the batch.
func Filter(reviews []domain.CanonicalReview) []domain.CanonicalReview {
	kept := make([]domain.CanonicalReview, 0, len(reviews))
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		if len(r.Content) <= minContentLength {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Aggregate computes the average rating and star histogram over a review set.
// An empty set yields 0 and a zero-filled breakdown. Records whose rounded
// rating falls outside 1..5 are skipped in the histogram, not counted.
func Aggregate(reviews []domain.CanonicalReview) (float64, domain.RatingBreakdown) {
	breakdown := domain.NewRatingBreakdown()
	if len(reviews) == 0 {
		return 0, breakdown
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		star := int(math.Round(float64(r.Rating)))
		if star >= 1 && star <= 5 {
			breakdown[star]++
		}
	}

	return float64(sum) / float64(len(reviews)), breakdown
}
