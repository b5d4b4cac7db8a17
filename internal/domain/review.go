package domain

import (
	"encoding/json"
	"time"
)

// RawReview is an unprocessed review payload from an external platform. Its
// shape varies per source; the pipeline is responsible for normalizing it.
type RawReview map[string]any

// ReviewImage is a single customer photo attached to a review.
type ReviewImage struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CanonicalReview is the unified review record all sources are normalized
// into. Source-specific extension fields live in Extra and are flattened
// additively into the JSON encoding; canonical fields always win.
type CanonicalReview struct {
	ID         string        `json:"id"`
	Author     string        `json:"author"`
	Rating     int           `json:"rating"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Date       time.Time     `json:"date"`
	Verified   bool          `json:"verified"`
	Helpful    int           `json:"helpful"`
	Images     []ReviewImage `json:"images"`
	Variant    string        `json:"variant"`
	Source     Source        `json:"source"`
	SourceURL  string        `json:"source_url,omitempty"`
	Imported   bool          `json:"imported"`
	OriginalID string        `json:"original_id,omitempty"`

	Extra map[string]any `json:"-"`
}

// canonicalKeys are the JSON keys owned by CanonicalReview itself. Extension
// fields may never shadow them.
var canonicalKeys = []string{
	"id", "author", "rating", "title", "content", "date", "verified",
	"helpful", "images", "variant", "source", "source_url", "imported",
	"original_id",
}

type canonicalReviewAlias CanonicalReview

// MarshalJSON flattens Extra into the top-level object without overwriting
// any canonical field.
func (r CanonicalReview) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(canonicalReviewAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	var m map[string]any
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, exists := m[k]; !exists {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the canonical fields and collects any unknown keys
// back into Extra, so a round trip through storage preserves extension fields.
func (r *CanonicalReview) UnmarshalJSON(data []byte) error {
	var alias canonicalReviewAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, k := range canonicalKeys {
		delete(m, k)
	}
	if len(m) > 0 {
		alias.Extra = m
	}

	*r = CanonicalReview(alias)
	return nil
}

// RatingBreakdown is a histogram of review counts by star value (1-5).
// It always contains all five keys, zero-filled.
type RatingBreakdown map[int]int

// NewRatingBreakdown returns a zero-filled breakdown over stars 1..5.
func NewRatingBreakdown() RatingBreakdown {
	return RatingBreakdown{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// ReviewBatch is one import's full set of canonical reviews plus precomputed
// aggregates, keyed by product handle and source. A re-import for the same
// key fully replaces the prior batch.
type ReviewBatch struct {
	ProductHandle   string            `json:"product_handle"`
	Source          Source            `json:"source"`
	ImportDate      time.Time         `json:"import_date"`
	Reviews         []CanonicalReview `json:"reviews"`
	TotalReviews    int               `json:"total_reviews"`
	AverageRating   float64           `json:"average_rating"`
	RatingBreakdown RatingBreakdown   `json:"rating_breakdown"`
}
