package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// LooxFetcher pulls reviews from the Loox widget API.
type LooxFetcher struct {
	cfg    Config
	client doer
}

func NewLooxFetcher(cfg Config, client doer) *LooxFetcher {
	return &LooxFetcher{cfg: cfg, client: client}
}

func (f *LooxFetcher) Source() domain.Source { return domain.SourceLoox }

type looxReview struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Verified  bool   `json:"verified_purchase"`
	ImageURL  string `json:"image_url"`
	ThumbURL  string `json:"thumbnail_url"`
}

func (f *LooxFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.LooxAPIKey == "" {
		return nil, fmt.Errorf("loox api key not configured")
	}

	q := url.Values{}
	q.Set("handle", productHandle)
	q.Set("limit", "100")
	endpoint := fmt.Sprintf("https://loox.io/widget/%s/reviews?%s", url.PathEscape(f.cfg.LooxAPIKey), q.Encode())

	var reviews []looxReview
	if err := getJSON(ctx, f.client, endpoint, &reviews); err != nil {
		return nil, fmt.Errorf("loox fetch: %w", err)
	}

	raw := make([]domain.RawReview, 0, len(reviews))
	for _, r := range reviews {
		rr := domain.RawReview{
			"id":       r.ID,
			"author":   r.Name,
			"rating":   r.Rating,
			"content":  r.Text,
			"date":     r.Date,
			"verified": r.Verified,
		}
		if r.ImageURL != "" {
			rr["images"] = []any{r.ImageURL}
		}
		raw = append(raw, rr)
	}
	return raw, nil
}
