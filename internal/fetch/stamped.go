package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// StampedFetcher pulls published reviews from the Stamped.io widget API.
type StampedFetcher struct {
	cfg    Config
	client doer
}

func NewStampedFetcher(cfg Config, client doer) *StampedFetcher {
	return &StampedFetcher{cfg: cfg, client: client}
}

func (f *StampedFetcher) Source() domain.Source { return domain.SourceStamped }

type stampedResponse struct {
	Data []struct {
		Review struct {
			ID            int64  `json:"id"`
			Author        string `json:"author"`
			Rating        int    `json:"reviewRating"`
			Title         string `json:"reviewTitle"`
			Message       string `json:"reviewMessage"`
			DateCreated   string `json:"dateCreated"`
			Verified      int    `json:"reviewVerifiedType"`
			VotesUp       int    `json:"reviewVotesUp"`
			UserPhotos    string `json:"reviewUserPhotos"`
			ProductOption string `json:"productOption"`
		} `json:"review"`
	} `json:"data"`
}

func (f *StampedFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.StampedPublicKey == "" || f.cfg.StampedStoreHash == "" {
		return nil, fmt.Errorf("stamped credentials not configured")
	}

	q := url.Values{}
	q.Set("apiKey", f.cfg.StampedPublicKey)
	q.Set("storeUrl", f.cfg.StoreDomain)
	q.Set("productUrl", productHandle)
	q.Set("take", "100")
	endpoint := fmt.Sprintf("https://stamped.io/api/widget/reviews?sId=%s&%s",
		url.QueryEscape(f.cfg.StampedStoreHash), q.Encode())

	var resp stampedResponse
	if err := getJSON(ctx, f.client, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("stamped fetch: %w", err)
	}

	raw := make([]domain.RawReview, 0, len(resp.Data))
	for _, d := range resp.Data {
		r := d.Review
		rr := domain.RawReview{
			"id":       fmt.Sprintf("%d", r.ID),
			"author":   r.Author,
			"rating":   r.Rating,
			"title":    r.Title,
			"content":  r.Message,
			"date":     r.DateCreated,
			"verified": r.Verified > 0,
			"helpful":  r.VotesUp,
		}
		if r.UserPhotos != "" {
			rr["images"] = []any{r.UserPhotos}
		}
		if r.ProductOption != "" {
			rr["variant"] = r.ProductOption
		}
		raw = append(raw, rr)
	}
	return raw, nil
}
