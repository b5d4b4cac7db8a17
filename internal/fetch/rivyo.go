package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// RivyoFetcher pulls reviews from the Rivyo (TYDAL) product review API.
type RivyoFetcher struct {
	cfg    Config
	client doer
}

func NewRivyoFetcher(cfg Config, client doer) *RivyoFetcher {
	return &RivyoFetcher{cfg: cfg, client: client}
}

func (f *RivyoFetcher) Source() domain.Source { return domain.SourceRivyo }

type rivyoResponse struct {
	Status  string `json:"status"`
	Reviews []struct {
		ID         string `json:"_id"`
		CustomerName string `json:"customer_name"`
		Rating     int    `json:"rating"`
		Title      string `json:"title"`
		Description string `json:"description"`
		CreatedAt  string `json:"created_at"`
		IsVerified bool   `json:"is_verified"`
		Photos     []string `json:"photos"`
	} `json:"reviews"`
}

func (f *RivyoFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.RivyoShopToken == "" {
		return nil, fmt.Errorf("rivyo shop token not configured")
	}

	q := url.Values{}
	q.Set("shop", f.cfg.StoreDomain)
	q.Set("token", f.cfg.RivyoShopToken)
	q.Set("handle", productHandle)

	var resp rivyoResponse
	if err := getJSON(ctx, f.client, "https://thimatic-apps.com/rivyo/api/v1/reviews?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("rivyo fetch: %w", err)
	}
	if resp.Status != "" && resp.Status != "success" {
		return nil, fmt.Errorf("rivyo fetch: status %q", resp.Status)
	}

	raw := make([]domain.RawReview, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		images := make([]any, 0, len(r.Photos))
		for _, p := range r.Photos {
			if p != "" {
				images = append(images, p)
			}
		}
		raw = append(raw, domain.RawReview{
			"id":       r.ID,
			"author":   r.CustomerName,
			"rating":   r.Rating,
			"title":    r.Title,
			"content":  r.Description,
			"date":     r.CreatedAt,
			"verified": r.IsVerified,
			"images":   images,
		})
	}
	return raw, nil
}
