package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// YotpoFetcher pulls reviews from the Yotpo widget CDN. Yotpo keys reviews by
// external product id; stores that embed the handle as the external id work
// out of the box, others configure a handle-to-id mapping upstream.
type YotpoFetcher struct {
	cfg    Config
	client doer
}

func NewYotpoFetcher(cfg Config, client doer) *YotpoFetcher {
	return &YotpoFetcher{cfg: cfg, client: client}
}

func (f *YotpoFetcher) Source() domain.Source { return domain.SourceYotpo }

type yotpoResponse struct {
	Response struct {
		Reviews []struct {
			ID        int64   `json:"id"`
			Score     float64 `json:"score"`
			Title     string  `json:"title"`
			Content   string  `json:"content"`
			CreatedAt string  `json:"created_at"`
			VotesUp   int     `json:"votes_up"`
			User      struct {
				DisplayName string `json:"display_name"`
			} `json:"user"`
			ImagesData []struct {
				OriginalURL string `json:"original_url"`
			} `json:"images_data"`
		} `json:"reviews"`
	} `json:"response"`
}

func (f *YotpoFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.YotpoAppKey == "" {
		return nil, fmt.Errorf("yotpo app key not configured")
	}

	endpoint := fmt.Sprintf(
		"https://api-cdn.yotpo.com/v1/widget/%s/products/%s/reviews.json?per_page=100",
		url.PathEscape(f.cfg.YotpoAppKey),
		url.PathEscape(productHandle),
	)

	var resp yotpoResponse
	if err := getJSON(ctx, f.client, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("yotpo fetch: %w", err)
	}

	raw := make([]domain.RawReview, 0, len(resp.Response.Reviews))
	for _, r := range resp.Response.Reviews {
		images := make([]any, 0, len(r.ImagesData))
		for _, img := range r.ImagesData {
			if img.OriginalURL != "" {
				images = append(images, img.OriginalURL)
			}
		}
		raw = append(raw, domain.RawReview{
			"id":      fmt.Sprintf("%d", r.ID),
			"author":  r.User.DisplayName,
			"rating":  r.Score,
			"title":   r.Title,
			"content": r.Content,
			"date":    r.CreatedAt,
			"helpful": r.VotesUp,
			"images":  images,
		})
	}
	return raw, nil
}
