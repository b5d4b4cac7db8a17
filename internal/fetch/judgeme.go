package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// JudgeMeFetcher pulls published reviews from the Judge.me REST API.
type JudgeMeFetcher struct {
	cfg    Config
	client doer
}

func NewJudgeMeFetcher(cfg Config, client doer) *JudgeMeFetcher {
	return &JudgeMeFetcher{cfg: cfg, client: client}
}

func (f *JudgeMeFetcher) Source() domain.Source { return domain.SourceJudgeMe }

type judgeMeResponse struct {
	Reviews []struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Body     string `json:"body"`
		Rating   int    `json:"rating"`
		Verified string `json:"verified"`
		Hidden   bool   `json:"hidden"`
		CreatedAt string `json:"created_at"`
		Reviewer struct {
			Name string `json:"name"`
		} `json:"reviewer"`
		Pictures []struct {
			URLs struct {
				Original string `json:"original"`
			} `json:"urls"`
		} `json:"pictures"`
	} `json:"reviews"`
}

func (f *JudgeMeFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.JudgeMeToken == "" {
		return nil, fmt.Errorf("judge.me api token not configured")
	}

	q := url.Values{}
	q.Set("api_token", f.cfg.JudgeMeToken)
	q.Set("shop_domain", f.cfg.StoreDomain)
	q.Set("handle", productHandle)
	q.Set("per_page", "100")

	var resp judgeMeResponse
	if err := getJSON(ctx, f.client, "https://judge.me/api/v1/reviews?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("judge.me fetch: %w", err)
	}

	raw := make([]domain.RawReview, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		if r.Hidden {
			continue
		}
		images := make([]any, 0, len(r.Pictures))
		for _, p := range r.Pictures {
			if p.URLs.Original != "" {
				images = append(images, p.URLs.Original)
			}
		}
		raw = append(raw, domain.RawReview{
			"id":       fmt.Sprintf("%d", r.ID),
			"author":   r.Reviewer.Name,
			"rating":   r.Rating,
			"title":    r.Title,
			"content":  r.Body,
			"date":     r.CreatedAt,
			"verified": r.Verified == "buyer",
			"images":   images,
		})
	}
	return raw, nil
}
