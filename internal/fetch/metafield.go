package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

const shopifyAPIVersion = "2024-01"

// MetafieldFetcher is the generic fallback adapter. It reads a JSON array of
// review objects from the product's `reviews.imported` metafield via the
// Shopify Admin API, so any platform that can write a metafield can feed the
// pipeline without a dedicated adapter.
type MetafieldFetcher struct {
	cfg    Config
	client doer
}

func NewMetafieldFetcher(cfg Config, client doer) *MetafieldFetcher {
	return &MetafieldFetcher{cfg: cfg, client: client}
}

func (f *MetafieldFetcher) Source() domain.Source { return domain.SourceGeneric }

type productLookupResponse struct {
	Products []struct {
		ID int64 `json:"id"`
	} `json:"products"`
}

type metafieldsResponse struct {
	Metafields []struct {
		Namespace string `json:"namespace"`
		Key       string `json:"key"`
		Value     string `json:"value"`
	} `json:"metafields"`
}

func (f *MetafieldFetcher) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", f.cfg.ShopifyAdminToken)

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (f *MetafieldFetcher) Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error) {
	if f.cfg.StoreDomain == "" || f.cfg.ShopifyAdminToken == "" {
		return nil, fmt.Errorf("shopify admin credentials not configured")
	}

	base := fmt.Sprintf("https://%s/admin/api/%s", f.cfg.StoreDomain, shopifyAPIVersion)

	var lookup productLookupResponse
	lookupURL := fmt.Sprintf("%s/products.json?handle=%s&fields=id", base, url.QueryEscape(productHandle))
	if err := f.get(ctx, lookupURL, &lookup); err != nil {
		return nil, fmt.Errorf("metafield fetch: product lookup: %w", err)
	}
	if len(lookup.Products) == 0 {
		return nil, nil
	}

	var fields metafieldsResponse
	metafieldURL := fmt.Sprintf("%s/products/%d/metafields.json?namespace=reviews", base, lookup.Products[0].ID)
	if err := f.get(ctx, metafieldURL, &fields); err != nil {
		return nil, fmt.Errorf("metafield fetch: metafields: %w", err)
	}

	for _, mf := range fields.Metafields {
		if mf.Key != "imported" {
			continue
		}
		var raw []domain.RawReview
		if err := json.Unmarshal([]byte(mf.Value), &raw); err != nil {
			return nil, fmt.Errorf("metafield fetch: parse reviews: %w", err)
		}
		return raw, nil
	}
	return nil, nil
}
