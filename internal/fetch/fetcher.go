package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/pkg/httpclient"
)

// Config holds the credentials for the supported review platforms. It is
// populated from the service configuration at startup; fetchers never read
// ambient environment state themselves.
type Config struct {
	StoreDomain       string // e.g. "example.myshopify.com"
	ShopifyAdminToken string

	JudgeMeToken     string
	LooxAPIKey       string
	YotpoAppKey      string
	StampedPublicKey string
	StampedStoreHash string
	RivyoShopToken   string
}

// Fetcher pulls raw reviews for a product from one external platform. The
// only contract with the pipeline is "zero or more review-like objects".
type Fetcher interface {
	Source() domain.Source
	Fetch(ctx context.Context, productHandle string) ([]domain.RawReview, error)
}

// doer is the outbound HTTP surface fetchers depend on, satisfied by
// httpclient.CircuitBreakerClient and easily stubbed in tests.
type doer interface {
	Get(ctx context.Context, url string) (*http.Response, error)
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// getJSON fetches a URL and decodes the JSON response body into v. Non-2xx
// statuses are errors.
func getJSON(ctx context.Context, client doer, url string, v any) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Registry maps sources to their fetch adapters. Adding a platform means
// registering a new Fetcher; existing adapters are never modified.
type Registry struct {
	fetchers map[domain.Source]Fetcher
	logger   *slog.Logger
}

// NewRegistry builds the full adapter set from the platform configuration.
// Each platform gets its own circuit breaker so one failing API cannot trip
// the others.
func NewRegistry(cfg Config, clientCfg httpclient.Config, logger *slog.Logger) *Registry {
	base := httpclient.New(clientCfg)

	breaker := func(name string) *httpclient.CircuitBreakerClient {
		return httpclient.NewCircuitBreakerClient(
			base,
			httpclient.DefaultCircuitBreakerConfig(name),
			logger,
		)
	}

	r := &Registry{
		fetchers: make(map[domain.Source]Fetcher),
		logger:   logger,
	}
	r.register(NewJudgeMeFetcher(cfg, breaker("fetch-judgeme")))
	r.register(NewLooxFetcher(cfg, breaker("fetch-loox")))
	r.register(NewYotpoFetcher(cfg, breaker("fetch-yotpo")))
	r.register(NewStampedFetcher(cfg, breaker("fetch-stamped")))
	r.register(NewRivyoFetcher(cfg, breaker("fetch-rivyo")))
	r.register(NewMetafieldFetcher(cfg, breaker("fetch-metafield")))
	return r
}

func (r *Registry) register(f Fetcher) {
	r.fetchers[f.Source()] = f
}

// Get returns the fetcher for a source, or ok=false when the source has no
// pull adapter (amazon, ebay, etc. are import-only).
func (r *Registry) Get(source domain.Source) (Fetcher, bool) {
	f, ok := r.fetchers[source]
	return f, ok
}

// FetchSafe pulls reviews for a product from one platform. Any fetch or parse
// failure resolves to an empty list and a log line; errors never propagate.
func (r *Registry) FetchSafe(ctx context.Context, source domain.Source, productHandle string) []domain.RawReview {
	f, ok := r.fetchers[source]
	if !ok {
		return nil
	}

	reviews, err := f.Fetch(ctx, productHandle)
	if err != nil {
		r.logger.WarnContext(ctx, "platform fetch failed, continuing with empty list",
			slog.String("source", source.String()),
			slog.String("product_handle", productHandle),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return reviews
}
