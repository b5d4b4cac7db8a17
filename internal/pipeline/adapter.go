package pipeline

import (
	"github.com/utafrali/ReviewsGo/internal/domain"
)

// adapterFunc attaches source-specific extension fields to a canonical review.
// Adapters are additive: they write only through setExtra, which refuses to
// shadow canonical fields.
type adapterFunc func(review *domain.CanonicalReview, raw domain.RawReview)

// sourceAdapters dispatches per-platform extension mapping. Sources without an
// entry pass through unchanged. New platforms are supported by adding an
// entry, never by modifying an existing adapter.
var sourceAdapters = map[domain.Source]adapterFunc{
	domain.SourceAmazon:     amazonAdapter,
	domain.SourceAliExpress: aliexpressAdapter,
	domain.SourceEbay:       ebayAdapter,
	domain.SourceWalmart:    walmartAdapter,
}

// ApplyAdapter merges source-specific fields onto the canonical base record.
func ApplyAdapter(review *domain.CanonicalReview, raw domain.RawReview) {
	if fn, ok := sourceAdapters[review.Source]; ok {
		fn(review, raw)
	}
}

var canonicalKeySet = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, k := range []string{
		"id", "author", "rating", "title", "content", "date", "verified",
		"helpful", "images", "variant", "source", "source_url", "imported",
		"original_id",
	} {
		m[k] = struct{}{}
	}
	return m
}()

// setExtra records an extension field unless the key belongs to the canonical
// schema.
func setExtra(review *domain.CanonicalReview, key string, value any) {
	if _, reserved := canonicalKeySet[key]; reserved {
		return
	}
	if review.Extra == nil {
		review.Extra = make(map[string]any)
	}
	review.Extra[key] = value
}

func amazonAdapter(review *domain.CanonicalReview, raw domain.RawReview) {
	if v, ok := boolField(raw, "verified_purchase", "verified"); ok {
		setExtra(review, "verified_purchase", v)
	}
	if v, ok := boolField(raw, "vine_customer", "vine"); ok {
		setExtra(review, "vine_customer", v)
	}
}

func aliexpressAdapter(review *domain.CanonicalReview, raw domain.RawReview) {
	if v := stringField(raw, "country", "buyer_country"); v != "" {
		setExtra(review, "country", v)
	}
	if v := stringField(raw, "product_color", "color"); v != "" {
		setExtra(review, "product_color", v)
	}
	if v := stringField(raw, "logistics"); v != "" {
		setExtra(review, "logistics", v)
	}
}

func ebayAdapter(review *domain.CanonicalReview, raw domain.RawReview) {
	if v, isStr := raw["rating"].(string); isStr {
		setExtra(review, "feedback_type", v)
	}
	if v := stringField(raw, "item_id", "itemId"); v != "" {
		setExtra(review, "item_id", v)
	}
}

func walmartAdapter(review *domain.CanonicalReview, raw domain.RawReview) {
	if v, ok := boolField(raw, "verified_buyer"); ok {
		setExtra(review, "verified_buyer", v)
	}
	if v, ok := boolField(raw, "recommended"); ok {
		setExtra(review, "recommended", v)
	}
}
