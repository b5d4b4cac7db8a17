package pipeline

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

const (
	// defaultRating is applied when a source omits the rating entirely.
	defaultRating = 5
	maxImages     = 5
)

// clampRating constrains a rounded rating to the 1-5 scale.
func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// NormalizeRating converts a platform-native rating value to an integer in
// [1,5]. An absent or unparseable rating defaults to 5. eBay feedback labels
// map positive=5, neutral=3, negative=1. In the generic branch, values at or
// below 1 are treated as a [0,1] fraction and scaled by 5.
func NormalizeRating(value any, source domain.Source) int {
	if value == nil {
		return defaultRating
	}

	switch source {
	case domain.SourceAmazon, domain.SourceAliExpress, domain.SourceWalmart:
		f, ok := floatValue(value)
		if !ok {
			return defaultRating
		}
		return clampRating(int(math.Round(f)))

	case domain.SourceEbay:
		if s, isStr := value.(string); isStr {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "positive":
				return 5
			case "neutral":
				return 3
			case "negative":
				return 1
			}
		}
		f, ok := floatValue(value)
		if !ok {
			return defaultRating
		}
		return clampRating(int(math.Round(f)))

	default:
		f, ok := floatValue(value)
		if !ok {
			return defaultRating
		}
		if f <= 1 {
			return clampRating(int(math.Round(f * 5)))
		}
		return clampRating(int(math.Round(f)))
	}
}

var relativeDatePattern = regexp.MustCompile(`(\d+)\s*(day|week|month)`)

// dateLayouts are tried in order when parsing an absolute date string.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// NormalizeDate parses a platform date string into a timestamp. Relative forms
// like "3 days ago" are resolved against now. Anything unparseable falls back
// to now; parse failures are never propagated.
func NormalizeDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	if strings.Contains(strings.ToLower(raw), "ago") {
		if m := relativeDatePattern.FindStringSubmatch(strings.ToLower(raw)); m != nil {
			n := 0
			for _, c := range m[1] {
				n = n*10 + int(c-'0')
			}
			switch m[2] {
			case "day":
				return now.AddDate(0, 0, -n)
			case "week":
				return now.AddDate(0, 0, -n*7)
			case "month":
				return now.AddDate(0, -n, 0)
			}
		}
	}

	return now
}

// VerificationStatus derives the purchase-verification flag from a raw review.
// Semantics differ per platform: AliExpress reviews are always from buyers,
// eBay feedback is transaction-backed unless flagged otherwise, Amazon and
// Walmart carry explicit flags, and unknown sources default to unverified.
func VerificationStatus(raw domain.RawReview, source domain.Source) bool {
	switch source {
	case domain.SourceAmazon:
		v, ok := boolField(raw, "verified_purchase", "verified")
		return ok && v
	case domain.SourceAliExpress:
		return true
	case domain.SourceEbay:
		if v, ok := boolField(raw, "verified"); ok {
			return v
		}
		return true
	case domain.SourceWalmart:
		v, ok := boolField(raw, "verified_buyer")
		return ok && v
	default:
		return false
	}
}

// NormalizeHelpfulCount coerces a helpful-vote value to a non-negative
// integer. Accepts bare numbers, numeric strings, or an object carrying a
// "helpful" field. Defaults to 0 on parse failure.
func NormalizeHelpfulCount(value any) int {
	if m, ok := value.(map[string]any); ok {
		value = m["helpful"]
	}
	f, ok := floatValue(value)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// ProcessImages normalizes a raw image list to at most 5 entries. Accepts
// plain URL strings or objects with src/url fields; falsy and malformed
// entries are dropped. Protocol-relative URLs get an https prefix.
func ProcessImages(value any) []domain.ReviewImage {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	var images []domain.ReviewImage
	for _, entry := range list {
		if len(images) == maxImages {
			break
		}

		var src string
		alt := "Customer review photo"
		width, height := 200, 200

		switch v := entry.(type) {
		case string:
			src = strings.TrimSpace(v)
		case map[string]any:
			if s, isStr := v["src"].(string); isStr {
				src = strings.TrimSpace(s)
			} else if s, isStr := v["url"].(string); isStr {
				src = strings.TrimSpace(s)
			}
			if a, isStr := v["alt"].(string); isStr && a != "" {
				alt = a
			}
			if w, okF := floatValue(v["width"]); okF && w > 0 {
				width = int(w)
			}
			if h, okF := floatValue(v["height"]); okF && h > 0 {
				height = int(h)
			}
		}

		if src == "" {
			continue
		}
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}

		images = append(images, domain.ReviewImage{
			Src:    src,
			Alt:    alt,
			Width:  width,
			Height: height,
		})
	}
	return images
}

// variantFields maps display labels to the raw key names platforms use for
// purchase-option descriptors.
var variantFields = []struct {
	label string
	keys  []string
}{
	{"Color", []string{"color", "product_color", "colour"}},
	{"Size", []string{"size", "product_size"}},
	{"Style", []string{"style", "model"}},
	{"Variant", []string{"variant", "variation", "sku_info", "option"}},
}

// ExtractVariant builds a comma-joined descriptor like "Color: Red, Size: M"
// from whichever variant fields the raw review carries. Returns "" when none
// are present.
func ExtractVariant(raw domain.RawReview) string {
	var parts []string
	for _, field := range variantFields {
		if v := stringField(raw, field.keys...); v != "" {
			parts = append(parts, field.label+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}
