package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		source domain.Source
		want   int
	}{
		{name: "nil defaults to five", value: nil, source: domain.SourceAmazon, want: 5},
		{name: "amazon float rounds", value: 4.6, source: domain.SourceAmazon, want: 5},
		{name: "amazon rounds down", value: 4.4, source: domain.SourceAmazon, want: 4},
		{name: "amazon clamps high", value: 9.0, source: domain.SourceAmazon, want: 5},
		{name: "amazon clamps low", value: -2, source: domain.SourceAmazon, want: 1},
		{name: "amazon numeric string", value: "4.5", source: domain.SourceAmazon, want: 5},
		{name: "aliexpress integer", value: 3, source: domain.SourceAliExpress, want: 3},
		{name: "walmart float", value: 2.2, source: domain.SourceWalmart, want: 2},
		{name: "ebay positive", value: "positive", source: domain.SourceEbay, want: 5},
		{name: "ebay neutral", value: "neutral", source: domain.SourceEbay, want: 3},
		{name: "ebay negative", value: "negative", source: domain.SourceEbay, want: 1},
		{name: "ebay mixed case", value: " Positive ", source: domain.SourceEbay, want: 5},
		{name: "ebay numeric fallback", value: 4, source: domain.SourceEbay, want: 4},
		{name: "generic fraction scaled", value: 0.8, source: domain.SourceGeneric, want: 4},
		{name: "generic exact one scaled", value: 1.0, source: domain.SourceGeneric, want: 5},
		{name: "generic five star passthrough", value: 4, source: domain.SourceGeneric, want: 4},
		{name: "generic unparseable defaults", value: "great", source: domain.SourceGeneric, want: 5},
		{name: "judgeme integer", value: 5, source: domain.SourceJudgeMe, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRating(tt.value, tt.source))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: "2024-01-02T10:30:00Z", want: time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)},
		{name: "date only", input: "2024-01-02", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "long form", input: "January 2, 2024", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "us slashes", input: "01/02/2024", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "three days ago", input: "3 days ago", want: now.AddDate(0, 0, -3)},
		{name: "one week ago", input: "1 week ago", want: now.AddDate(0, 0, -7)},
		{name: "two months ago", input: "2 months ago", want: now.AddDate(0, -2, 0)},
		{name: "empty falls back to now", input: "", want: now},
		{name: "garbage falls back to now", input: "soonish", want: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NormalizeDate(tt.input, now)))
		})
	}
}

func TestVerificationStatus(t *testing.T) {
	tests := []struct {
		name   string
		raw    domain.RawReview
		source domain.Source
		want   bool
	}{
		{name: "amazon flagged", raw: domain.RawReview{"verified_purchase": true}, source: domain.SourceAmazon, want: true},
		{name: "amazon unflagged", raw: domain.RawReview{}, source: domain.SourceAmazon, want: false},
		{name: "aliexpress always verified", raw: domain.RawReview{}, source: domain.SourceAliExpress, want: true},
		{name: "ebay defaults verified", raw: domain.RawReview{}, source: domain.SourceEbay, want: true},
		{name: "ebay explicit false wins", raw: domain.RawReview{"verified": false}, source: domain.SourceEbay, want: false},
		{name: "walmart verified buyer", raw: domain.RawReview{"verified_buyer": true}, source: domain.SourceWalmart, want: true},
		{name: "generic defaults unverified", raw: domain.RawReview{"verified": true}, source: domain.SourceGeneric, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerificationStatus(tt.raw, tt.source))
		})
	}
}

func TestNormalizeHelpfulCount(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "plain int", value: 7, want: 7},
		{name: "float truncated", value: 3.9, want: 3},
		{name: "numeric string", value: "12", want: 12},
		{name: "negative clamped", value: -4, want: 0},
		{name: "nil is zero", value: nil, want: 0},
		{name: "object with helpful field", value: map[string]any{"helpful": 5.0}, want: 5},
		{name: "object without helpful field", value: map[string]any{"votes": 5}, want: 0},
		{name: "unparseable string", value: "many", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHelpfulCount(tt.value))
		})
	}
}

func TestProcessImages(t *testing.T) {
	t.Run("string entries", func(t *testing.T) {
		images := ProcessImages([]any{"https://cdn.example.com/a.jpg", "//cdn.example.com/b.jpg"})
		require.Len(t, images, 2)
		assert.Equal(t, "https://cdn.example.com/a.jpg", images[0].Src)
		assert.Equal(t, "https://cdn.example.com/b.jpg", images[1].Src)
		assert.Equal(t, "Customer review photo", images[0].Alt)
		assert.Equal(t, 200, images[0].Width)
	})

	t.Run("object entries", func(t *testing.T) {
		images := ProcessImages([]any{
			map[string]any{"src": "https://cdn.example.com/c.jpg", "alt": "unboxing", "width": 640.0, "height": 480.0},
			map[string]any{"url": "https://cdn.example.com/d.jpg"},
		})
		require.Len(t, images, 2)
		assert.Equal(t, "unboxing", images[0].Alt)
		assert.Equal(t, 640, images[0].Width)
		assert.Equal(t, 480, images[0].Height)
		assert.Equal(t, "https://cdn.example.com/d.jpg", images[1].Src)
	})

	t.Run("caps at five", func(t *testing.T) {
		var entries []any
		for i := 0; i < 8; i++ {
			entries = append(entries, "https://cdn.example.com/img.jpg")
		}
		assert.Len(t, ProcessImages(entries), 5)
	})

	t.Run("malformed entries dropped", func(t *testing.T) {
		images := ProcessImages([]any{"", map[string]any{"alt": "no src"}, 42, "https://cdn.example.com/ok.jpg"})
		require.Len(t, images, 1)
		assert.Equal(t, "https://cdn.example.com/ok.jpg", images[0].Src)
	})

	t.Run("non list input", func(t *testing.T) {
		assert.Nil(t, ProcessImages("https://cdn.example.com/a.jpg"))
		assert.Nil(t, ProcessImages(nil))
	})
}

func TestExtractVariant(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawReview
		want string
	}{
		{name: "color and size", raw: domain.RawReview{"color": "Red", "size": "M"}, want: "Color: Red, Size: M"},
		{name: "aliexpress color key", raw: domain.RawReview{"product_color": "Blue"}, want: "Color: Blue"},
		{name: "bare variant key", raw: domain.RawReview{"variant": "XL / Navy"}, want: "Variant: XL / Navy"},
		{name: "none present", raw: domain.RawReview{"rating": 5}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVariant(tt.raw))
		})
	}
}
