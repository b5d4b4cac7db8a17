package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalReview_MarshalFlattensExtra(t *testing.T) {
	review := CanonicalReview{
		ID:     "amazon-abc123",
		Author: "Jane D.",
		Rating: 5,
		Source: SourceAmazon,
		Extra: map[string]any{
			"vine_customer": true,
			"country":       "US",
		},
	}

	data, err := json.Marshal(review)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "amazon-abc123", m["id"])
	assert.Equal(t, true, m["vine_customer"])
	assert.Equal(t, "US", m["country"])
}

func TestCanonicalReview_ExtraCannotShadowCanonical(t *testing.T) {
	review := CanonicalReview{
		ID:     "loox-xyz",
		Rating: 4,
		Extra: map[string]any{
			"rating": 1,
			"author": "spoofed",
		},
	}

	data, err := json.Marshal(review)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, float64(4), m["rating"])
	assert.Equal(t, "", m["author"])
}

func TestCanonicalReview_RoundTripPreservesExtra(t *testing.T) {
	original := CanonicalReview{
		ID:       "walmart-def456",
		Author:   "Bob S.",
		Rating:   3,
		Content:  "round trip body",
		Date:     time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC),
		Verified: true,
		Source:   SourceWalmart,
		Imported: true,
		Extra:    map[string]any{"recommended": true},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded CanonicalReview
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Rating, decoded.Rating)
	assert.True(t, original.Date.Equal(decoded.Date))
	assert.Equal(t, true, decoded.Extra["recommended"])
}

func TestCanonicalReview_UnmarshalCollectsUnknownKeys(t *testing.T) {
	data := []byte(`{
		"id": "ebay-123",
		"rating": 5,
		"content": "decoded from storage",
		"source": "ebay",
		"feedback_type": "positive",
		"item_id": "987"
	}`)

	var review CanonicalReview
	require.NoError(t, json.Unmarshal(data, &review))

	assert.Equal(t, "ebay-123", review.ID)
	assert.Equal(t, SourceEbay, review.Source)
	assert.Equal(t, "positive", review.Extra["feedback_type"])
	assert.Equal(t, "987", review.Extra["item_id"])
	assert.NotContains(t, review.Extra, "id")
	assert.NotContains(t, review.Extra, "rating")
}

func TestNewRatingBreakdown(t *testing.T) {
	b := NewRatingBreakdown()

	assert.Len(t, b, 5)
	for star := 1; star <= 5; star++ {
		assert.Zero(t, b[star])
	}
}
