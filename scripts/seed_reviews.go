// Package main implements a standalone seed script that populates the
// reviews service database with realistic review batches across multiple
// products and sources, for local development and load testing.
//
// Run: go run scripts/seed_reviews.go
//   (from the repo root, or: cd scripts && go run seed_reviews.go)
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	totalProducts    = 200
	maxReviewsPerSet = 40
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "reviews"),
		getEnv("POSTGRES_PASSWORD", "reviews_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "reviews_db"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)
}

var productNouns = []string{
	"foam-roller", "yoga-mat", "resistance-band", "water-bottle", "desk-lamp",
	"phone-stand", "laptop-sleeve", "travel-mug", "wireless-earbuds", "backpack",
	"throw-blanket", "scented-candle", "cutting-board", "chef-knife", "french-press",
}

var productAdjectives = []string{
	"premium", "compact", "eco", "pro", "classic", "deluxe", "mini", "ultra",
}

var sources = []string{"judgeme", "loox", "yotpo", "stamped", "amazon", "generic"}

var authors = []string{
	"Jane D.", "Bob S.", "Ann L.", "Cam F.", "Dee C.", "Eve H.", "Max P.",
	"Liv R.", "Sam T.", "Kim W.", "Anonymous",
}

var titles = []string{
	"Love it", "Worth every penny", "Pretty good", "Does the job", "Not bad",
	"Exceeded expectations", "Solid purchase", "Would buy again",
}

var sentences = []string{
	"The build quality is better than I expected for the price.",
	"Shipping was fast and the packaging was solid.",
	"I have been using it daily for a month now and it still looks new.",
	"Color matches the photos exactly.",
	"My second one, bought the first as a gift.",
	"Slightly smaller than I imagined but works perfectly.",
	"Customer support was quick to answer my question.",
	"It does exactly what the description says.",
	"Took a few days to get used to it, now I cannot imagine life without it.",
}

type review struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Rating     int     `json:"rating"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Date       string  `json:"date"`
	Verified   bool    `json:"verified"`
	Helpful    int     `json:"helpful"`
	Images     []any   `json:"images"`
	Variant    string  `json:"variant"`
	Source     string  `json:"source"`
	Imported   bool    `json:"imported"`
	OriginalID string  `json:"original_id,omitempty"`
}

func reviewID(source, originalID, content string) string {
	h := sha256.Sum256([]byte(source + "|" + originalID + "|" + content))
	return source + "-" + hex.EncodeToString(h[:])[:16]
}

// weightedRating skews toward 4-5 stars the way real review sets do.
func weightedRating(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.45:
		return 5
	case r < 0.75:
		return 4
	case r < 0.88:
		return 3
	case r < 0.95:
		return 2
	default:
		return 1
	}
}

func makeReviews(rng *rand.Rand, source string, n int) []review {
	reviews := make([]review, 0, n)
	for i := 0; i < n; i++ {
		var parts []string
		for s := 0; s < 1+rng.Intn(3); s++ {
			parts = append(parts, sentences[rng.Intn(len(sentences))])
		}
		content := strings.Join(parts, " ")
		originalID := fmt.Sprintf("%d", 1000+i)

		reviews = append(reviews, review{
			ID:         reviewID(source, originalID, content),
			Author:     authors[rng.Intn(len(authors))],
			Rating:     weightedRating(rng),
			Title:      titles[rng.Intn(len(titles))],
			Content:    content,
			Date:       time.Now().AddDate(0, 0, -rng.Intn(365)).UTC().Format(time.RFC3339),
			Verified:   rng.Intn(100) < 70,
			Helpful:    rng.Intn(30),
			Images:     []any{},
			Source:     source,
			Imported:   true,
			OriginalID: originalID,
		})
	}
	return reviews
}

func aggregate(reviews []review) (float64, map[int]int) {
	breakdown := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	if len(reviews) == 0 {
		return 0, breakdown
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		breakdown[r.Rating]++
	}
	return float64(sum) / float64(len(reviews)), breakdown
}

func main() {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	start := time.Now()
	batches := 0

	for p := 0; p < totalProducts; p++ {
		handle := fmt.Sprintf("%s-%s-%d",
			productAdjectives[rng.Intn(len(productAdjectives))],
			productNouns[rng.Intn(len(productNouns))],
			p,
		)

		// Each product gets reviews from one to three platforms.
		nSources := 1 + rng.Intn(3)
		perm := rng.Perm(len(sources))
		for s := 0; s < nSources; s++ {
			source := sources[perm[s]]
			reviews := makeReviews(rng, source, 1+rng.Intn(maxReviewsPerSet))
			avg, breakdown := aggregate(reviews)

			reviewsJSON, err := json.Marshal(reviews)
			if err != nil {
				log.Fatalf("marshal reviews: %v", err)
			}
			breakdownJSON, err := json.Marshal(breakdown)
			if err != nil {
				log.Fatalf("marshal breakdown: %v", err)
			}

			_, err = pool.Exec(ctx, `
				INSERT INTO review_batches (product_handle, source, import_date, reviews, total_reviews, average_rating, rating_breakdown)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (product_handle, source) DO UPDATE SET
					import_date      = EXCLUDED.import_date,
					reviews          = EXCLUDED.reviews,
					total_reviews    = EXCLUDED.total_reviews,
					average_rating   = EXCLUDED.average_rating,
					rating_breakdown = EXCLUDED.rating_breakdown`,
				handle, source, time.Now().UTC(), reviewsJSON, len(reviews), avg, breakdownJSON,
			)
			if err != nil {
				log.Fatalf("insert batch %s/%s: %v", handle, source, err)
			}
			batches++
		}

		if (p+1)%50 == 0 {
			log.Printf("seeded %d/%d products (%d batches)", p+1, totalProducts, batches)
		}
	}

	log.Printf("done: %d products, %d batches in %s", totalProducts, batches, time.Since(start).Round(time.Millisecond))
}
