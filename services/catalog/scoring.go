package catalog

import (
	"math/rand"
	"sort"

	"learnhub-storefront-api/models"
)

// Similarity weights. They sum to 1 so a perfect match scores 1.0.
const (
	weightCategory   = 0.4
	weightTags       = 0.3
	weightLevel      = 0.2
	weightPreference = 0.1
)

// Result caps for the three recommendation surfaces.
const (
	RelatedLimit        = 6
	RecommendLimit      = 8
	BoughtTogetherLimit = 4

	// boughtTogetherMinScore filters weakly related items out of the
	// "frequently bought together" strip.
	boughtTogetherMinScore = 0.3
)

// recommendJitter bounds the random term mixed into homepage recommendation
// scores to diversify the ranking between visits.
const recommendJitter = 0.1

// categoryPreference is the static boost the storefront gives its flagship
// categories when ranking related items.
var categoryPreference = map[string]float64{
	"프로그래밍": 1.0,
	"디자인":   0.8,
	"비즈니스":  0.6,
	"마케팅":   0.5,
}

const defaultCategoryPreference = 0.3

// SimilarityScore is the weighted heuristic behind every "related" list:
// exact category match, tag overlap (Jaccard), level proximity and a static
// category preference. Result is clamped to [0, 1].
func SimilarityScore(a, b models.CatalogItem) float64 {
	score := 0.0

	if a.Category != "" && a.Category == b.Category {
		score += weightCategory
	}

	score += weightTags * jaccard(a.Tags, b.Tags)

	levelDistance := models.LevelOrdinal(a.Level) - models.LevelOrdinal(b.Level)
	if levelDistance < 0 {
		levelDistance = -levelDistance
	}
	score += weightLevel * (1 - float64(levelDistance)/float64(models.LevelRange))

	preference, ok := categoryPreference[b.Category]
	if !ok {
		preference = defaultCategoryPreference
	}
	score += weightPreference * preference

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// jaccard treats both tag lists as sets, so repeated tags never skew the
// ratio.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, tag := range a {
		setA[tag] = true
	}
	setB := make(map[string]bool, len(b))
	for _, tag := range b {
		setB[tag] = true
	}

	intersection := 0
	for tag := range setB {
		if setA[tag] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

type scored struct {
	item  models.CatalogItem
	score float64
}

// rankBySimilarity scores every pool item against the anchor, drops the
// anchor itself and anything below minScore, and returns the top items by
// descending score. The sort is stable so equal scores keep catalog order.
func rankBySimilarity(anchor models.CatalogItem, pool []models.CatalogItem, minScore float64, limit int) []models.CatalogItem {
	candidates := make([]scored, 0, len(pool))
	for _, item := range pool {
		if item.ID == anchor.ID && item.Kind == anchor.Kind {
			continue
		}
		s := SimilarityScore(anchor, item)
		if s < minScore {
			continue
		}
		candidates = append(candidates, scored{item: item, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]models.CatalogItem, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.item)
	}
	return out
}

// Related picks the items most similar to the anchor, capped at RelatedLimit.
func Related(anchor models.CatalogItem, pool []models.CatalogItem) []models.CatalogItem {
	return rankBySimilarity(anchor, pool, 0, RelatedLimit)
}

// FrequentlyBoughtTogether is the tighter variant shown on product pages:
// fewer slots and a minimum-score cutoff.
func FrequentlyBoughtTogether(anchor models.CatalogItem, pool []models.CatalogItem) []models.CatalogItem {
	return rankBySimilarity(anchor, pool, boughtTogetherMinScore, BoughtTogetherLimit)
}

// Recommendations ranks the pool for the homepage: rating and popularity,
// plus a small random term from the injected generator so the list varies
// between visits but stays reproducible under a fixed seed.
func Recommendations(pool []models.CatalogItem, rng *rand.Rand) []models.CatalogItem {
	maxPopularity := 0
	for _, item := range pool {
		if p := popularity(item); p > maxPopularity {
			maxPopularity = p
		}
	}

	candidates := make([]scored, 0, len(pool))
	for _, item := range pool {
		s := 0.5 * (item.Rating / 5.0)
		if maxPopularity > 0 {
			s += 0.4 * (float64(popularity(item)) / float64(maxPopularity))
		}
		if rng != nil {
			s += rng.Float64() * recommendJitter
		}
		candidates = append(candidates, scored{item: item, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > RecommendLimit {
		candidates = candidates[:RecommendLimit]
	}
	out := make([]models.CatalogItem, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.item)
	}
	return out
}
