// Package similarity ranks stored vectors by cosine distance.
// Both vector stores search by brute force over a collection.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// CosineDistance returns 1 - cos(a, b). Zero vectors are maximally
// distant from everything. a and b must have equal length.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// TopK sorts matches by ascending distance, ties broken by id, and keeps
// the first k. k <= 0 yields no matches.
func TopK(matches []domain.VectorMatch, k int) []domain.VectorMatch {
	if k <= 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
