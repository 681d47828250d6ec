package services

import (
	"math"
	"sort"
)

// CosineSimilarity returns dot(a,b)/(|a|·|b|). It is 0 when either vector
// has zero magnitude or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// scored pairs an item with its similarity.
type scored[T any] struct {
	item  T
	score float64
}

// rankBySimilarity scores every item against query, drops those below
// minSim, and returns the best topK in descending order. Equal scores keep
// input order. Items whose vector is nil are skipped. This is exact search:
// cost grows linearly with len(items).
func rankBySimilarity[T any](query []float32, items []T, vector func(T) []float32, minSim float64, topK int) []scored[T] {
	ranked := make([]scored[T], 0, len(items))
	for _, it := range items {
		v := vector(it)
		if v == nil {
			continue
		}
		s := CosineSimilarity(query, v)
		if s < minSim {
			continue
		}
		ranked = append(ranked, scored[T]{item: it, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
