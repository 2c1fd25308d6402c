package engine

import "github.com/hearthside/cartfill/internal/domain"

// MineRules computes pairwise association rules over the baskets.
//
// For every basket, every unordered pair of distinct items increments a pair
// counter and every item increments an occurrence counter (once per basket).
// Then for each pair (A, B):
//
//	support(A,B)      = pairCount(A,B) / totalBaskets
//	confidence(A->B)  = pairCount(A,B) / itemCount(A)
//
// An edge is kept only when support clears minSupport and its own directed
// confidence clears minConfidence. The two directions are gated independently,
// so a pair can yield zero, one, or two edges. An item with zero occurrences
// never appears as a pair-count key, so no division by zero is possible.
func MineRules(baskets []domain.Basket, minSupport, minConfidence float64) domain.RuleTable {
	type pairKey struct{ a, b string }

	itemCounts := make(map[string]int)
	pairCounts := make(map[pairKey]int)
	for _, basket := range baskets {
		for _, item := range basket {
			itemCounts[item]++
		}
		for i := 0; i < len(basket); i++ {
			for j := i + 1; j < len(basket); j++ {
				a, b := basket[i], basket[j]
				if b < a {
					a, b = b, a
				}
				pairCounts[pairKey{a, b}]++
			}
		}
	}

	rules := make(domain.RuleTable)
	total := len(baskets)
	if total == 0 {
		return rules
	}

	for pair, n := range pairCounts {
		support := float64(n) / float64(total)
		if support < minSupport {
			continue
		}
		if conf := float64(n) / float64(itemCounts[pair.a]); conf >= minConfidence {
			rules.Put(pair.a, pair.b, domain.Rule{Support: support, Confidence: conf})
		}
		if conf := float64(n) / float64(itemCounts[pair.b]); conf >= minConfidence {
			rules.Put(pair.b, pair.a, domain.Rule{Support: support, Confidence: conf})
		}
	}
	return rules
}

// MergeComplementFloors guarantees every curated (main, complement) edge
// exists with at least the floor support and confidence. Mined values above
// the floors are left alone.
func MergeComplementFloors(rules domain.RuleTable, complements map[string][]string, floorSupport, floorConfidence float64) {
	for main, accessories := range complements {
		for _, acc := range accessories {
			rules.Raise(main, acc, floorSupport, floorConfidence)
		}
	}
}
