// Package embedding trains dense item vectors from co-purchase baskets.
// The engine only depends on the Trainer contract; any model producing one
// fixed-length vector per item index is substitutable.
package embedding

import (
	"context"
	"math/rand"

	"github.com/hearthside/cartfill/internal/domain"
)

// Pair is one labeled training example: Label 1 for items seen in the same
// basket, 0 for sampled negatives.
type Pair struct {
	Left  int
	Right int
	Label float32
}

// Trainer produces one vector per item index from labeled co-occurrence pairs.
type Trainer interface {
	Train(ctx context.Context, numItems int, pairs []Pair) (domain.Vectors, error)
}

// BuildPairs derives training pairs from baskets: positive pairs in both
// directions capped per basket, plus a couple of random negatives per basket.
// Deterministic for a fixed seed.
func BuildPairs(baskets []domain.Basket, index *domain.ItemIndex, maxPerBasket int, seed int64) []Pair {
	if maxPerBasket <= 0 {
		maxPerBasket = 24
	}
	rng := rand.New(rand.NewSource(seed))

	var pairs []Pair
	for _, basket := range baskets {
		idxs := make([]int, 0, len(basket))
		inBasket := make(map[int]bool, len(basket))
		for _, item := range basket {
			if i, ok := index.Index(item); ok {
				idxs = append(idxs, i)
				inBasket[i] = true
			}
		}
		if len(idxs) < 2 {
			continue
		}

		added := 0
	positives:
		for i := 0; i < len(idxs); i++ {
			for j := i + 1; j < len(idxs); j++ {
				pairs = append(pairs,
					Pair{Left: idxs[i], Right: idxs[j], Label: 1},
					Pair{Left: idxs[j], Right: idxs[i], Label: 1},
				)
				added += 2
				if added >= maxPerBasket {
					break positives
				}
			}
		}

		// A few random negatives anchored on the first basket items.
		negAnchors := 2
		if len(idxs) < negAnchors {
			negAnchors = len(idxs)
		}
		for a := 0; a < negAnchors; a++ {
			neg := rng.Intn(index.Len())
			if !inBasket[neg] {
				pairs = append(pairs, Pair{Left: idxs[a], Right: neg, Label: 0})
			}
		}
	}

	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	return pairs
}
