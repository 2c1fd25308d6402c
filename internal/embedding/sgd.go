package embedding

import (
	"context"
	"math"
	"math/rand"

	"github.com/hearthside/cartfill/internal/domain"
)

// SGDTrainer learns item vectors by logistic regression on vector dot
// products: sigmoid(left · right) is pushed toward the pair label. Small and
// deterministic; the default in-process implementation of Trainer.
type SGDTrainer struct {
	Dim          int     // vector dimensionality (default 16)
	Epochs       int     // passes over the pair set (default 6)
	LearningRate float64 // SGD step size (default 0.05)
	Seed         int64   // init RNG seed (default 7)
}

var _ Trainer = (*SGDTrainer)(nil)

// Train learns one vector per item index. Vectors for items that never occur
// in any pair keep their small random initialization.
func (t *SGDTrainer) Train(ctx context.Context, numItems int, pairs []Pair) (domain.Vectors, error) {
	dim := t.Dim
	if dim <= 0 {
		dim = 16
	}
	epochs := t.Epochs
	if epochs <= 0 {
		epochs = 6
	}
	lr := t.LearningRate
	if lr <= 0 {
		lr = 0.05
	}
	seed := t.Seed
	if seed == 0 {
		seed = 7
	}

	rng := rand.New(rand.NewSource(seed))
	vecs := make(domain.Vectors, numItems)
	for i := range vecs {
		row := make([]float32, dim)
		for d := range row {
			row[d] = float32((rng.Float64() - 0.5) * 0.1)
		}
		vecs[i] = row
	}

	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if p.Left < 0 || p.Left >= numItems || p.Right < 0 || p.Right >= numItems {
				continue
			}
			left, right := vecs[p.Left], vecs[p.Right]

			var dot float64
			for d := 0; d < dim; d++ {
				dot += float64(left[d]) * float64(right[d])
			}
			pred := 1 / (1 + math.Exp(-dot))
			grad := float32(lr * (pred - float64(p.Label)))

			for d := 0; d < dim; d++ {
				l, r := left[d], right[d]
				left[d] = l - grad*r
				right[d] = r - grad*l
			}
		}
	}

	return vecs, nil
}
