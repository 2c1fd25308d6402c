package engine

import (
	"context"
	"math"
	"sort"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/metrics"
)

// SuggestForItem ranks complementary products for one anchor item.
//
// Admission: the anchor's curated complements are always eligible; rule-table
// targets are eligible when they clear the strong confidence and support
// gates; a strong target that is itself a main product is dropped unless
// curated. The anchor never suggests itself. Unknown items and items with no
// candidates return an empty list.
//
// Ranking blends the anchor->candidate confidence, normalized by the maximum
// raw confidence across the candidate set, with rescaled embedding cosine.
// Similarity only reorders admitted candidates; it never admits. A candidate
// admitted purely via the curated path reports floored probability/support so
// the caller never displays literal zeros, but the floors are applied after
// the score is computed and do not participate in normalization.
func (e *Engine) SuggestForItem(ctx context.Context, item string, topK int) ([]domain.Suggestion, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}

	srcIdx, ok := s.index.Index(item)
	if !ok {
		metrics.RecommendRequestsTotal.WithLabelValues("item", "empty").Inc()
		return []domain.Suggestion{}, nil
	}

	whitelist := make(map[string]bool)
	for _, c := range s.catalog.ComplementsOf(item) {
		whitelist[c] = true
	}

	admitted := make(map[string]bool)
	for c := range whitelist {
		admitted[c] = true
	}
	for target, r := range s.rules.Targets(item) {
		if r.Confidence >= e.scoring.StrongConfidenceMin && r.Support >= e.scoring.StrongSupportMin {
			if whitelist[target] || !s.catalog.IsMain(target) {
				admitted[target] = true
			}
		}
	}
	delete(admitted, item)

	if len(admitted) == 0 {
		metrics.RecommendRequestsTotal.WithLabelValues("item", "empty").Inc()
		metrics.CandidateSetSize.WithLabelValues("item").Observe(0)
		return []domain.Suggestion{}, nil
	}

	candidates := make([]string, 0, len(admitted))
	for c := range admitted {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	var maxConf float64
	for _, c := range candidates {
		if conf := s.rules.Lookup(item, c).Confidence; conf > maxConf {
			maxConf = conf
		}
	}

	srcVec := s.vecs.At(srcIdx)
	results := make([]domain.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		r := s.rules.Lookup(item, c)
		conf, sup := r.Confidence, r.Support

		var sim float64
		if cIdx, ok := s.index.Index(c); ok {
			sim = Cosine(srcVec, s.vecs.At(cIdx))
		}

		var confNorm float64
		if maxConf > 0 {
			confNorm = conf / maxConf
		}
		score := e.scoring.ConfidenceWeight*confNorm + e.scoring.SimilarityWeight*(sim+1)/2

		// Display floors for curated pairs the data never witnessed.
		// Applied after scoring so they affect what is shown, not the rank.
		if conf == 0 && sup == 0 {
			conf = e.scoring.ItemFloorConfidence
			sup = e.scoring.ItemFloorSupport
		}

		results = append(results, domain.Suggestion{
			Item:        c,
			Probability: round3(conf),
			Similarity:  round3(sim),
			Score:       round3(score),
			Support:     round3(sup),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	metrics.RecommendRequestsTotal.WithLabelValues("item", "ok").Inc()
	metrics.CandidateSetSize.WithLabelValues("item").Observe(float64(len(candidates)))
	return results, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
