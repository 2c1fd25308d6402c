package engine

import (
	"context"
	"sort"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/metrics"
)

// defaultRoom labels candidates whose item has no assigned room.
const defaultRoom = "General"

// AdditionalRecommendations suggests main products for rooms already
// represented in the customer's last two invoices.
//
// The bought set is the union of those invoices' line items; candidates are
// main products not yet bought whose room appears among the bought items'
// rooms. Each candidate scores on the maximum confidence and support of any
// bought item toward it plus the mean embedding cosine against the bought
// set. Zero confidence or support is floored before scoring here, unlike the
// per-item path. Customers with no invoices, or whose recent items carry no
// room, get an empty list.
func (e *Engine) AdditionalRecommendations(ctx context.Context, customerID string, topK int) ([]domain.Suggestion, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}

	invs := s.invoicesByCustomer[customerID]
	if len(invs) > 2 {
		invs = invs[:2]
	}
	boughtSet := make(map[string]bool)
	for _, inv := range invs {
		for _, item := range s.linesByInvoice[inv.ID] {
			boughtSet[item] = true
		}
	}
	bought := make([]string, 0, len(boughtSet))
	for item := range boughtSet {
		bought = append(bought, item)
	}
	sort.Strings(bought)

	usedRooms := make(map[string]bool)
	for _, item := range bought {
		if room, ok := s.catalog.Room(item); ok && room != "" {
			usedRooms[room] = true
		}
	}

	var candidates []string
	for _, m := range s.catalog.MainProductList() {
		if boughtSet[m] {
			continue
		}
		if room, ok := s.catalog.Room(m); ok && usedRooms[room] {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		metrics.RecommendRequestsTotal.WithLabelValues("customer", "empty").Inc()
		metrics.CandidateSetSize.WithLabelValues("customer").Observe(0)
		return []domain.Suggestion{}, nil
	}

	results := make([]domain.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		var maxConf, maxSup float64
		var simSum float64
		var simN int
		cIdx, cKnown := s.index.Index(c)
		for _, b := range bought {
			r := s.rules.Lookup(b, c)
			if r.Confidence > maxConf {
				maxConf = r.Confidence
			}
			if r.Support > maxSup {
				maxSup = r.Support
			}
			if bIdx, ok := s.index.Index(b); ok && cKnown {
				simSum += Cosine(s.vecs.At(bIdx), s.vecs.At(cIdx))
				simN++
			}
		}
		var avgSim float64
		if simN > 0 {
			avgSim = simSum / float64(simN)
		}

		// Floors go in before scoring on this path.
		if maxConf == 0 {
			maxConf = e.scoring.CustomerFloorConfidence
		}
		if maxSup == 0 {
			maxSup = e.scoring.CustomerFloorSupport
		}

		score := e.scoring.ConfidenceWeight*maxConf + e.scoring.SimilarityWeight*(avgSim+1)/2

		room, ok := s.catalog.Room(c)
		if !ok || room == "" {
			room = defaultRoom
		}
		results = append(results, domain.Suggestion{
			Item:        c,
			Probability: round3(maxConf),
			Similarity:  round3(avgSim),
			Score:       round3(score),
			Support:     round3(maxSup),
			Room:        room,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	metrics.RecommendRequestsTotal.WithLabelValues("customer", "ok").Inc()
	metrics.CandidateSetSize.WithLabelValues("customer").Observe(float64(len(candidates)))
	return results, nil
}
