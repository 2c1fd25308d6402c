package engine

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/config"
	"github.com/hearthside/cartfill/internal/domain"
)

func zeroVectors(n, dim int) domain.Vectors {
	vecs := make(domain.Vectors, n)
	for i := range vecs {
		vecs[i] = make([]float32, dim)
	}
	return vecs
}

// engineWithSnapshot builds an engine pre-loaded with an in-memory snapshot,
// bypassing bootstrap entirely.
func engineWithSnapshot(snap *snapshot) *Engine {
	cfg := config.Config{}
	cfg.ApplyDefaults()
	e := &Engine{
		mining:   cfg.Mining,
		scoring:  cfg.Scoring,
		embedCfg: cfg.Embedding,
		log:      zap.NewNop(),
	}
	e.snap = snap
	return e
}

// grillSnapshot: Grill and Smoker are mains, Grill Cover is Grill's curated
// complement with no mined rule, Tongs and Charcoal are mined associations.
// All vectors are zero so similarity contributes a flat 0.5 after rescaling.
func grillSnapshot() *snapshot {
	catalog := &domain.Catalog{
		Items:        []string{"Charcoal", "Grill", "Grill Cover", "Smoker", "Tongs"},
		MainProducts: map[string]bool{"Grill": true, "Smoker": true},
		Complements:  map[string][]string{"Grill": {"Grill Cover"}},
		Rooms:        map[string]string{"Grill": "Outdoor", "Smoker": "Outdoor"},
		Prices:       map[string]float64{},
	}
	index := domain.NewItemIndex(catalog.Items)

	rules := domain.RuleTable{}
	rules.Put("Grill", "Tongs", domain.Rule{Support: 0.03, Confidence: 0.5})
	rules.Put("Grill", "Smoker", domain.Rule{Support: 0.03, Confidence: 0.4})
	rules.Put("Grill", "Charcoal", domain.Rule{Support: 0.03, Confidence: 0.2})

	return &snapshot{
		rules:   rules,
		index:   index,
		vecs:    zeroVectors(index.Len(), 4),
		catalog: catalog,
	}
}

func TestSuggestForItem_RankingAndAdmission(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())

	got, err := e.SuggestForItem(context.Background(), "Grill", 10)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}

	// Smoker is a strong association but a non-whitelisted main product.
	for _, s := range got {
		if s.Item == "Smoker" {
			t.Error("non-whitelisted main product admitted")
		}
		if s.Item == "Grill" {
			t.Error("anchor suggested to itself")
		}
	}

	wantOrder := []string{"Tongs", "Charcoal", "Grill Cover"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d suggestions, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, want := range wantOrder {
		if got[i].Item != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].Item, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending at %d: %g > %g", i, got[i].Score, got[i-1].Score)
		}
	}

	// Tongs holds the max confidence, so its normalized confidence is 1.
	if got[0].Score != 0.85 {
		t.Errorf("Tongs score = %g, want 0.85", got[0].Score)
	}
}

func TestSuggestForItem_DisplayFloorsAfterScoring(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())

	got, err := e.SuggestForItem(context.Background(), "Grill", 10)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}

	var cover domain.Suggestion
	for _, s := range got {
		if s.Item == "Grill Cover" {
			cover = s
		}
	}
	if cover.Item == "" {
		t.Fatal("curated complement not admitted")
	}
	// Reported values are floored.
	if cover.Probability != 0.22 || cover.Support != 0.04 {
		t.Errorf("floored display = %g/%g, want 0.22/0.04", cover.Probability, cover.Support)
	}
	// The rank score still reflects the unfloored zero confidence:
	// 0.7*0 + 0.3*(0+1)/2 = 0.15.
	if cover.Score != 0.15 {
		t.Errorf("score = %g, want 0.15 (floor must not enter the ranking)", cover.Score)
	}
}

func TestSuggestForItem_WhitelistedMainAdmitted(t *testing.T) {
	snap := grillSnapshot()
	snap.catalog.Complements["Grill"] = []string{"Grill Cover", "Smoker"}
	e := engineWithSnapshot(snap)

	got, err := e.SuggestForItem(context.Background(), "Grill", 10)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	found := false
	for _, s := range got {
		if s.Item == "Smoker" {
			found = true
		}
	}
	if !found {
		t.Error("whitelisted main product should be admitted")
	}
}

func TestSuggestForItem_TopKTruncation(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())
	got, err := e.SuggestForItem(context.Background(), "Grill", 2)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].Item != "Tongs" || got[1].Item != "Charcoal" {
		t.Errorf("truncation kept %s/%s, want Tongs/Charcoal", got[0].Item, got[1].Item)
	}
}

func TestSuggestForItem_UnknownItem(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())
	got, err := e.SuggestForItem(context.Background(), "Flux Capacitor", 5)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown item returned %v, want empty", got)
	}
}

func TestSuggestForItem_NoCandidates(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())
	// Charcoal has no whitelist and no outgoing rules.
	got, err := e.SuggestForItem(context.Background(), "Charcoal", 5)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("item without relationships returned %v, want empty", got)
	}
}

func TestSuggestForItem_Idempotent(t *testing.T) {
	e := engineWithSnapshot(grillSnapshot())
	first, err := e.SuggestForItem(context.Background(), "Grill", 5)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := e.SuggestForItem(context.Background(), "Grill", 5)
		if err != nil {
			t.Fatalf("SuggestForItem: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
