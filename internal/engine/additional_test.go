package engine

import (
	"context"
	"testing"

	"github.com/hearthside/cartfill/internal/domain"
)

// customerSnapshot: C1's last two invoices cover the Outdoor and Garden
// rooms. Smoker (Outdoor, mined rule from Grill) and Mower (Garden, nothing
// mined) are the open mains; Dishwasher's Kitchen room only appears on an
// older third invoice and must not count.
func customerSnapshot() *snapshot {
	catalog := &domain.Catalog{
		Items: []string{"Dishwasher", "Grill", "Hose", "Mower", "Smoker", "Tongs"},
		MainProducts: map[string]bool{
			"Dishwasher": true, "Grill": true, "Mower": true, "Smoker": true,
		},
		Complements: map[string][]string{},
		Rooms: map[string]string{
			"Dishwasher": "Kitchen",
			"Grill":      "Outdoor",
			"Hose":       "Garden",
			"Mower":      "Garden",
			"Smoker":     "Outdoor",
			"Tongs":      "Outdoor",
		},
		Prices: map[string]float64{},
	}
	index := domain.NewItemIndex(catalog.Items)

	rules := domain.RuleTable{}
	rules.Put("Grill", "Smoker", domain.Rule{Support: 0.04, Confidence: 0.3})

	return &snapshot{
		rules:   rules,
		index:   index,
		vecs:    zeroVectors(index.Len(), 4),
		catalog: catalog,
		invoicesByCustomer: map[string][]domain.Invoice{
			"C1": {
				{ID: "INV-3", CustomerID: "C1", Date: "2026-05-10"},
				{ID: "INV-2", CustomerID: "C1", Date: "2026-05-01"},
				{ID: "INV-1", CustomerID: "C1", Date: "2026-04-01"},
			},
			"C2": {
				{ID: "INV-4", CustomerID: "C2", Date: "2026-05-12"},
			},
		},
		linesByInvoice: map[string][]string{
			"INV-3": {"Grill", "Tongs"},
			"INV-2": {"Hose"},
			"INV-1": {"Dishwasher"},
			"INV-4": {"Mystery Gadget"}, // no room assigned
		},
	}
}

func TestAdditionalRecommendations_RoomOverlap(t *testing.T) {
	e := engineWithSnapshot(customerSnapshot())

	got, err := e.AdditionalRecommendations(context.Background(), "C1", 8)
	if err != nil {
		t.Fatalf("AdditionalRecommendations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}

	// Smoker: max confidence 0.3 from Grill, score 0.7*0.3 + 0.3*0.5 = 0.36.
	if got[0].Item != "Smoker" || got[0].Score != 0.36 {
		t.Errorf("first = %s/%g, want Smoker/0.36", got[0].Item, got[0].Score)
	}
	if got[0].Probability != 0.3 || got[0].Support != 0.04 {
		t.Errorf("Smoker reported %g/%g, want mined 0.3/0.04", got[0].Probability, got[0].Support)
	}
	if got[0].Room != "Outdoor" {
		t.Errorf("Smoker room = %q, want Outdoor", got[0].Room)
	}

	// Mower has no mined signal: floors 0.2/0.05 go in before scoring,
	// so score = 0.7*0.2 + 0.3*0.5 = 0.29.
	if got[1].Item != "Mower" || got[1].Score != 0.29 {
		t.Errorf("second = %s/%g, want Mower/0.29", got[1].Item, got[1].Score)
	}
	if got[1].Probability != 0.2 || got[1].Support != 0.05 {
		t.Errorf("Mower reported %g/%g, want floors 0.2/0.05", got[1].Probability, got[1].Support)
	}

	// Dishwasher's Kitchen room appears only on the third-newest invoice.
	for _, s := range got {
		if s.Item == "Dishwasher" {
			t.Error("room from an invoice older than the last two leaked in")
		}
		if s.Item == "Grill" {
			t.Error("already-bought main recommended")
		}
	}
}

func TestAdditionalRecommendations_NoInvoices(t *testing.T) {
	e := engineWithSnapshot(customerSnapshot())
	got, err := e.AdditionalRecommendations(context.Background(), "C-unknown", 8)
	if err != nil {
		t.Fatalf("AdditionalRecommendations: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("customer without invoices returned %v, want empty", got)
	}
}

func TestAdditionalRecommendations_RoomlessInvoices(t *testing.T) {
	e := engineWithSnapshot(customerSnapshot())
	got, err := e.AdditionalRecommendations(context.Background(), "C2", 8)
	if err != nil {
		t.Fatalf("AdditionalRecommendations: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("roomless bought set returned %v, want empty", got)
	}
}

func TestAdditionalRecommendations_TopK(t *testing.T) {
	e := engineWithSnapshot(customerSnapshot())
	got, err := e.AdditionalRecommendations(context.Background(), "C1", 1)
	if err != nil {
		t.Fatalf("AdditionalRecommendations: %v", err)
	}
	if len(got) != 1 || got[0].Item != "Smoker" {
		t.Fatalf("topK=1 got %+v, want just Smoker", got)
	}
}
