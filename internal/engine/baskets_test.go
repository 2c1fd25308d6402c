package engine

import (
	"reflect"
	"testing"

	"github.com/hearthside/cartfill/internal/domain"
)

func TestExtractBaskets_GroupsAndDedupes(t *testing.T) {
	purchases := []domain.Purchase{
		{CustomerID: "C1", Date: "2026-01-05", Item: "Drill"},
		{CustomerID: "C1", Date: "2026-01-05", Item: "Drill Bits"},
		{CustomerID: "C1", Date: "2026-01-05", Item: "Drill"}, // duplicate line
		{CustomerID: "C1", Date: "2026-01-09", Item: "Saw"},
		{CustomerID: "C2", Date: "2026-01-05", Item: "Sander"},
	}
	items := []domain.InvoiceItem{
		{InvoiceID: "INV-1", Item: "Grill"},
		{InvoiceID: "INV-1", Item: "Tongs"},
		{InvoiceID: "INV-2", Item: "Grill"},
	}

	got := ExtractBaskets(purchases, items)
	want := []domain.Basket{
		{"Drill", "Drill Bits"},
		{"Saw"},
		{"Sander"},
		{"Grill", "Tongs"},
		{"Grill"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractBaskets = %v, want %v", got, want)
	}
}

func TestExtractBaskets_KeepsSingleItemBaskets(t *testing.T) {
	got := ExtractBaskets([]domain.Purchase{{CustomerID: "C1", Date: "2026-02-01", Item: "Mower"}}, nil)
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("single-item basket dropped: %v", got)
	}
}

func TestExtractBaskets_Deterministic(t *testing.T) {
	purchases := []domain.Purchase{
		{CustomerID: "C3", Date: "2026-03-01", Item: "Hose"},
		{CustomerID: "C1", Date: "2026-03-02", Item: "Rake"},
		{CustomerID: "C2", Date: "2026-03-01", Item: "Shovel"},
		{CustomerID: "C1", Date: "2026-03-02", Item: "Gloves"},
	}
	first := ExtractBaskets(purchases, nil)
	for i := 0; i < 20; i++ {
		if got := ExtractBaskets(purchases, nil); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}
