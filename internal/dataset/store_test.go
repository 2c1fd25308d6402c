package dataset

import (
	"errors"
	"testing"

	"github.com/hearthside/cartfill/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if missing := store.Missing(); len(missing) != len(requiredFiles) {
		t.Fatalf("empty dir should miss all %d files, got %d", len(requiredFiles), len(missing))
	}

	data := &Data{
		Customers: []domain.Customer{
			{ID: "C0001", Name: "Ada Miller", Address: "12 Oak St, Akron, OH 44101", Phone: "(216) 555-0101", Email: "ada.miller@example.com"},
		},
		Purchases: []domain.Purchase{
			{CustomerID: "C0001", Date: "2026-07-01", Item: "Washer"},
			{CustomerID: "C0001", Date: "2026-07-01", Item: "Washer Hoses"},
		},
		Invoices: []domain.Invoice{
			{ID: "INV-C0001-1", CustomerID: "C0001", Date: "2026-06-15", Total: 928.00},
		},
		InvoiceItems: []domain.InvoiceItem{
			{InvoiceID: "INV-C0001-1", Item: "Washer"},
			{InvoiceID: "INV-C0001-1", Item: "Washer Hoses"},
		},
		Catalog: BuildCatalog(),
	}

	if err := store.WriteAll(data); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if missing := store.Missing(); len(missing) != 0 {
		t.Fatalf("expected no missing files after WriteAll, got %v", missing)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded.Customers) != 1 || loaded.Customers[0].Name != "Ada Miller" {
		t.Errorf("customers did not round-trip: %+v", loaded.Customers)
	}
	if len(loaded.Purchases) != 2 || loaded.Purchases[1].Item != "Washer Hoses" {
		t.Errorf("purchases did not round-trip: %+v", loaded.Purchases)
	}
	if len(loaded.Invoices) != 1 || loaded.Invoices[0].Total != 928.00 {
		t.Errorf("invoices did not round-trip: %+v", loaded.Invoices)
	}
	if len(loaded.InvoiceItems) != 2 {
		t.Errorf("invoice items did not round-trip: %+v", loaded.InvoiceItems)
	}
	if !loaded.Catalog.IsMain("Washer") {
		t.Error("catalog main set did not round-trip")
	}
	if room, ok := loaded.Catalog.Room("Washer"); !ok || room != "Laundry" {
		t.Errorf("catalog rooms did not round-trip: %q %v", room, ok)
	}
}

func TestLoadMissingFileIsArtifactMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.LoadPurchases()
	if !errors.Is(err, domain.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}
