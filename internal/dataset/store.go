// Package dataset reads and writes the transaction snapshot backing the
// recommendation engine: purchase/invoice CSVs plus the curated catalog maps.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hearthside/cartfill/internal/domain"
)

// File names inside the data directory.
const (
	customersFile    = "customers.csv"
	purchasesFile    = "purchases.csv"
	invoicesFile     = "invoices.csv"
	invoiceItemsFile = "invoice_items.csv"
	complementsFile  = "complements.json"
	mainProductsFile = "main_products.json"
	roomsFile        = "rooms.json"
	pricesFile       = "prices.json"
	productsFile     = "products.json"
)

var requiredFiles = []string{
	customersFile, purchasesFile, invoicesFile, invoiceItemsFile,
	complementsFile, mainProductsFile, roomsFile, pricesFile, productsFile,
}

// Data aggregates everything one generation pass produces.
type Data struct {
	Customers    []domain.Customer
	Purchases    []domain.Purchase
	Invoices     []domain.Invoice
	InvoiceItems []domain.InvoiceItem
	Catalog      *domain.Catalog
}

// Store reads and writes dataset files under a single directory.
type Store struct {
	dir string
}

// NewStore creates a dataset store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Missing returns the names of required dataset files absent from the data
// directory. An empty result means the dataset is complete.
func (s *Store) Missing() []string {
	var missing []string
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// WriteAll persists a full dataset, creating the directory if needed.
func (s *Store) WriteAll(d *Data) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := s.writeCustomers(d.Customers); err != nil {
		return err
	}
	if err := s.writePurchases(d.Purchases); err != nil {
		return err
	}
	if err := s.writeInvoices(d.Invoices); err != nil {
		return err
	}
	if err := s.writeInvoiceItems(d.InvoiceItems); err != nil {
		return err
	}
	return s.writeCatalog(d.Catalog)
}

// LoadAll reads a full dataset from disk.
func (s *Store) LoadAll() (*Data, error) {
	customers, err := s.LoadCustomers()
	if err != nil {
		return nil, err
	}
	purchases, err := s.LoadPurchases()
	if err != nil {
		return nil, err
	}
	invoices, err := s.LoadInvoices()
	if err != nil {
		return nil, err
	}
	items, err := s.LoadInvoiceItems()
	if err != nil {
		return nil, err
	}
	catalog, err := s.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return &Data{
		Customers:    customers,
		Purchases:    purchases,
		Invoices:     invoices,
		InvoiceItems: items,
		Catalog:      catalog,
	}, nil
}

// LoadCustomers reads customers.csv.
func (s *Store) LoadCustomers() ([]domain.Customer, error) {
	rows, err := s.readCSV(customersFile, 5)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		customers = append(customers, domain.Customer{
			ID: r[0], Name: r[1], Address: r[2], Phone: r[3], Email: r[4],
		})
	}
	return customers, nil
}

// LoadPurchases reads purchases.csv.
func (s *Store) LoadPurchases() ([]domain.Purchase, error) {
	rows, err := s.readCSV(purchasesFile, 3)
	if err != nil {
		return nil, err
	}
	purchases := make([]domain.Purchase, 0, len(rows))
	for _, r := range rows {
		purchases = append(purchases, domain.Purchase{CustomerID: r[0], Date: r[1], Item: r[2]})
	}
	return purchases, nil
}

// LoadInvoices reads invoices.csv.
func (s *Store) LoadInvoices() ([]domain.Invoice, error) {
	rows, err := s.readCSV(invoicesFile, 4)
	if err != nil {
		return nil, err
	}
	invoices := make([]domain.Invoice, 0, len(rows))
	for _, r := range rows {
		total, err := strconv.ParseFloat(r[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid total %q: %w", invoicesFile, r[3], domain.ErrArtifactCorrupt)
		}
		invoices = append(invoices, domain.Invoice{ID: r[0], CustomerID: r[1], Date: r[2], Total: total})
	}
	return invoices, nil
}

// LoadInvoiceItems reads invoice_items.csv.
func (s *Store) LoadInvoiceItems() ([]domain.InvoiceItem, error) {
	rows, err := s.readCSV(invoiceItemsFile, 2)
	if err != nil {
		return nil, err
	}
	items := make([]domain.InvoiceItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.InvoiceItem{InvoiceID: r[0], Item: r[1]})
	}
	return items, nil
}

// LoadCatalog reads the curated catalog maps.
func (s *Store) LoadCatalog() (*domain.Catalog, error) {
	var items []string
	if err := s.readJSON(productsFile, &items); err != nil {
		return nil, err
	}
	var mains []string
	if err := s.readJSON(mainProductsFile, &mains); err != nil {
		return nil, err
	}
	catalog := &domain.Catalog{
		Items:        items,
		MainProducts: make(map[string]bool, len(mains)),
	}
	for _, m := range mains {
		catalog.MainProducts[m] = true
	}
	if err := s.readJSON(complementsFile, &catalog.Complements); err != nil {
		return nil, err
	}
	if err := s.readJSON(roomsFile, &catalog.Rooms); err != nil {
		return nil, err
	}
	if err := s.readJSON(pricesFile, &catalog.Prices); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *Store) writeCustomers(customers []domain.Customer) error {
	records := [][]string{{"customer_id", "name", "address", "phone", "email"}}
	for _, c := range customers {
		records = append(records, []string{c.ID, c.Name, c.Address, c.Phone, c.Email})
	}
	return s.writeCSV(customersFile, records)
}

func (s *Store) writePurchases(purchases []domain.Purchase) error {
	records := [][]string{{"customer_id", "date", "item"}}
	for _, p := range purchases {
		records = append(records, []string{p.CustomerID, p.Date, p.Item})
	}
	return s.writeCSV(purchasesFile, records)
}

func (s *Store) writeInvoices(invoices []domain.Invoice) error {
	records := [][]string{{"invoice_id", "customer_id", "date", "total"}}
	for _, inv := range invoices {
		records = append(records, []string{
			inv.ID, inv.CustomerID, inv.Date, strconv.FormatFloat(inv.Total, 'f', 2, 64),
		})
	}
	return s.writeCSV(invoicesFile, records)
}

func (s *Store) writeInvoiceItems(items []domain.InvoiceItem) error {
	records := [][]string{{"invoice_id", "item"}}
	for _, it := range items {
		records = append(records, []string{it.InvoiceID, it.Item})
	}
	return s.writeCSV(invoiceItemsFile, records)
}

func (s *Store) writeCatalog(catalog *domain.Catalog) error {
	mains := catalog.MainProductList()
	if err := s.writeJSON(productsFile, catalog.Items); err != nil {
		return err
	}
	if err := s.writeJSON(mainProductsFile, mains); err != nil {
		return err
	}
	if err := s.writeJSON(complementsFile, catalog.Complements); err != nil {
		return err
	}
	if err := s.writeJSON(roomsFile, catalog.Rooms); err != nil {
		return err
	}
	return s.writeJSON(pricesFile, catalog.Prices)
}

func (s *Store) readCSV(name string, wantCols int) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrArtifactMissing)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantCols
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, domain.ErrArtifactCorrupt, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header: %w", name, domain.ErrArtifactCorrupt)
	}
	return records[1:], nil // skip header
}

func (s *Store) writeCSV(name string, records [][]string) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, domain.ErrArtifactMissing)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w: %w", name, domain.ErrArtifactCorrupt, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
