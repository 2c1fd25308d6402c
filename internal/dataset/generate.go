package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/hearthside/cartfill/internal/domain"
)

// GenerateConfig controls synthetic dataset generation.
type GenerateConfig struct {
	Customers int   // number of customers (default 150)
	Days      int   // purchase history window in days (default 120)
	Seed      int64 // RNG seed (default 7)
	Now       time.Time
}

func (c *GenerateConfig) applyDefaults() {
	if c.Customers <= 0 {
		c.Customers = 150
	}
	if c.Days <= 0 {
		c.Days = 120
	}
	if c.Seed == 0 {
		c.Seed = 7
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
}

var (
	firstNames = []string{
		"Olivia", "Liam", "Emma", "Noah", "Ava", "Sophia", "Elijah", "Isabella", "Lucas", "Mia",
		"Mason", "Charlotte", "Ethan", "Amelia", "James", "Harper", "Benjamin", "Evelyn", "Henry", "Abigail",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
	streets = []string{"Oak", "Maple", "Pine", "Cedar", "Elm", "Willow", "Birch", "Walnut", "Chestnut", "Spruce"}
	cities  = []string{"Cleveland", "Akron", "Parma", "Mentor", "Medina", "Strongsville", "Lakewood", "Euclid", "Lorain", "Brunswick"}
	zips    = []string{"44101", "44102", "44103", "44104", "44105", "44106", "44107", "44108", "44109", "44110"}
)

// Generate produces a deterministic synthetic dataset: customers, purchase
// sessions biased toward curated complements, and two invoices per customer.
func Generate(cfg GenerateConfig) *Data {
	cfg.applyDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	catalog := BuildCatalog()

	customers := makeCustomers(rng, cfg.Customers)
	purchases := makePurchases(rng, customers, catalog, cfg)
	invoices, invoiceItems := makeInvoices(rng, customers, catalog, cfg)

	return &Data{
		Customers:    customers,
		Purchases:    purchases,
		Invoices:     invoices,
		InvoiceItems: invoiceItems,
		Catalog:      catalog,
	}
}

func makeCustomers(rng *rand.Rand, n int) []domain.Customer {
	customers := make([]domain.Customer, 0, n)
	for i := 1; i <= n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		name := first + " " + last
		addr := fmt.Sprintf("%d %s St, %s, OH %s",
			100+rng.Intn(9900), streets[rng.Intn(len(streets))],
			cities[rng.Intn(len(cities))], zips[rng.Intn(len(zips))])
		phone := fmt.Sprintf("(%d) %d-%d", 216+rng.Intn(225), 200+rng.Intn(800), 1000+rng.Intn(9000))
		customers = append(customers, domain.Customer{
			ID:      fmt.Sprintf("C%04d", i),
			Name:    name,
			Address: addr,
			Phone:   phone,
			Email:   emailFor(first, last),
		})
	}
	return customers
}

func emailFor(first, last string) string {
	return fmt.Sprintf("%s.%s@example.com", lower(first), lower(last))
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// makePurchases creates 2-7 sessions per customer. Each session has one main
// item, 0-3 complement-biased add-ons, and an occasional service plan.
func makePurchases(rng *rand.Rand, customers []domain.Customer, catalog *domain.Catalog, cfg GenerateConfig) []domain.Purchase {
	start := cfg.Now.AddDate(0, 0, -cfg.Days)
	mains := catalog.MainProductList()

	var purchases []domain.Purchase
	for _, c := range customers {
		numOrders := 2 + rng.Intn(6)
		offsets := make([]int, numOrders)
		for i := range offsets {
			offsets[i] = rng.Intn(cfg.Days + 1)
		}
		sort.Ints(offsets)

		for _, off := range offsets {
			date := start.AddDate(0, 0, off).Format("2006-01-02")
			main := mains[rng.Intn(len(mains))]
			purchases = append(purchases, domain.Purchase{CustomerID: c.ID, Date: date, Item: main})

			for k := rng.Intn(4); k > 0; k-- {
				comp := biasedPick(rng, catalog, main)
				purchases = append(purchases, domain.Purchase{CustomerID: c.ID, Date: date, Item: comp})
			}
			if rng.Float64() < 0.25 {
				purchases = append(purchases, domain.Purchase{CustomerID: c.ID, Date: date, Item: servicePlanItem})
			}
		}
	}
	return purchases
}

// biasedPick draws one item from the full catalog, weighting the anchor's
// curated complements 4x and the anchor itself 0.2x.
func biasedPick(rng *rand.Rand, catalog *domain.Catalog, anchor string) string {
	anchorComps := make(map[string]bool)
	for _, c := range catalog.ComplementsOf(anchor) {
		anchorComps[c] = true
	}

	weights := make([]float64, len(catalog.Items))
	var total float64
	for i, item := range catalog.Items {
		w := 1.0
		if anchorComps[item] {
			w = 4.0
		}
		if item == anchor {
			w = 0.2
		}
		weights[i] = w
		total += w
	}

	pick := rng.Float64() * total
	var cum float64
	for i, item := range catalog.Items {
		cum += weights[i]
		if pick <= cum {
			return item
		}
	}
	return catalog.Items[len(catalog.Items)-1]
}

// makeInvoices creates two historical invoices per customer: 1-2 mains, a few
// of their complements, sometimes a service plan, totaled from list prices.
func makeInvoices(rng *rand.Rand, customers []domain.Customer, catalog *domain.Catalog, cfg GenerateConfig) ([]domain.Invoice, []domain.InvoiceItem) {
	start := cfg.Now.AddDate(0, 0, -cfg.Days)
	mains := catalog.MainProductList()

	var invoices []domain.Invoice
	var lines []domain.InvoiceItem
	for _, c := range customers {
		for n := 0; n < 2; n++ {
			date := start.AddDate(0, 0, rng.Intn(cfg.Days)).Format("2006-01-02")

			numMains := 1
			if rng.Intn(3) == 2 {
				numMains = 2
			}
			itemSet := make(map[string]struct{})
			picked := rng.Perm(len(mains))[:numMains]
			for _, pi := range picked {
				m := mains[pi]
				itemSet[m] = struct{}{}
				comps := catalog.ComplementsOf(m)
				if len(comps) == 0 {
					continue
				}
				for j := 1 + rng.Intn(3); j > 0; j-- {
					itemSet[comps[rng.Intn(len(comps))]] = struct{}{}
				}
			}
			if rng.Float64() < 0.35 {
				itemSet[servicePlanItem] = struct{}{}
			}

			items := make([]string, 0, len(itemSet))
			for it := range itemSet {
				items = append(items, it)
			}
			sort.Strings(items)

			var total float64
			for _, it := range items {
				if p := catalog.Price(it); p > 0 {
					total += p
				} else {
					total += 29
				}
			}

			invID := fmt.Sprintf("INV-%s-%d", c.ID, n+1)
			invoices = append(invoices, domain.Invoice{ID: invID, CustomerID: c.ID, Date: date, Total: total})
			for _, it := range items {
				lines = append(lines, domain.InvoiceItem{InvoiceID: invID, Item: it})
			}
		}
	}
	return invoices, lines
}
