// Package engine implements the recommendation core: basket extraction,
// association-rule mining, curated complement floors, candidate admission,
// and confidence/similarity score blending.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hearthside/cartfill/internal/config"
	"github.com/hearthside/cartfill/internal/dataset"
	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/embedding"
	"github.com/hearthside/cartfill/internal/metrics"
)

// snapshot is the read-only artifact state shared by all requests after
// bootstrap. Never mutated once published.
type snapshot struct {
	rules        domain.RuleTable
	index        *domain.ItemIndex
	vecs         domain.Vectors
	catalog      *domain.Catalog
	customers    []domain.Customer
	customerByID map[string]domain.Customer
	purchases    []domain.Purchase
	// invoices per customer, newest first; lines keyed by invoice id.
	invoicesByCustomer map[string][]domain.Invoice
	linesByInvoice     map[string][]string
}

// InvoiceSummary is one invoice joined with its line items.
type InvoiceSummary struct {
	ID    string   `json:"invoice_id"`
	Date  string   `json:"date"`
	Items []string `json:"items"`
	Total float64  `json:"total"`
}

// Engine serves ranked complementary-product suggestions. The first call to
// any method bootstraps the artifacts (generating the dataset and training if
// needed); concurrent first callers share a single bootstrap run and a failed
// run is retried by the next caller rather than latched as done.
type Engine struct {
	artifacts ArtifactStore
	data      DatasetStore
	trainer   Trainer
	generate  func() *dataset.Data
	mining    config.MiningConfig
	scoring   config.ScoringConfig
	embedCfg  config.EmbeddingConfig
	log       *zap.Logger

	mu     sync.RWMutex
	snap   *snapshot
	group  singleflight.Group
	regens atomic.Int64
}

// New creates an engine over the given stores and trainer.
func New(artifacts ArtifactStore, data DatasetStore, trainer Trainer, cfg config.Config, log *zap.Logger) *Engine {
	return &Engine{
		artifacts: artifacts,
		data:      data,
		trainer:   trainer,
		generate: func() *dataset.Data {
			return dataset.Generate(dataset.GenerateConfig{Seed: cfg.Embedding.Seed})
		},
		mining:   cfg.Mining,
		scoring:  cfg.Scoring,
		embedCfg: cfg.Embedding,
		log:      log,
	}
}

// WithGenerator overrides the synthetic dataset generator.
func (e *Engine) WithGenerator(gen func() *dataset.Data) *Engine {
	e.generate = gen
	return e
}

// Regenerations returns how many artifact regeneration passes have run.
func (e *Engine) Regenerations() int64 { return e.regens.Load() }

// Bootstrap forces artifact readiness up front instead of on first request.
func (e *Engine) Bootstrap(ctx context.Context) error {
	_, err := e.ready(ctx)
	return err
}

// ready returns the current snapshot, bootstrapping it on first use.
// Concurrent callers coalesce into one bootstrap attempt per flight.
func (e *Engine) ready(ctx context.Context) (*snapshot, error) {
	e.mu.RLock()
	s := e.snap
	e.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	v, err, _ := e.group.Do("bootstrap", func() (any, error) {
		e.mu.RLock()
		s := e.snap
		e.mu.RUnlock()
		if s != nil {
			return s, nil
		}
		s, err := e.bootstrap(ctx)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.snap = s
		e.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBootstrapFailed, err)
	}
	return v.(*snapshot), nil
}

// bootstrap regenerates whatever is missing and loads the full snapshot.
func (e *Engine) bootstrap(ctx context.Context) (*snapshot, error) {
	if missing := e.data.Missing(); len(missing) > 0 {
		e.log.Info("generating synthetic dataset", zap.Strings("missing", missing))
		if err := e.data.WriteAll(e.generate()); err != nil {
			return nil, fmt.Errorf("write dataset: %w", err)
		}
	}

	d, err := e.data.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	if missing := e.artifacts.Missing(); len(missing) > 0 {
		if err := e.regenerate(ctx, d, missing); err != nil {
			metrics.BootstrapRunsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.BootstrapRunsTotal.WithLabelValues("success").Inc()
	}

	rules, err := e.artifacts.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	index, vecs, err := e.artifacts.LoadEmbeddings()
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	return buildSnapshot(d, rules, index, vecs), nil
}

// regenerate runs the full offline pass: extract baskets, mine rules, raise
// curated floors, train embeddings, persist everything.
func (e *Engine) regenerate(ctx context.Context, d *dataset.Data, missing []string) error {
	start := time.Now()
	e.regens.Add(1)
	e.log.Info("regenerating artifacts", zap.Strings("missing", missing))

	baskets := ExtractBaskets(d.Purchases, d.InvoiceItems)
	rules := MineRules(baskets, e.mining.MinSupport, e.mining.MinConfidence)
	MergeComplementFloors(rules, d.Catalog.Complements, e.mining.FloorSupport, e.mining.FloorConfidence)

	index := domain.NewItemIndex(d.Catalog.Items)
	pairs := embedding.BuildPairs(baskets, index, e.embedCfg.MaxPairsPerBasket, e.embedCfg.Seed)
	vecs, err := e.trainer.Train(ctx, index.Len(), pairs)
	if err != nil {
		return fmt.Errorf("train embeddings: %w", err)
	}

	if err := e.artifacts.SaveRules(rules); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	if err := e.artifacts.SaveEmbeddings(index, vecs); err != nil {
		return fmt.Errorf("save embeddings: %w", err)
	}

	metrics.BootstrapDuration.Observe(time.Since(start).Seconds())
	e.log.Info("artifacts regenerated",
		zap.Int("baskets", len(baskets)),
		zap.Int("rule_sources", len(rules)),
		zap.Int("items", index.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

func buildSnapshot(d *dataset.Data, rules domain.RuleTable, index *domain.ItemIndex, vecs domain.Vectors) *snapshot {
	byID := make(map[string]domain.Customer, len(d.Customers))
	for _, c := range d.Customers {
		byID[c.ID] = c
	}

	invByCustomer := make(map[string][]domain.Invoice)
	for _, inv := range d.Invoices {
		invByCustomer[inv.CustomerID] = append(invByCustomer[inv.CustomerID], inv)
	}
	for _, invs := range invByCustomer {
		sort.SliceStable(invs, func(i, j int) bool { return invs[i].Date > invs[j].Date })
	}

	lines := make(map[string][]string)
	for _, li := range d.InvoiceItems {
		lines[li.InvoiceID] = append(lines[li.InvoiceID], li.Item)
	}

	return &snapshot{
		rules:              rules,
		index:              index,
		vecs:               vecs,
		catalog:            d.Catalog,
		customers:          d.Customers,
		customerByID:       byID,
		purchases:          d.Purchases,
		invoicesByCustomer: invByCustomer,
		linesByInvoice:     lines,
	}
}

// Customers lists every known customer.
func (e *Engine) Customers(ctx context.Context) ([]domain.Customer, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	return s.customers, nil
}

// Customer returns one customer record or ErrCustomerNotFound.
func (e *Engine) Customer(ctx context.Context, id string) (domain.Customer, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	c, ok := s.customerByID[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %q: %w", id, domain.ErrCustomerNotFound)
	}
	return c, nil
}

// CustomerHistory returns a customer's purchases in date order.
// Empty for unknown customers.
func (e *Engine) CustomerHistory(ctx context.Context, id string) ([]domain.Purchase, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	history := make([]domain.Purchase, 0)
	for _, p := range s.purchases {
		if p.CustomerID == id {
			history = append(history, p)
		}
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history, nil
}

// RecentPurchase returns the customer's most recently purchased item,
// or "" when the customer has no purchases.
func (e *Engine) RecentPurchase(ctx context.Context, id string) (string, error) {
	history, err := e.CustomerHistory(ctx, id)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", nil
	}
	return history[len(history)-1].Item, nil
}

// RecentInvoices returns up to limit of the customer's newest invoices with
// their line items.
func (e *Engine) RecentInvoices(ctx context.Context, id string, limit int) ([]InvoiceSummary, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	invs := s.invoicesByCustomer[id]
	if limit > 0 && len(invs) > limit {
		invs = invs[:limit]
	}
	out := make([]InvoiceSummary, 0, len(invs))
	for _, inv := range invs {
		out = append(out, InvoiceSummary{
			ID:    inv.ID,
			Date:  inv.Date,
			Items: s.linesByInvoice[inv.ID],
			Total: inv.Total,
		})
	}
	return out, nil
}

// MainProducts returns the primary product list in sorted order.
func (e *Engine) MainProducts(ctx context.Context) ([]string, error) {
	s, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.MainProductList(), nil
}
