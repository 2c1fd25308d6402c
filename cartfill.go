// Package cartfill embeds the complementary-product recommendation engine
// in-process, without the HTTP layer. Open wires the dataset and artifact
// stores under a data directory, bootstraps on first use, and serves ranked
// suggestions.
//
//	client, err := cartfill.Open(ctx, cartfill.WithDataDir("./data"))
//	if err != nil { ... }
//	recs, err := client.SuggestForItem(ctx, "Grill", 5)
package cartfill

import (
	"context"

	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/artifact"
	"github.com/hearthside/cartfill/internal/config"
	"github.com/hearthside/cartfill/internal/dataset"
	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/embedding"
	"github.com/hearthside/cartfill/internal/engine"
)

// Suggestion is one ranked recommendation.
type Suggestion = domain.Suggestion

// Customer is one catalog customer record.
type Customer = domain.Customer

// Purchase is one point-of-sale line.
type Purchase = domain.Purchase

// InvoiceSummary is one invoice joined with its line items.
type InvoiceSummary = engine.InvoiceSummary

// Pair is one labeled training pair of item indexes.
type Pair = embedding.Pair

// Vectors is a row-major item embedding matrix.
type Vectors = domain.Vectors

// Trainer turns co-purchase pairs into item embeddings. Implement it to
// substitute the built-in trainer via WithTrainer.
type Trainer = engine.Trainer

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dataDir string
	logger  *zap.Logger
	trainer Trainer
	cfg     config.Config
}

// WithDataDir sets the directory holding the dataset and trained artifacts.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) { c.dataDir = dir })
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = logger })
}

// WithMiningThresholds overrides the rule-mining support and confidence gates.
func WithMiningThresholds(minSupport, minConfidence float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Mining.MinSupport = minSupport
		c.cfg.Mining.MinConfidence = minConfidence
	})
}

// WithSeed fixes the RNG seed for dataset generation and training.
func WithSeed(seed int64) Option {
	return optionFunc(func(c *clientConfig) { c.cfg.Embedding.Seed = seed })
}

// WithTrainer substitutes the embedding trainer.
func WithTrainer(t Trainer) Option {
	return optionFunc(func(c *clientConfig) { c.trainer = t })
}

// Client is the embedded recommender entry point.
type Client struct {
	engine *engine.Engine
}

// Open builds the engine over the configured data directory and bootstraps
// its artifacts, generating and training them when absent.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cc := clientConfig{dataDir: "data", logger: zap.NewNop()}
	cc.cfg.ApplyDefaults()
	for _, opt := range opts {
		opt.apply(&cc)
	}
	cc.cfg.Data.Dir = cc.dataDir

	trainer := cc.trainer
	if trainer == nil {
		trainer = &embedding.SGDTrainer{
			Dim:    cc.cfg.Embedding.Dim,
			Epochs: cc.cfg.Embedding.Epochs,
			Seed:   cc.cfg.Embedding.Seed,
		}
	}
	eng := engine.New(
		artifact.NewStore(cc.dataDir),
		dataset.NewStore(cc.dataDir),
		trainer,
		cc.cfg,
		cc.logger,
	)
	if err := eng.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return &Client{engine: eng}, nil
}

// SuggestForItem ranks complementary products for one anchor item.
// Empty for unknown items or items with no candidates.
func (c *Client) SuggestForItem(ctx context.Context, item string, topK int) ([]Suggestion, error) {
	return c.engine.SuggestForItem(ctx, item, topK)
}

// AdditionalRecommendations suggests main products matching the rooms of the
// customer's last two invoices.
func (c *Client) AdditionalRecommendations(ctx context.Context, customerID string, topK int) ([]Suggestion, error) {
	return c.engine.AdditionalRecommendations(ctx, customerID, topK)
}

// Customers lists every known customer.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	return c.engine.Customers(ctx)
}

// Customer returns one customer record or ErrCustomerNotFound.
func (c *Client) Customer(ctx context.Context, id string) (Customer, error) {
	return c.engine.Customer(ctx, id)
}

// CustomerHistory returns a customer's purchases in date order.
func (c *Client) CustomerHistory(ctx context.Context, id string) ([]Purchase, error) {
	return c.engine.CustomerHistory(ctx, id)
}

// RecentPurchase returns the customer's most recently purchased item.
func (c *Client) RecentPurchase(ctx context.Context, id string) (string, error) {
	return c.engine.RecentPurchase(ctx, id)
}

// RecentInvoices returns up to limit of the customer's newest invoices.
func (c *Client) RecentInvoices(ctx context.Context, id string, limit int) ([]InvoiceSummary, error) {
	return c.engine.RecentInvoices(ctx, id, limit)
}

// MainProducts returns the primary product list in sorted order.
func (c *Client) MainProducts(ctx context.Context) ([]string, error) {
	return c.engine.MainProducts(ctx)
}
