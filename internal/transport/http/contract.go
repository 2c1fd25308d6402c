package http

import (
	"context"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/engine"
	"github.com/hearthside/cartfill/internal/insights"
)

// Recommender serves the two ranked entry points.
type Recommender interface {
	SuggestForItem(ctx context.Context, item string, topK int) ([]domain.Suggestion, error)
	AdditionalRecommendations(ctx context.Context, customerID string, topK int) ([]domain.Suggestion, error)
}

// Directory answers customer and catalog lookups.
type Directory interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
	Customer(ctx context.Context, id string) (domain.Customer, error)
	CustomerHistory(ctx context.Context, id string) ([]domain.Purchase, error)
	RecentPurchase(ctx context.Context, id string) (string, error)
	RecentInvoices(ctx context.Context, id string, limit int) ([]engine.InvoiceSummary, error)
	MainProducts(ctx context.Context) ([]string, error)
}

// InsightsGenerator produces natural-language commentary, when configured.
type InsightsGenerator interface {
	Available() bool
	ExplainSuggestions(ctx context.Context, selected []string, recs []domain.Suggestion) (string, error)
	CustomerInsights(ctx context.Context, customer domain.Customer, history []string, invoices []insights.InvoiceContext) (string, error)
}
