package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/engine"
	"github.com/hearthside/cartfill/internal/insights"
)

type mockRecommender struct {
	suggestions []domain.Suggestion
	err         error
	lastItem    string
	lastCust    string
	lastK       int
}

func (m *mockRecommender) SuggestForItem(_ context.Context, item string, topK int) ([]domain.Suggestion, error) {
	m.lastItem, m.lastK = item, topK
	return m.suggestions, m.err
}

func (m *mockRecommender) AdditionalRecommendations(_ context.Context, customerID string, topK int) ([]domain.Suggestion, error) {
	m.lastCust, m.lastK = customerID, topK
	return m.suggestions, m.err
}

type mockDirectory struct {
	customers []domain.Customer
	history   []domain.Purchase
	invoices  []engine.InvoiceSummary
	recent    string
	mains     []string
	err       error
}

func (m *mockDirectory) Customers(_ context.Context) ([]domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockDirectory) Customer(_ context.Context, id string) (domain.Customer, error) {
	if m.err != nil {
		return domain.Customer{}, m.err
	}
	for _, c := range m.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrCustomerNotFound
}

func (m *mockDirectory) CustomerHistory(_ context.Context, _ string) ([]domain.Purchase, error) {
	return m.history, m.err
}

func (m *mockDirectory) RecentPurchase(_ context.Context, _ string) (string, error) {
	return m.recent, m.err
}

func (m *mockDirectory) RecentInvoices(_ context.Context, _ string, _ int) ([]engine.InvoiceSummary, error) {
	return m.invoices, m.err
}

func (m *mockDirectory) MainProducts(_ context.Context) ([]string, error) {
	return m.mains, m.err
}

type mockInsights struct {
	available bool
	text      string
	err       error
}

func (m *mockInsights) Available() bool { return m.available }

func (m *mockInsights) ExplainSuggestions(_ context.Context, _ []string, _ []domain.Suggestion) (string, error) {
	return m.text, m.err
}

func (m *mockInsights) CustomerInsights(_ context.Context, _ domain.Customer, _ []string, _ []insights.InvoiceContext) (string, error) {
	return m.text, m.err
}

func newTestServer(t *testing.T, rec *mockRecommender, dir *mockDirectory, ins *mockInsights) *httptest.Server {
	t.Helper()
	if rec == nil {
		rec = &mockRecommender{}
	}
	if dir == nil {
		dir = &mockDirectory{}
	}
	if ins == nil {
		ins = &mockInsights{available: true, text: "generated"}
	}
	srv := NewServer(rec, dir, ins, zap.NewNop())
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
