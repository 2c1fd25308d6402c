// Package http exposes the recommendation engine over a chi-routed JSON API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/insights"
	"github.com/hearthside/cartfill/internal/metrics"
)

const (
	defaultSuggestK   = 5
	defaultCustomerK  = 8
	defaultInvoiceCap = 2
)

// Server holds the API handlers.
type Server struct {
	recommender Recommender
	directory   Directory
	insights    InsightsGenerator
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, directory Directory, gen InsightsGenerator, logger *zap.Logger) *Server {
	return &Server{
		recommender: recommender,
		directory:   directory,
		insights:    gen,
		logger:      logger,
	}
}

// Routes builds the full router including middleware and operational endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(requestIDMiddleware)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Route("/api", func(r chi.Router) {
		r.Get("/customers", s.listCustomers)
		r.Get("/customers/{id}", s.customerDetails)
		r.Get("/customers/{id}/history", s.customerHistory)
		r.Get("/customers/{id}/invoices", s.customerInvoices)
		r.Get("/customers/{id}/recent-purchase", s.recentPurchase)
		r.Get("/customers/{id}/recommendations", s.customerRecommendations)
		r.Get("/items/{item}/suggestions", s.itemSuggestions)
		r.Get("/catalog/main", s.catalogMain)
		r.Post("/insights/explanation", s.explainRecommendations)
		r.Post("/insights/customers/{id}", s.customerInsights)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.directory.Customers(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]entry, 0, len(customers))
	for _, c := range customers {
		out = append(out, entry{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) customerDetails(w http.ResponseWriter, r *http.Request) {
	c, err := s.directory.Customer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) customerHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.directory.CustomerHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) customerInvoices(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultInvoiceCap)
	invs, err := s.directory.RecentInvoices(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

func (s *Server) recentPurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := s.directory.RecentPurchase(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"customer_id": id,
		"recent_item": item,
	})
}

func (s *Server) customerRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topK := queryInt(r, "k", defaultCustomerK)
	recs, err := s.recommender.AdditionalRecommendations(r.Context(), id, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customer_id": id,
		"suggestions": recs,
	})
}

func (s *Server) itemSuggestions(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	topK := queryInt(r, "k", defaultSuggestK)
	recs, err := s.recommender.SuggestForItem(r.Context(), item, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item":        item,
		"suggestions": recs,
	})
}

func (s *Server) catalogMain(w http.ResponseWriter, r *http.Request) {
	mains, err := s.directory.MainProducts(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mains)
}

func (s *Server) explainRecommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
		K    int    `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Item == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "item is required")
		return
	}
	if req.K <= 0 {
		req.K = defaultSuggestK
	}

	recs, err := s.recommender.SuggestForItem(r.Context(), req.Item, req.K)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	explanation, err := s.insights.ExplainSuggestions(r.Context(), []string{req.Item}, recs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item":        req.Item,
		"suggestions": recs,
		"explanation": explanation,
	})
}

func (s *Server) customerInsights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	customer, err := s.directory.Customer(ctx, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	history, err := s.directory.CustomerHistory(ctx, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	invs, err := s.directory.RecentInvoices(ctx, id, defaultInvoiceCap)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]string, 0, len(history))
	for _, p := range history {
		items = append(items, p.Item)
	}
	contexts := make([]insights.InvoiceContext, 0, len(invs))
	for _, inv := range invs {
		contexts = append(contexts, insights.InvoiceContext{Items: inv.Items, Total: inv.Total})
	}

	text, err := s.insights.CustomerInsights(ctx, customer, items, contexts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customer_id": id,
		"insights":    text,
	})
}

// handleDomainError maps sentinel errors onto HTTP statuses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", "customer not found")
	case errors.Is(err, domain.ErrInsightsQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "insights_quota_exceeded", "text generation quota exceeded")
	case errors.Is(err, domain.ErrInsightsInvalidCredentials):
		writeError(w, http.StatusServiceUnavailable, "insights_invalid_credentials", "text generation credentials rejected")
	case errors.Is(err, domain.ErrInsightsUnavailable):
		writeError(w, http.StatusServiceUnavailable, "insights_unavailable", "text generation unavailable")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
