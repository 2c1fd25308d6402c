// Package insights generates natural-language sales commentary for
// recommendations and customers via an OpenAI-compatible chat API. The
// recommendation core never depends on it; every failure here is classified
// and contained at this boundary.
package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/domain"
	"github.com/hearthside/cartfill/internal/metrics"
)

// completer is the consumer interface over the chat API client.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// InvoiceContext summarizes one invoice for the prompt.
type InvoiceContext struct {
	Items []string
	Total float64
}

// Service generates recommendation explanations and customer insights.
// With no API key configured it stays in the unavailable state and every
// call returns ErrInsightsUnavailable.
type Service struct {
	client completer
	model  string
	logger *zap.Logger
}

// Config holds the text-generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// New creates the insights service. An empty API key yields an unavailable
// service rather than an error.
func New(cfg *Config) *Service {
	s := &Service{model: cfg.Model, logger: cfg.Logger}
	if cfg.APIKey == "" {
		cfg.Logger.Warn("insights not configured, service unavailable")
		return s
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	return s
}

// Available reports whether the provider is configured.
func (s *Service) Available() bool { return s.client != nil }

// ExplainSuggestions writes a short sales pitch for why the recommended
// add-ons complement the selected products.
func (s *Service) ExplainSuggestions(ctx context.Context, selected []string, recs []domain.Suggestion) (string, error) {
	return s.complete(ctx, "explanation", openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a helpful home improvement retail assistant. " +
					"Explain why certain products complement each other in a friendly, informative way.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: explanationPrompt(selected, recs),
			},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
}

// CustomerInsights writes three brief, actionable observations about a
// customer's buying behavior for sales staff.
func (s *Service) CustomerInsights(ctx context.Context, customer domain.Customer, history []string, invoices []InvoiceContext) (string, error) {
	return s.complete(ctx, "customer", openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a retail analytics expert specializing in home improvement products. " +
					"Provide concise, actionable insights about customer behavior and preferences.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: customerPrompt(customer, history, invoices),
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
}

func (s *Service) complete(ctx context.Context, kind string, req openai.ChatCompletionRequest) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("no api key configured: %w", domain.ErrInsightsUnavailable)
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		classified := classifyAPIError(err)
		metrics.InsightsRequestsTotal.WithLabelValues(kind, statusLabel(classified)).Inc()
		s.logger.Warn("insights request failed", zap.String("kind", kind), zap.Error(err))
		return "", classified
	}
	if len(resp.Choices) == 0 {
		metrics.InsightsRequestsTotal.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrInsightsUnavailable)
	}

	metrics.InsightsRequestsTotal.WithLabelValues(kind, "success").Inc()
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func explanationPrompt(selected []string, recs []domain.Suggestion) string {
	top := recs
	if len(top) > 3 {
		top = top[:3]
	}
	var lines []string
	for _, r := range top {
		lines = append(lines, "- "+r.Item)
	}
	return fmt.Sprintf(`You're a sales assistant explaining add-on value to customers buying: %s

Top recommendations:
%s

Write 2-3 compelling reasons why customers should buy these add-ons. Focus ONLY on:
- Financial benefits (savings, warranties, protection)
- Concrete value (prevents damage, extends life, reduces costs)
- Practical necessities (required for operation, maintenance)

Avoid vague terms like "enhances experience." Use specific financial motivators.

Keep each reason to 1 sentence. Be direct and sales-focused.`,
		strings.Join(selected, ", "), strings.Join(lines, "\n"))
}

func customerPrompt(customer domain.Customer, history []string, invoices []InvoiceContext) string {
	recent := history
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}
	historyLine := "No history"
	if len(recent) > 0 {
		historyLine = strings.Join(recent, ", ")
	}

	invoiceLine := "No recent invoices"
	if len(invoices) > 0 {
		var parts []string
		for _, inv := range invoices {
			parts = append(parts, fmt.Sprintf("[%s] total $%.2f", strings.Join(inv.Items, ", "), inv.Total))
		}
		invoiceLine = strings.Join(parts, "; ")
	}

	return fmt.Sprintf(`Analyze this customer for sales staff. Be BRIEF and ACTIONABLE:

Customer: %s
Purchase History: %s
Recent Invoices: %s

Provide EXACTLY 3 brief insights (1-2 sentences each):
1. **Product Preferences:** What types/categories does this customer buy?
2. **Potential Needs:** What accessories, maintenance, or complementary products might they need?
3. **Buying Patterns:** Any seasonal trends or project-based buying behavior?

Format: Keep each point to 1-2 sentences. Focus on what sales staff can ACT on.`,
		customer.Name, historyLine, invoiceLine)
}

// classifyAPIError maps provider failures onto the three insight sentinels:
// quota exhaustion, bad credentials, everything else unavailable.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || code == "insufficient_quota":
			return fmt.Errorf("insights API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrInsightsQuotaExceeded)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || code == "invalid_api_key":
			return fmt.Errorf("insights API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrInsightsInvalidCredentials)
		default:
			return fmt.Errorf("insights API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrInsightsUnavailable)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("insights API error %d: %w", reqErr.HTTPStatusCode, domain.ErrInsightsQuotaExceeded)
		case http.StatusUnauthorized:
			return fmt.Errorf("insights API error %d: %w", reqErr.HTTPStatusCode, domain.ErrInsightsInvalidCredentials)
		}
		return fmt.Errorf("insights API error %d: %w", reqErr.HTTPStatusCode, domain.ErrInsightsUnavailable)
	}

	return fmt.Errorf("insights request failed: %w", domain.ErrInsightsUnavailable)
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsightsQuotaExceeded):
		return "quota"
	case errors.Is(err, domain.ErrInsightsInvalidCredentials):
		return "auth"
	default:
		return "error"
	}
}
