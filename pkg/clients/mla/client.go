package mla

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
)

// Client exposes the market price operations used by the application.
type Client interface {
	FetchQuotes(ctx context.Context, query QuoteQuery) ([]models.PriceQuote, error)
}

// QuoteQuery filters the upstream price feed. Categories is required;
// Breed, Saleyard and State narrow the result set when present.
type QuoteQuery struct {
	Categories []string
	Breed      string
	Saleyard   string
	State      string
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a market price API client using the provided configuration values.
func NewClient(cfg config.PricesConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.RequestTimeout)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{httpClient: restyClient}
}

// quotesResponse mirrors the upstream price feed envelope.
type quotesResponse struct {
	Quotes []quoteRecord `json:"quotes"`
}

type quoteRecord struct {
	Category   string  `json:"category"`
	Breed      string  `json:"breed"`
	Saleyard   string  `json:"saleyard"`
	State      string  `json:"state"`
	PricePerKg float64 `json:"price_per_kg"`
	Source     string  `json:"source"`
	QuoteDate  string  `json:"quote_date"`
}

// apiError represents the upstream error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

const quoteDateLayout = "2006-01-02"

// FetchQuotes queries today's prices for the given categories and optional filters.
func (c *APIClient) FetchQuotes(ctx context.Context, query QuoteQuery) ([]models.PriceQuote, error) {
	if len(query.Categories) == 0 {
		return nil, fmt.Errorf("quote query requires at least one category")
	}

	result := new(quotesResponse)
	apiErr := new(apiError)

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("categories", strings.Join(query.Categories, ",")).
		SetResult(result).
		SetError(apiErr)

	if query.Breed != "" {
		req.SetQueryParam("breed", query.Breed)
	}
	if query.Saleyard != "" {
		req.SetQueryParam("saleyard", query.Saleyard)
	}
	if query.State != "" {
		req.SetQueryParam("state", query.State)
	}

	resp, err := req.Get("/v1/prices/today")
	if err != nil {
		return nil, fmt.Errorf("fetch market quotes: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		// No prices published for these filters. Not an error; the resolver
		// falls through to the next tier.
		return nil, nil
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return nil, fmt.Errorf("market price api error: code=%d, message=%s", code, message)
	}

	quotes := make([]models.PriceQuote, 0, len(result.Quotes))
	for _, record := range result.Quotes {
		if record.PricePerKg <= 0 {
			continue
		}
		quotedAt, _ := time.Parse(quoteDateLayout, record.QuoteDate)
		quotes = append(quotes, models.PriceQuote{
			Category:   record.Category,
			Breed:      record.Breed,
			Saleyard:   record.Saleyard,
			State:      record.State,
			PricePerKg: record.PricePerKg,
			Source:     record.Source,
			QuotedAt:   quotedAt,
		})
	}

	return quotes, nil
}
