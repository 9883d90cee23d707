// Package marketdata fetches market data from AlphaVantage and normalizes
// it into schema-stable records: latest quote, OHLCV series, financial
// statements, company overview, and derived trading signals.
package marketdata

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// QuoteColumns is the fixed schema for quote records.
var QuoteColumns = []string{
	"symbol", "open", "high", "low", "price", "volume",
	"latest_trading_day", "previous_close", "change", "change_percent",
}

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// QuoteFetcher fetches the latest quote for a ticker
type QuoteFetcher struct {
	apiKey string
	ticker string
	client *resty.Client
}

// NewQuoteFetcher creates a new quote fetcher
func NewQuoteFetcher(apiKey, ticker, baseURL string) *QuoteFetcher {
	return &QuoteFetcher{
		apiKey: apiKey,
		ticker: ticker,
		client: pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the current quote
func (f *QuoteFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.ticker)
	}

	var result GlobalQuoteResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   f.apiKey,
			"function": "GLOBAL_QUOTE",
			"symbol":   f.ticker,
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch quote for %s", f.ticker)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	// AlphaVantage answers 200 with an empty object for unknown symbols
	if result.GlobalQuote.Symbol == "" {
		return nil, pipeline.FetchFailed(nil, "no quote data returned for %s, the symbol may be invalid", f.ticker)
	}

	return &result, nil
}

// Key returns the hierarchical key for this fetcher
func (f *QuoteFetcher) Key() string {
	return fmt.Sprintf("skill:alphavantage:%s:quote", f.ticker)
}

// QuoteNormalizer reshapes a quote response into a one-row table.
type QuoteNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *QuoteNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	q, ok := raw.(*GlobalQuoteResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected quote response, got %T", raw)
	}

	g := q.GlobalQuote
	if g.Price == "" {
		return nil, pipeline.SchemaViolation("quote for %s is missing the price field", g.Symbol)
	}

	table := record.NewTable(QuoteColumns...)
	if err := table.Append(
		g.Symbol, g.Open, g.High, g.Low, g.Price, g.Volume,
		g.LatestTradingDay, g.PreviousClose, g.Change, g.ChangePercent,
	); err != nil {
		return nil, pipeline.SchemaViolation("%v", err)
	}

	return record.Tabular(fmt.Sprintf("Quote: %s", g.Symbol), table), nil
}
