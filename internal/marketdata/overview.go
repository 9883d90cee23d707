package marketdata

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// OverviewResponse is the flat field map AlphaVantage returns for a company
// overview. Every value arrives as a string.
type OverviewResponse map[string]string

// OverviewFetcher fetches company fundamentals for a ticker
type OverviewFetcher struct {
	apiKey string
	ticker string
	client *resty.Client
}

// NewOverviewFetcher creates a new company overview fetcher
func NewOverviewFetcher(apiKey, ticker, baseURL string) *OverviewFetcher {
	return &OverviewFetcher{
		apiKey: apiKey,
		ticker: ticker,
		client: pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the company overview
func (f *OverviewFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.ticker)
	}

	var result OverviewResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   f.apiKey,
			"function": "OVERVIEW",
			"symbol":   f.ticker,
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch overview for %s", f.ticker)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	if result["Symbol"] == "" {
		return nil, pipeline.FetchFailed(nil, "no overview data returned for %s, the symbol may be invalid", f.ticker)
	}

	return result, nil
}

// Key returns the hierarchical key for this fetcher
func (f *OverviewFetcher) Key() string {
	return fmt.Sprintf("skill:alphavantage:%s:overview", f.ticker)
}

// overviewField pairs a display label with the overview field it reads.
// Order within each group is the schema contract.
type overviewField struct {
	label string
	field string
}

var (
	companyFields = []overviewField{
		{"Name", "Name"},
		{"Exchange", "Exchange"},
		{"Sector", "Sector"},
		{"Industry", "Industry"},
		{"Country", "Country"},
	}
	valuationFields = []overviewField{
		{"Market Capitalization", "MarketCapitalization"},
		{"P/E Ratio", "PERatio"},
		{"EPS", "EPS"},
		{"Dividend Yield", "DividendYield"},
		{"52 Week High", "52WeekHigh"},
		{"52 Week Low", "52WeekLow"},
	}
)

// OverviewNormalizer reshapes an overview response into a document with
// fixed sections: description, company facts, valuation metrics.
type OverviewNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *OverviewNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	overview, ok := raw.(OverviewResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected overview response, got %T", raw)
	}

	symbol := overview["Symbol"]
	if overview["Name"] == "" {
		return nil, pipeline.SchemaViolation("overview for %s is missing the company name", symbol)
	}

	root := &record.Section{Title: fmt.Sprintf("%s (%s)", overview["Name"], symbol)}
	if desc := overview["Description"]; desc != "" {
		root.Body = []string{desc}
	}

	company := root.AddChild("Company")
	for _, f := range companyFields {
		company.Body = append(company.Body, labelLine(f.label, overview[f.field]))
	}

	valuation := root.AddChild("Valuation")
	for _, f := range valuationFields {
		valuation.Body = append(valuation.Body, labelLine(f.label, overview[f.field]))
	}

	return record.Document(fmt.Sprintf("Overview: %s", symbol), root), nil
}

func labelLine(label, value string) string {
	if value == "" || value == "None" {
		value = "-"
	}
	return fmt.Sprintf("%s: %s", label, value)
}
