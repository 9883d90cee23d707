package marketdata

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// StatementType selects which financial statement to fetch.
type StatementType string

const (
	StatementIncome   StatementType = "income"
	StatementBalance  StatementType = "balance"
	StatementCashflow StatementType = "cashflow"
)

// ParseStatementType validates a --statement flag value.
func ParseStatementType(s string) (StatementType, error) {
	switch StatementType(s) {
	case StatementIncome, StatementBalance, StatementCashflow:
		return StatementType(s), nil
	default:
		return "", pipeline.InvalidArgument("unknown statement %q (supported: income, balance, cashflow)", s)
	}
}

func (t StatementType) function() string {
	switch t {
	case StatementBalance:
		return "BALANCE_SHEET"
	case StatementCashflow:
		return "CASH_FLOW"
	default:
		return "INCOME_STATEMENT"
	}
}

// lineItem maps a fixed output column to the AlphaVantage report field it is
// read from. The order of these slices is the schema contract: it never
// changes between invocations of the same statement type.
type lineItem struct {
	column string
	field  string
}

var statementLineItems = map[StatementType][]lineItem{
	StatementIncome: {
		{"total_revenue", "totalRevenue"},
		{"gross_profit", "grossProfit"},
		{"operating_income", "operatingIncome"},
		{"ebitda", "ebitda"},
		{"net_income", "netIncome"},
	},
	StatementBalance: {
		{"total_assets", "totalAssets"},
		{"total_liabilities", "totalLiabilities"},
		{"total_shareholder_equity", "totalShareholderEquity"},
		{"cash_and_equivalents", "cashAndCashEquivalentsAtCarryingValue"},
		{"long_term_debt", "longTermDebt"},
	},
	StatementCashflow: {
		{"operating_cashflow", "operatingCashflow"},
		{"capital_expenditures", "capitalExpenditures"},
		{"cashflow_from_investment", "cashflowFromInvestment"},
		{"cashflow_from_financing", "cashflowFromFinancing"},
		{"dividend_payout", "dividendPayout"},
	},
}

// StatementColumns returns the fixed schema for a statement type.
func StatementColumns(t StatementType) []string {
	columns := []string{"fiscal_date", "currency"}
	for _, item := range statementLineItems[t] {
		columns = append(columns, item.column)
	}
	return columns
}

// StatementResponse represents the AlphaVantage API response for financial statements
type StatementResponse struct {
	Symbol           string              `json:"symbol"`
	AnnualReports    []map[string]string `json:"annualReports"`
	QuarterlyReports []map[string]string `json:"quarterlyReports"`
}

// StatementFetcher fetches a financial statement for a ticker
type StatementFetcher struct {
	apiKey string
	ticker string
	typ    StatementType
	client *resty.Client
}

// NewStatementFetcher creates a new financial statement fetcher
func NewStatementFetcher(apiKey, ticker string, typ StatementType, baseURL string) *StatementFetcher {
	return &StatementFetcher{
		apiKey: apiKey,
		ticker: ticker,
		typ:    typ,
		client: pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the statement reports
func (f *StatementFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.ticker)
	}

	var result StatementResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   f.apiKey,
			"function": f.typ.function(),
			"symbol":   f.ticker,
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch %s statement for %s", f.typ, f.ticker)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	if result.Symbol == "" {
		return nil, pipeline.FetchFailed(nil, "no statement data returned for %s, the symbol may be invalid", f.ticker)
	}

	return &result, nil
}

// Key returns the hierarchical key for this fetcher
func (f *StatementFetcher) Key() string {
	return fmt.Sprintf("skill:alphavantage:%s:%s", f.ticker, f.typ)
}

// ReportPeriod selects annual or quarterly reports from a statement response.
type ReportPeriod string

const (
	ReportAnnual    ReportPeriod = "annual"
	ReportQuarterly ReportPeriod = "quarterly"
)

// ParseReportPeriod validates a --period flag value for statement mode.
func ParseReportPeriod(s string) (ReportPeriod, error) {
	switch ReportPeriod(s) {
	case ReportAnnual, ReportQuarterly:
		return ReportPeriod(s), nil
	default:
		return "", pipeline.InvalidArgument("unknown report period %q (supported: annual, quarterly)", s)
	}
}

// StatementNormalizer reshapes statement reports into a table with one row
// per fiscal period, newest first (AlphaVantage already orders them that
// way). A line item absent from a single report renders as an empty cell; a
// response with zero reports is a schema violation, reported rather than
// silently defaulted.
type StatementNormalizer struct {
	Type   StatementType
	Period ReportPeriod
}

// Normalize implements pipeline.Normalizer
func (n *StatementNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	stmt, ok := raw.(*StatementResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected statement response, got %T", raw)
	}

	reports := stmt.AnnualReports
	if n.Period == ReportQuarterly {
		reports = stmt.QuarterlyReports
	}
	if len(reports) == 0 {
		return nil, pipeline.SchemaViolation("%s statement for %s has no %s reports", n.Type, stmt.Symbol, n.Period)
	}

	table := record.NewTable(StatementColumns(n.Type)...)
	for _, report := range reports {
		row := []string{report["fiscalDateEnding"], report["reportedCurrency"]}
		for _, item := range statementLineItems[n.Type] {
			row = append(row, reportValue(report, item.field))
		}
		if err := table.Append(row...); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}

	name := fmt.Sprintf("Statement: %s (%s, %s)", stmt.Symbol, n.Type, n.Period)
	return record.Tabular(name, table), nil
}

// reportValue reads one line item; AlphaVantage encodes absent values as the
// literal string "None", which renders as an empty cell.
func reportValue(report map[string]string, field string) string {
	v := report[field]
	if v == "None" {
		return ""
	}
	return v
}
