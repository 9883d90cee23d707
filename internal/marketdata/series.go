package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// SeriesColumns is the fixed schema for OHLCV series records.
var SeriesColumns = []string{"date", "open", "high", "low", "close", "volume"}

// Interval selects the candle width of a time series.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// ParseInterval validates an --interval flag value.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return Interval(s), nil
	default:
		return "", pipeline.InvalidArgument("unknown interval %q (supported: daily, weekly, monthly)", s)
	}
}

func (i Interval) function() string {
	switch i {
	case IntervalWeekly:
		return "TIME_SERIES_WEEKLY"
	case IntervalMonthly:
		return "TIME_SERIES_MONTHLY"
	default:
		return "TIME_SERIES_DAILY"
	}
}

// SeriesEntry is one OHLCV candle as AlphaVantage encodes it.
type SeriesEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// SeriesResponse holds a parsed time series. Dates are sorted newest first.
type SeriesResponse struct {
	Symbol   string
	Interval Interval
	Dates    []string
	Entries  map[string]SeriesEntry
}

// SeriesFetcher fetches an OHLCV time series for a ticker
type SeriesFetcher struct {
	apiKey   string
	ticker   string
	interval Interval
	client   *resty.Client
}

// NewSeriesFetcher creates a new time series fetcher
func NewSeriesFetcher(apiKey, ticker string, interval Interval, baseURL string) *SeriesFetcher {
	return &SeriesFetcher{
		apiKey:   apiKey,
		ticker:   ticker,
		interval: interval,
		client:   pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the time series. The series key in the response varies by
// interval ("Time Series (Daily)", "Weekly Time Series", ...), so the body
// is decoded in two steps instead of into a fixed struct.
func (f *SeriesFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.ticker)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":     f.apiKey,
			"function":   f.interval.function(),
			"symbol":     f.ticker,
			"outputsize": "full",
		}).
		Get("")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch %s series for %s", f.interval, f.ticker)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	return parseSeriesBody(resp.Bytes(), f.ticker, f.interval)
}

// Key returns the hierarchical key for this fetcher
func (f *SeriesFetcher) Key() string {
	return fmt.Sprintf("skill:alphavantage:%s:%s", f.ticker, f.interval)
}

func parseSeriesBody(body []byte, ticker string, interval Interval) (*SeriesResponse, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pipeline.FetchFailed(err, "failed to decode series response for %s", ticker)
	}

	if msg, ok := payload["Error Message"]; ok {
		return nil, pipeline.FetchFailed(nil, "series request for %s rejected: %s", ticker, strings.Trim(string(msg), `"`))
	}

	for key, raw := range payload {
		if !strings.Contains(key, "Time Series") {
			continue
		}

		entries := make(map[string]SeriesEntry)
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, pipeline.FetchFailed(err, "failed to decode time series entries for %s", ticker)
		}
		if len(entries) == 0 {
			break
		}

		dates := make([]string, 0, len(entries))
		for date := range entries {
			dates = append(dates, date)
		}
		// ISO dates sort lexicographically; newest first
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))

		return &SeriesResponse{
			Symbol:   ticker,
			Interval: interval,
			Dates:    dates,
			Entries:  entries,
		}, nil
	}

	return nil, pipeline.FetchFailed(nil, "no time series data returned for %s, the symbol may be invalid", ticker)
}

// Period bounds how far back a series record reaches.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// ParsePeriod validates a --period flag value for series mode.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y, Period5Y, PeriodMax:
		return Period(s), nil
	default:
		return "", pipeline.InvalidArgument("unknown period %q (supported: 1mo, 3mo, 6mo, 1y, 2y, 5y, max)", s)
	}
}

// cutoff returns the oldest date (inclusive) the period admits, or the zero
// time for max.
func (p Period) cutoff(now time.Time) time.Time {
	switch p {
	case Period1Mo:
		return now.AddDate(0, -1, 0)
	case Period3Mo:
		return now.AddDate(0, -3, 0)
	case Period6Mo:
		return now.AddDate(0, -6, 0)
	case Period1Y:
		return now.AddDate(-1, 0, 0)
	case Period2Y:
		return now.AddDate(-2, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	default:
		return time.Time{}
	}
}

// SeriesNormalizer reshapes a time series into an OHLCV table, newest first,
// truncated to the requested period.
type SeriesNormalizer struct {
	Period Period

	// Now allows tests to pin the truncation cutoff; zero means time.Now.
	Now time.Time
}

// Normalize implements pipeline.Normalizer
func (n *SeriesNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	series, ok := raw.(*SeriesResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected series response, got %T", raw)
	}
	if len(series.Dates) == 0 {
		return nil, pipeline.SchemaViolation("series for %s contains no entries", series.Symbol)
	}

	now := n.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := n.Period.cutoff(now).Format("2006-01-02")

	table := record.NewTable(SeriesColumns...)
	for _, date := range series.Dates {
		if date < cutoff {
			break
		}
		e := series.Entries[date]
		if err := table.Append(date, e.Open, e.High, e.Low, e.Close, e.Volume); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}

	name := fmt.Sprintf("OHLCV: %s (%s, %s)", series.Symbol, series.Interval, n.Period)
	return record.Tabular(name, table), nil
}
