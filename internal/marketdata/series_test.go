package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillkit/internal/pipeline"
)

const dailySeriesBody = `{
	"Meta Data": {"2. Symbol": "AAPL"},
	"Time Series (Daily)": {
		"2026-08-21": {"1. open": "176.00", "2. high": "179.00", "3. low": "175.50", "4. close": "178.23", "5. volume": "50000000"},
		"2026-08-20": {"1. open": "174.00", "2. high": "176.50", "3. low": "173.25", "4. close": "176.00", "5. volume": "42000000"},
		"2026-05-02": {"1. open": "150.00", "2. high": "152.00", "3. low": "149.00", "4. close": "151.10", "5. volume": "38000000"}
	}
}`

func TestSeriesFetcher_Fetch_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("function = %q, want TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(dailySeriesBody))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	fetcher := NewSeriesFetcher("test_key", "AAPL", IntervalDaily, server.URL)
	raw, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}

	series := raw.(*SeriesResponse)
	if len(series.Dates) != 3 {
		t.Fatalf("got %d dates, want 3", len(series.Dates))
	}
	// Newest first
	if series.Dates[0] != "2026-08-21" {
		t.Errorf("Dates[0] = %q, want newest date first", series.Dates[0])
	}
	if series.Dates[2] != "2026-05-02" {
		t.Errorf("Dates[2] = %q, want oldest date last", series.Dates[2])
	}
}

func TestSeriesFetcher_Fetch_ErrorMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	fetcher := NewSeriesFetcher("test_key", "ZZZZINVALID", IntervalDaily, server.URL)
	_, err := fetcher.Fetch(context.Background())
	if !pipeline.IsClass(err, pipeline.ClassFetch) {
		t.Errorf("error = %v, want fetch class", err)
	}
}

func TestSeriesNormalizer_SchemaAndOrder(t *testing.T) {
	series, err := parseSeriesBody([]byte(dailySeriesBody), "AAPL", IntervalDaily)
	if err != nil {
		t.Fatalf("parseSeriesBody() returned unexpected error: %v", err)
	}

	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	normalizer := &SeriesNormalizer{Period: PeriodMax, Now: now}

	rec, err := normalizer.Normalize(series)
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	for i, col := range SeriesColumns {
		if rec.Table.Columns[i] != col {
			t.Errorf("column %d = %q, want %q", i, rec.Table.Columns[i], col)
		}
	}
	if len(rec.Table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rec.Table.Rows))
	}
	if rec.Table.Rows[0][0] != "2026-08-21" {
		t.Errorf("first row date = %q, want newest first", rec.Table.Rows[0][0])
	}
}

func TestSeriesNormalizer_PeriodTruncation(t *testing.T) {
	series, err := parseSeriesBody([]byte(dailySeriesBody), "AAPL", IntervalDaily)
	if err != nil {
		t.Fatalf("parseSeriesBody() returned unexpected error: %v", err)
	}

	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	normalizer := &SeriesNormalizer{Period: Period1Mo, Now: now}

	rec, err := normalizer.Normalize(series)
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	// 2026-05-02 falls outside the one-month window
	if len(rec.Table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rec.Table.Rows))
	}
	for _, row := range rec.Table.Rows {
		if row[0] < "2026-07-23" {
			t.Errorf("row date %q is older than the period cutoff", row[0])
		}
	}
}

func TestParsePeriod(t *testing.T) {
	valid := []string{"1mo", "3mo", "6mo", "1y", "2y", "5y", "max"}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			if _, err := ParsePeriod(s); err != nil {
				t.Errorf("ParsePeriod(%q) returned unexpected error: %v", s, err)
			}
		})
	}

	_, err := ParsePeriod("fortnight")
	if !pipeline.IsClass(err, pipeline.ClassInvalidArgument) {
		t.Errorf("error = %v, want invalid argument class", err)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"daily", "TIME_SERIES_DAILY", false},
		{"weekly", "TIME_SERIES_WEEKLY", false},
		{"monthly", "TIME_SERIES_MONTHLY", false},
		{"hourly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			interval, err := ParseInterval(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseInterval(%q) expected error, got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInterval(%q) returned unexpected error: %v", tt.in, err)
			}
			if got := interval.function(); got != tt.expected {
				t.Errorf("function() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSchemaStability(t *testing.T) {
	// The same mode must produce identical columns on every invocation
	series, _ := parseSeriesBody([]byte(dailySeriesBody), "AAPL", IntervalDaily)
	normalizer := &SeriesNormalizer{Period: PeriodMax}

	first, err := normalizer.Normalize(series)
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}
	second, err := normalizer.Normalize(series)
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	if fmt.Sprint(first.Table.Columns) != fmt.Sprint(second.Table.Columns) {
		t.Errorf("columns changed between invocations: %v vs %v", first.Table.Columns, second.Table.Columns)
	}
}
