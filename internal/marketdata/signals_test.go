package marketdata

import (
	"fmt"
	"testing"

	"skillkit/internal/pipeline"
)

// syntheticSeries builds a daily series with the given closes, newest first.
func syntheticSeries(closes []float64) *SeriesResponse {
	series := &SeriesResponse{
		Symbol:   "TEST",
		Interval: IntervalDaily,
		Entries:  make(map[string]SeriesEntry),
	}
	for i, c := range closes {
		date := fmt.Sprintf("2026-06-%02d", len(closes)-i)
		series.Dates = append(series.Dates, date)
		series.Entries[date] = SeriesEntry{
			Open: "1", High: "1", Low: "1",
			Close:  fmt.Sprintf("%.2f", c),
			Volume: "1000",
		}
	}
	return series
}

func TestSignalsNormalizer_Schema(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(60-i) // rising toward the present
	}

	rec, err := (&SignalsNormalizer{}).Normalize(syntheticSeries(closes))
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	for i, col := range SignalsColumns {
		if rec.Table.Columns[i] != col {
			t.Errorf("column %d = %q, want %q", i, rec.Table.Columns[i], col)
		}
	}

	indicators := make([]string, 0, len(rec.Table.Rows))
	for _, row := range rec.Table.Rows {
		indicators = append(indicators, row[0])
	}
	expected := []string{"last_close", "sma_20", "sma_50", "momentum_10d", "trend"}
	if fmt.Sprint(indicators) != fmt.Sprint(expected) {
		t.Errorf("indicators = %v, want %v", indicators, expected)
	}
}

func TestSignalsNormalizer_BullishTrend(t *testing.T) {
	// Strictly rising closes: price above both SMAs, short above long
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}

	rec, err := (&SignalsNormalizer{}).Normalize(syntheticSeries(closes))
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	last := rec.Table.Rows[len(rec.Table.Rows)-1]
	if last[0] != "trend" || last[2] != "bullish" {
		t.Errorf("trend row = %v, want bullish", last)
	}

	momentum := rec.Table.Rows[3]
	if momentum[2] != "rising" {
		t.Errorf("momentum signal = %q, want rising", momentum[2])
	}
}

func TestSignalsNormalizer_ShortSeries(t *testing.T) {
	// Too short for either SMA window, schema must not shrink
	rec, err := (&SignalsNormalizer{}).Normalize(syntheticSeries([]float64{100, 101, 102}))
	if err != nil {
		t.Fatalf("Normalize() returned unexpected error: %v", err)
	}

	if len(rec.Table.Rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rec.Table.Rows))
	}
	if rec.Table.Rows[1][1] != "insufficient data" {
		t.Errorf("sma_20 value = %q, want insufficient data", rec.Table.Rows[1][1])
	}
}

func TestSignalsNormalizer_EmptySeries(t *testing.T) {
	_, err := (&SignalsNormalizer{}).Normalize(&SeriesResponse{Symbol: "TEST"})
	if !pipeline.IsClass(err, pipeline.ClassSchema) {
		t.Errorf("error = %v, want schema class", err)
	}
}
