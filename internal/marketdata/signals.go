package marketdata

import (
	"fmt"
	"strconv"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
)

// SignalsColumns is the fixed schema for signal records.
var SignalsColumns = []string{"indicator", "value", "signal"}

const (
	smaShortWindow = 20
	smaLongWindow  = 50
	momentumWindow = 10
)

// SignalsNormalizer derives simple trading indicators from an OHLCV series:
// last close, short and long moving averages, momentum, and an overall trend
// read off the SMA stack. Indicators the series is too short for are
// reported as insufficient data rather than silently dropped, so the schema
// stays identical regardless of history depth.
type SignalsNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *SignalsNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	series, ok := raw.(*SeriesResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected series response, got %T", raw)
	}
	if len(series.Dates) == 0 {
		return nil, pipeline.SchemaViolation("series for %s contains no entries", series.Symbol)
	}

	// Dates arrive newest first; closes[0] is the latest close.
	closes := make([]float64, 0, len(series.Dates))
	for _, date := range series.Dates {
		c, err := strconv.ParseFloat(series.Entries[date].Close, 64)
		if err != nil {
			return nil, pipeline.SchemaViolation("unparseable close %q on %s for %s",
				series.Entries[date].Close, date, series.Symbol)
		}
		closes = append(closes, c)
	}

	lastClose := closes[0]
	smaShort, okShort := sma(closes, smaShortWindow)
	smaLong, okLong := sma(closes, smaLongWindow)

	rows := [][]string{
		{"last_close", formatPrice(lastClose), ""},
		{fmt.Sprintf("sma_%d", smaShortWindow), indicatorValue(smaShort, okShort), crossSignal(lastClose, smaShort, okShort)},
		{fmt.Sprintf("sma_%d", smaLongWindow), indicatorValue(smaLong, okLong), crossSignal(lastClose, smaLong, okLong)},
	}

	if len(closes) > momentumWindow {
		momentum := (lastClose/closes[momentumWindow] - 1) * 100
		rows = append(rows, []string{fmt.Sprintf("momentum_%dd", momentumWindow),
			fmt.Sprintf("%.2f%%", momentum), directionSignal(momentum)})
	} else {
		rows = append(rows, []string{fmt.Sprintf("momentum_%dd", momentumWindow), "insufficient data", ""})
	}

	rows = append(rows, []string{"trend", "", trendSignal(lastClose, smaShort, smaLong, okShort && okLong)})

	table := record.NewTable(SignalsColumns...)
	for _, row := range rows {
		if err := table.Append(row...); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}

	return record.Tabular(fmt.Sprintf("Signals: %s", series.Symbol), table), nil
}

// sma averages the first window closes (the most recent ones).
func sma(closes []float64, window int) (float64, bool) {
	if len(closes) < window {
		return 0, false
	}
	var sum float64
	for _, c := range closes[:window] {
		sum += c
	}
	return sum / float64(window), true
}

func indicatorValue(v float64, ok bool) string {
	if !ok {
		return "insufficient data"
	}
	return formatPrice(v)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func crossSignal(price, average float64, ok bool) string {
	switch {
	case !ok:
		return ""
	case price > average:
		return "above"
	case price < average:
		return "below"
	default:
		return "at"
	}
}

func directionSignal(momentum float64) string {
	switch {
	case momentum > 0:
		return "rising"
	case momentum < 0:
		return "falling"
	default:
		return "flat"
	}
}

func trendSignal(price, smaShort, smaLong float64, ok bool) string {
	switch {
	case !ok:
		return "insufficient data"
	case price > smaShort && smaShort > smaLong:
		return "bullish"
	case price < smaShort && smaShort < smaLong:
		return "bearish"
	default:
		return "neutral"
	}
}
