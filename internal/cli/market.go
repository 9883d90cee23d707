package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"skillkit/internal/config"
	"skillkit/internal/logger"
	"skillkit/internal/marketdata"
	"skillkit/internal/pipeline"
	"skillkit/internal/render"
)

const fetchTimeout = 30 * time.Second

type marketOptions struct {
	ticker      string
	interval    string
	period      string
	statement   string
	infoOnly    bool
	signalsOnly bool
	format      string
	output      string

	// set from flag change detection; an explicit period or interval
	// selects series mode
	periodChanged bool
	seriesMode    bool
}

func newMarketCmd() *cobra.Command {
	opts := &marketOptions{}

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Fetch market data for a ticker",
		Long: `Fetch market data for a ticker symbol.

Modes:
  default                  latest quote
  --period / --interval    OHLCV time series
  --statement              financial statement (--period annual|quarterly)
  --info-only              company overview
  --signals-only           derived indicators (SMA, momentum, trend)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.periodChanged = cmd.Flags().Changed("period")
			opts.seriesMode = opts.periodChanged || cmd.Flags().Changed("interval")
			return runMarket(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ticker, "ticker", "", "ticker symbol to fetch (required)")
	cmd.Flags().StringVar(&opts.interval, "interval", "daily", "series interval: daily, weekly, monthly")
	cmd.Flags().StringVar(&opts.period, "period", "3mo", "series window (1mo..5y, max) or statement period (annual, quarterly)")
	cmd.Flags().StringVar(&opts.statement, "statement", "", "financial statement: income, balance, cashflow")
	cmd.Flags().BoolVar(&opts.infoOnly, "info-only", false, "only show the company overview")
	cmd.Flags().BoolVar(&opts.signalsOnly, "signals-only", false, "only show derived signals")
	cmd.Flags().StringVar(&opts.format, "format", render.FormatTable, "output format: table, csv, markdown")
	cmd.Flags().StringVar(&opts.output, "output", "", "write output to file instead of stdout")

	return cmd
}

func runMarket(ctx context.Context, opts *marketOptions) error {
	if opts.ticker == "" {
		return pipeline.InvalidArgument("--ticker is required")
	}
	if opts.infoOnly && opts.signalsOnly {
		return pipeline.InvalidArgument("--info-only and --signals-only are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireMarketKey(); err != nil {
		return err
	}

	fetcher, normalizer, err := marketMode(opts, cfg)
	if err != nil {
		return err
	}

	renderer, err := render.ForFormat(opts.format)
	if err != nil {
		return err
	}

	// Bound the whole pass so a stalled source cannot hang the CLI
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("key", fetcher.Key()))
	logger.G(ctx).Debug("running market pipeline")

	return pipeline.Run(ctx, fetcher, normalizer, renderer, render.SinkFor(opts.output))
}

// marketMode resolves the flag combination into a fetcher/normalizer pair.
func marketMode(opts *marketOptions, cfg *config.Config) (pipeline.Fetcher, pipeline.Normalizer, error) {
	apiKey, baseURL := cfg.AlphaVantageAPIKey, cfg.AlphaVantageBaseURL

	switch {
	case opts.infoOnly:
		return marketdata.NewOverviewFetcher(apiKey, opts.ticker, baseURL),
			&marketdata.OverviewNormalizer{}, nil

	case opts.signalsOnly:
		interval, err := marketdata.ParseInterval(opts.interval)
		if err != nil {
			return nil, nil, err
		}
		return marketdata.NewSeriesFetcher(apiKey, opts.ticker, interval, baseURL),
			&marketdata.SignalsNormalizer{}, nil

	case opts.statement != "":
		statement, err := marketdata.ParseStatementType(opts.statement)
		if err != nil {
			return nil, nil, err
		}
		period := opts.period
		if !opts.periodChanged {
			period = string(marketdata.ReportAnnual)
		}
		reportPeriod, err := marketdata.ParseReportPeriod(period)
		if err != nil {
			return nil, nil, err
		}
		return marketdata.NewStatementFetcher(apiKey, opts.ticker, statement, baseURL),
			&marketdata.StatementNormalizer{Type: statement, Period: reportPeriod}, nil

	case opts.seriesMode:
		interval, err := marketdata.ParseInterval(opts.interval)
		if err != nil {
			return nil, nil, err
		}
		period, err := marketdata.ParsePeriod(opts.period)
		if err != nil {
			return nil, nil, err
		}
		return marketdata.NewSeriesFetcher(apiKey, opts.ticker, interval, baseURL),
			&marketdata.SeriesNormalizer{Period: period}, nil

	default:
		return marketdata.NewQuoteFetcher(apiKey, opts.ticker, baseURL),
			&marketdata.QuoteNormalizer{}, nil
	}
}
