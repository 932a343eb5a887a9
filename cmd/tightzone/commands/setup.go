package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/provider/tradingview"
	"github.com/kitkwok/tightzone/internal/provider/yahoo"
	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/config"
	"github.com/kitkwok/tightzone/pkg/httputil"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// deps bundles the pieces every command starts from.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	scanner *tradingview.Client
	quotes  *yahoo.Client
}

// setup loads config, builds the logger and the provider clients.
func setup() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if marketFlag != "" {
		cfg.Market = marketFlag
	}

	log := logger.New(cfg)

	// A failed scan page aborts the whole scan, so the scanner client
	// carries no transport-level retry; the quote client keeps it.
	scannerHTTP := httputil.New(log, cfg.Scanner.Timeout).
		DisableRetry().
		WithRateLimit(cfg.Scanner.RateLimit, cfg.Scanner.RateBurst)

	quotesHTTP := httputil.New(log, cfg.Quotes.Timeout).
		WithRetry(cfg.Quotes.MaxRetries, time.Second).
		WithRateLimit(cfg.Quotes.RateLimit, cfg.Quotes.RateBurst)

	return &deps{
		cfg:     cfg,
		log:     log,
		scanner: tradingview.NewClient(scannerHTTP, log, cfg.Scanner.BaseURL),
		quotes:  yahoo.NewClient(quotesHTTP, log, cfg.Quotes.ChartBaseURL, cfg.Quotes.SearchBaseURL),
	}, nil
}

// Shared scan flags, registered on every command that runs a scan.
var (
	exchangeFlag  string
	minPriceFlag  float64
	maxPriceFlag  float64
	minVolumeFlag float64
	vcpFlag       bool
	filtersFile   string
)

// addScanFlags registers the scan filter flags on a command.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&exchangeFlag, "exchange", "", "limit results to one exchange (e.g. NASDAQ)")
	cmd.Flags().Float64Var(&minPriceFlag, "min-price", 0, "minimum close price")
	cmd.Flags().Float64Var(&maxPriceFlag, "max-price", 0, "maximum close price")
	cmd.Flags().Float64Var(&minVolumeFlag, "min-volume", 0, "minimum daily volume")
	cmd.Flags().BoolVar(&vcpFlag, "vcp", false, "apply VCP qualification to the results")
	cmd.Flags().StringVar(&filtersFile, "filters", "", "path to a JSON file with custom filter conditions")
}

// screenerOptions assembles scan options from the shared scan flags.
// A bound flag only materializes a filter when it was set explicitly, so
// an untouched zero value never turns into a zero-value filter.
func screenerOptions(cmd *cobra.Command, cfg *config.Config) (screener.Options, error) {
	opts := screener.Options{
		Market:   cfg.Market,
		ApplyVCP: vcpFlag,
	}

	if exchangeFlag != "" {
		opts.Exchange = screener.String(exchangeFlag)
	}
	if cmdFlagChanged(cmd, "min-price") {
		opts.MinPrice = screener.Float(minPriceFlag)
	}
	if cmdFlagChanged(cmd, "max-price") {
		opts.MaxPrice = screener.Float(maxPriceFlag)
	}
	if cmdFlagChanged(cmd, "min-volume") {
		opts.MinVolume = screener.Float(minVolumeFlag)
	}

	if filtersFile != "" {
		data, err := os.ReadFile(filtersFile)
		if err != nil {
			return opts, fmt.Errorf("read filters file: %w", err)
		}
		var custom []screener.FilterCondition
		if err := json.Unmarshal(data, &custom); err != nil {
			return opts, fmt.Errorf("parse filters file: %w", err)
		}
		opts.CustomFilters = custom
	}

	return opts, nil
}

func cmdFlagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
