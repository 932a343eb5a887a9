package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// HistoryProvider fetches the chronological price series for one symbol.
type HistoryProvider interface {
	History(ctx context.Context, symbol, period, interval string) ([]PriceBar, error)
}

// Generator renders contraction charts for screened rows.
type Generator struct {
	histories HistoryProvider
	logger    *logger.Logger
	period    string
	interval  string
	workers   int
}

// NewGenerator creates a chart generator. period/interval follow the
// quote provider's notation (e.g. "6mo", "1d").
func NewGenerator(histories HistoryProvider, log *logger.Logger, period, interval string) *Generator {
	return &Generator{
		histories: histories,
		logger:    log,
		period:    period,
		interval:  interval,
		workers:   4,
	}
}

// Generate fetches each row's price history and writes an SVG chart with
// its contraction zones into dir. Rows gain a "chart" key on success or a
// "chart_error" key on failure; one symbol failing never aborts the rest.
func (g *Generator) Generate(ctx context.Context, rows []screener.Row, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup

	for _, row := range rows {
		symbol := row.Symbol()
		if symbol == "" {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(row screener.Row, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			path, err := g.generateOne(ctx, symbol, dir)
			if err != nil {
				// Recorded per symbol; the batch continues.
				row["chart_error"] = err.Error()
				g.logger.WithError(err).WithField("symbol", symbol).Warn("Chart generation failed")
				return
			}
			row["chart"] = path
		}(row, symbol)
	}

	wg.Wait()
	return nil
}

// generateOne renders a single symbol's chart and returns the file path.
func (g *Generator) generateOne(ctx context.Context, symbol, dir string) (string, error) {
	series, err := g.histories.History(ctx, symbol, g.period, g.interval)
	if err != nil {
		return "", fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no price history for %s", symbol)
	}

	zones := ContractionZones(series, DefaultSegments)

	path := filepath.Join(dir, SafeFileName(symbol)+".svg")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := RenderSVG(symbol, series, zones, f); err != nil {
		return "", fmt.Errorf("render chart for %s: %w", symbol, err)
	}

	return path, nil
}

// SafeFileName turns a provider symbol (possibly "EXCHANGE:TICKER") into
// a filesystem-safe base name.
func SafeFileName(symbol string) string {
	if idx := strings.Index(symbol, ":"); idx >= 0 {
		symbol = symbol[idx+1:]
	}
	return strings.ReplaceAll(symbol, "/", "_")
}
