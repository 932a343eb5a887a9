package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kitkwok/tightzone/internal/provider/yahoo"
	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/logger"
	"github.com/kitkwok/tightzone/pkg/redis"
)

// NewsProvider fetches recent articles for one symbol.
type NewsProvider interface {
	RecentNews(ctx context.Context, symbol string, limit, days int) ([]yahoo.NewsItem, error)
}

// ChartGenerator renders contraction charts for screened rows.
type ChartGenerator interface {
	Generate(ctx context.Context, rows []screener.Row, dir string) error
}

// ResultCache stores the screened result set between refreshes.
// *redis.Cache satisfies it; tests inject a double.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const (
	newsLimit = 3
	newsDays  = 3
)

// Pipeline runs the full VCP refresh: scan the market, enrich each
// qualifying row with recent news, render its contraction chart, and
// cache the result set for the API layer.
type Pipeline struct {
	scanner  screener.Scanner
	news     NewsProvider
	charts   ChartGenerator
	cache    ResultCache
	logger   *logger.Logger
	market   string
	pageSize int
	chartDir string
	cacheTTL time.Duration
}

// Config holds the pipeline's fixed parameters.
type Config struct {
	Market   string
	PageSize int
	ChartDir string
	CacheTTL time.Duration
}

// New creates a pipeline.
func New(scanner screener.Scanner, news NewsProvider, charts ChartGenerator, cache ResultCache, log *logger.Logger, cfg Config) *Pipeline {
	return &Pipeline{
		scanner:  scanner,
		news:     news,
		charts:   charts,
		cache:    cache,
		logger:   log,
		market:   cfg.Market,
		pageSize: cfg.PageSize,
		chartDir: cfg.ChartDir,
		cacheTTL: cfg.CacheTTL,
	}
}

// Stocks returns the current VCP result set, serving from cache unless
// forceRefresh is set or the cache is cold.
func (p *Pipeline) Stocks(ctx context.Context, forceRefresh bool) ([]screener.Row, error) {
	cacheKey := redis.ScanResultKey(p.market)

	if !forceRefresh {
		var cached []screener.Row
		found, err := p.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			p.logger.WithError(err).Warn("Cache read failed, refreshing")
		}
		if found {
			p.logger.WithField("rows", len(cached)).Debug("Served scan from cache")
			return cached, nil
		}
	}

	rows, err := p.refresh(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, cacheKey, rows, p.cacheTTL); err != nil {
		p.logger.WithError(err).Warn("Cache write failed")
	}

	return rows, nil
}

// refresh runs scan, news enrichment and chart generation.
func (p *Pipeline) refresh(ctx context.Context) ([]screener.Row, error) {
	s, err := screener.New(p.scanner, p.logger, screener.Options{
		Market:   p.market,
		ApplyVCP: true,
	}, p.pageSize)
	if err != nil {
		return nil, err
	}

	rows, err := s.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.market, err)
	}

	// A symbol's news or chart failing must not sink the batch; the
	// failure is recorded against the row and the rest proceed.
	for _, row := range rows {
		items, err := p.symbolNews(ctx, row.Symbol())
		if err != nil {
			p.logger.WithError(err).WithField("symbol", row.Symbol()).Warn("News fetch failed")
			items = []yahoo.NewsItem{}
		}
		row["news"] = items
	}

	if err := p.charts.Generate(ctx, rows, p.chartDir); err != nil {
		return nil, fmt.Errorf("generate charts: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"market": p.market,
		"rows":   len(rows),
	}).Info("Pipeline refresh completed")

	if rows == nil {
		rows = []screener.Row{}
	}
	return rows, nil
}

// symbolNews returns the recent news for one symbol, cached per symbol
// so repeated refreshes of an unchanged candidate list skip the provider.
// Only successful fetches are cached.
func (p *Pipeline) symbolNews(ctx context.Context, symbol string) ([]yahoo.NewsItem, error) {
	key := redis.NewsKey(symbol)

	var cached []yahoo.NewsItem
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("News cache read failed")
	}
	if found {
		return cached, nil
	}

	items, err := p.news.RecentNews(ctx, symbol, newsLimit, newsDays)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []yahoo.NewsItem{}
	}

	if err := p.cache.Set(ctx, key, items, p.cacheTTL); err != nil {
		p.logger.WithError(err).Warn("News cache write failed")
	}

	return items, nil
}

// ChartDir returns the directory charts are rendered into.
func (p *Pipeline) ChartDir() string {
	return p.chartDir
}
