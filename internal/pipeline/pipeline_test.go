package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitkwok/tightzone/internal/provider/yahoo"
	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/config"
	"github.com/kitkwok/tightzone/pkg/logger"
	"github.com/kitkwok/tightzone/pkg/redis"
)

type fakeScanner struct {
	calls int
	resp  *screener.Response
}

func (f *fakeScanner) Scan(_ context.Context, _ string, _ *screener.Request) (*screener.Response, error) {
	f.calls++
	return f.resp, nil
}

type fakeNews struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeNews) RecentNews(_ context.Context, symbol string, _, _ int) ([]yahoo.NewsItem, error) {
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return nil, errors.New("news unavailable")
	}
	return []yahoo.NewsItem{{Title: "Headline for " + symbol, URL: "https://example.com"}}, nil
}

type fakeCharts struct {
	calls int
}

func (f *fakeCharts) Generate(_ context.Context, rows []screener.Row, _ string) error {
	f.calls++
	for _, row := range rows {
		row["chart"] = "charts/" + row.Symbol() + ".svg"
	}
	return nil
}

// fakeCache is an in-memory ResultCache storing marshaled values and
// counting writes per key.
type fakeCache struct {
	data map[string][]byte
	sets map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data: make(map[string][]byte),
		sets: make(map[string]int),
	}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.sets[key]++
	return nil
}

func disabledCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return redis.NewCache(client, "tightzone")
}

func vcpResponse() *screener.Response {
	return &screener.Response{
		Columns: []string{
			screener.ColClose, screener.ColSMA200, screener.ColMarketCap,
			screener.ColBeta, screener.ColAvgVolume,
		},
		Data: []screener.ResponseRow{
			{Symbol: "NASDAQ:STRONG", Values: []interface{}{50.0, 40.0, 3_500_000_000.0, 1.2, 30_000_000.0}},
			{Symbol: "NYSE:WEAK", Values: []interface{}{11.0, 15.0, 5_000_000_000.0, 1.5, 8_000_000.0}},
		},
	}
}

func TestStocksRunsFullRefresh(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	news := &fakeNews{}
	charts := &fakeCharts{}

	p := New(scanner, news, charts, disabledCache(t), logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	rows, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, rows, 1, "only the qualifying row survives")
	assert.Equal(t, "NASDAQ:STRONG", rows[0].Symbol())
	assert.NotEmpty(t, rows[0]["news"])
	assert.NotEmpty(t, rows[0]["chart"])
	assert.Equal(t, 1, charts.calls)
}

func TestStocksIsolatesNewsFailures(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	news := &fakeNews{fail: map[string]bool{"NASDAQ:STRONG": true}}

	p := New(scanner, news, &fakeCharts{}, disabledCache(t), logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	rows, err := p.Stocks(context.Background(), false)
	require.NoError(t, err, "one symbol's news failure must not abort the batch")
	require.Len(t, rows, 1)

	items, ok := rows[0]["news"].([]yahoo.NewsItem)
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestStocksWithDisabledCacheAlwaysRefreshes(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}

	p := New(scanner, &fakeNews{}, &fakeCharts{}, disabledCache(t), logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	_, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)
	_, err = p.Stocks(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, scanner.calls, "disabled cache never serves a hit")
}

func TestStocksServesSecondCallFromCache(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	cache := newFakeCache()

	p := New(scanner, &fakeNews{}, &fakeCharts{}, cache, logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	first, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets[redis.ScanResultKey("america")])

	second, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Symbol(), second[0].Symbol())

	assert.Equal(t, 1, scanner.calls, "second call must be served from cache")
}

func TestStocksForceRefreshBypassesCache(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	cache := newFakeCache()

	p := New(scanner, &fakeNews{}, &fakeCharts{}, cache, logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	_, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)
	_, err = p.Stocks(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, scanner.calls, "forced refresh must hit the scanner")
	assert.Equal(t, 2, cache.sets[redis.ScanResultKey("america")], "forced refresh rewrites the cache")
}

func TestRefreshCachesNewsPerSymbol(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	news := &fakeNews{}
	cache := newFakeCache()

	p := New(scanner, news, &fakeCharts{}, cache, logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	_, err := p.Stocks(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, []string{"NASDAQ:STRONG"}, news.calls)
	assert.Equal(t, 1, cache.sets[redis.NewsKey("NASDAQ:STRONG")])

	// The forced re-scan hits the scanner again but serves the symbol's
	// news from its own cache entry.
	_, err = p.Stocks(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, scanner.calls)
	assert.Len(t, news.calls, 1, "cached news must not be refetched")
	assert.Equal(t, 1, cache.sets[redis.NewsKey("NASDAQ:STRONG")])
}

func TestRefreshDoesNotCacheFailedNews(t *testing.T) {
	scanner := &fakeScanner{resp: vcpResponse()}
	news := &fakeNews{fail: map[string]bool{"NASDAQ:STRONG": true}}
	cache := newFakeCache()

	p := New(scanner, news, &fakeCharts{}, cache, logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	_, err := p.Stocks(context.Background(), true)
	require.NoError(t, err)

	assert.Zero(t, cache.sets[redis.NewsKey("NASDAQ:STRONG")], "a failed fetch must stay uncached")
}

func TestStocksEmptyResultIsNotAnError(t *testing.T) {
	scanner := &fakeScanner{resp: &screener.Response{Columns: []string{"close"}}}

	p := New(scanner, &fakeNews{}, &fakeCharts{}, disabledCache(t), logger.NewNop(), Config{
		Market:   "america",
		PageSize: 100,
		ChartDir: t.TempDir(),
		CacheTTL: time.Hour,
	})

	rows, err := p.Stocks(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
