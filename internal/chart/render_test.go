package chart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/logger"
)

func TestRenderSVG(t *testing.T) {
	series := contractingSeries(40)
	zones := ContractionZones(series, 4)

	var b strings.Builder
	err := RenderSVG("NASDAQ:TEST", series, zones, &b)
	require.NoError(t, err)

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "<svg"), "output should be an SVG document")
	assert.Contains(t, out, "polyline")
	assert.Contains(t, out, "NASDAQ:TEST")
	assert.Contains(t, out, "2024-01-01")
}

func TestRenderSVGRejectsEmptySeries(t *testing.T) {
	var b strings.Builder
	err := RenderSVG("TEST", nil, nil, &b)
	assert.Error(t, err)
}

func TestRenderSVGEscapesSymbol(t *testing.T) {
	series := contractingSeries(40)

	var b strings.Builder
	require.NoError(t, RenderSVG(`A<B>&"C`, series, nil, &b))
	assert.NotContains(t, b.String(), `A<B>`)
	assert.Contains(t, b.String(), "A&lt;B&gt;")
}

// fakeHistories serves one canned series and fails designated symbols.
type fakeHistories struct {
	series []PriceBar
	fail   map[string]bool
}

func (f *fakeHistories) History(_ context.Context, symbol, _, _ string) ([]PriceBar, error) {
	if f.fail[symbol] {
		return nil, errors.New("history unavailable")
	}
	return f.series, nil
}

func TestGenerateWritesChartsAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()

	gen := NewGenerator(&fakeHistories{
		series: contractingSeries(40),
		fail:   map[string]bool{"NYSE:BAD": true},
	}, logger.NewNop(), "6mo", "1d")

	rows := []screener.Row{
		{"symbol": "NASDAQ:GOOD"},
		{"symbol": "NYSE:BAD"},
	}

	require.NoError(t, gen.Generate(context.Background(), rows, dir))

	chartPath, ok := rows[0]["chart"].(string)
	require.True(t, ok, "good row should carry a chart path")
	assert.Equal(t, filepath.Join(dir, "GOOD.svg"), chartPath)

	data, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, hasChart := rows[1]["chart"]
	assert.False(t, hasChart)
	assert.NotEmpty(t, rows[1]["chart_error"], "failed row should record the error")
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NASDAQ:AAPL", "AAPL"},
		{"AAPL", "AAPL"},
		{"FX:EUR/USD", "EUR_USD"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.in); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
