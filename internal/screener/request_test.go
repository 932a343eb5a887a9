package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestFallsBackToDefaultFilters(t *testing.T) {
	req := buildRequest("america", Options{ApplyVCP: true}, 0, 99)

	assert.Equal(t, DefaultFilters, req.Filter, "a bare scan must carry the default pre-filter set")
}

func TestBuildRequestBoundSuppressesDefaultFilters(t *testing.T) {
	req := buildRequest("america", Options{MinPrice: Float(10)}, 0, 99)

	require.Len(t, req.Filter, 1, "an explicit bound replaces the defaults")
	assert.Equal(t, FilterCondition{Left: "close", Operation: OpGreater, Right: 10.0}, req.Filter[0])
}

func TestBuildRequestCustomFiltersSuppressDefaultFilters(t *testing.T) {
	custom := []FilterCondition{{Left: "sector", Operation: OpEqual, Right: "Technology"}}
	req := buildRequest("america", Options{CustomFilters: custom}, 0, 99)

	assert.Equal(t, custom, req.Filter)
}

func TestBuildRequestMaterializesEachBound(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want FilterCondition
	}{
		{
			name: "exchange",
			opts: Options{Exchange: String("NASDAQ")},
			want: FilterCondition{Left: "exchange", Operation: OpEqual, Right: "NASDAQ"},
		},
		{
			name: "min price",
			opts: Options{MinPrice: Float(10)},
			want: FilterCondition{Left: "close", Operation: OpGreater, Right: 10.0},
		},
		{
			name: "max price",
			opts: Options{MaxPrice: Float(500)},
			want: FilterCondition{Left: "close", Operation: OpLess, Right: 500.0},
		},
		{
			name: "min volume",
			opts: Options{MinVolume: Float(1_000_000)},
			want: FilterCondition{Left: "volume", Operation: OpGreater, Right: 1_000_000.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildRequest("america", tt.opts, 0, 99)
			require.Len(t, req.Filter, 1)
			assert.Equal(t, tt.want, req.Filter[0])
		})
	}
}

func TestBuildRequestCombinesBoundsAndCustomFilters(t *testing.T) {
	custom := FilterCondition{Left: "peg_ratio", Operation: OpLess, Right: 2}
	opts := Options{
		Exchange:      String("NYSE"),
		MinPrice:      Float(12),
		CustomFilters: []FilterCondition{custom},
	}

	req := buildRequest("america", opts, 0, 99)

	require.Len(t, req.Filter, 3)
	assert.Equal(t, "exchange", req.Filter[0].Left)
	assert.Equal(t, "close", req.Filter[1].Left)
	assert.Equal(t, custom, req.Filter[2])
}

func TestBuildRequestAppendsMissingVCPColumns(t *testing.T) {
	opts := Options{
		Columns:  []string{"name", ColClose},
		ApplyVCP: true,
	}

	req := buildRequest("america", opts, 0, 99)

	assert.Equal(t, []string{
		"name",
		ColClose,
		ColSMA200,
		ColMarketCap,
		ColBeta,
		ColAvgVolume,
	}, req.Columns)
}

func TestBuildRequestKeepsColumnsWithoutVCP(t *testing.T) {
	opts := Options{Columns: []string{"name", "close"}}

	req := buildRequest("america", opts, 0, 99)

	assert.Equal(t, []string{"name", "close"}, req.Columns)
}

func TestBuildRequestClampsRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       [2]int
	}{
		{"normal", 0, 99, [2]int{0, 99}},
		{"negative start", -5, 10, [2]int{0, 10}},
		{"inverted", 20, 10, [2]int{20, 20}},
		{"both negative", -3, -9, [2]int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildRequest("america", Options{}, tt.start, tt.end)
			assert.Equal(t, tt.want, req.Range)
		})
	}
}

func TestBuildRequestSymbolTypes(t *testing.T) {
	tests := []struct {
		name     string
		market   string
		override []string
		want     []string
	}{
		{"default for america", "america", nil, []string{"stock"}},
		{"default for unknown market", "atlantis", nil, []string{}},
		{"explicit empty override", "america", []string{}, []string{}},
		{"explicit override", "america", []string{"stock", "etf"}, []string{"stock", "etf"}},
		{"falsy entries dropped", "america", []string{"stock", ""}, []string{"stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildRequest(tt.market, Options{SymbolTypes: tt.override}, 0, 99)
			assert.Equal(t, tt.want, req.Symbols.Query.Types)
		})
	}
}

func TestBuildRequestDefaults(t *testing.T) {
	req := buildRequest("america", Options{}, 0, 49)

	assert.Equal(t, []string{"america"}, req.Markets)
	assert.Equal(t, DefaultColumns, req.Columns)
	assert.Equal(t, DefaultSort, req.Sort)
	assert.Equal(t, "en", req.Options.Lang)
	assert.NotNil(t, req.Symbols.Tickers)
}
