package screener

// Scanner filter operations understood by the provider.
const (
	OpEqual    = "equal"
	OpGreater  = "greater"
	OpLess     = "less"
	OpNotEmpty = "nempty"
)

// FilterCondition is one scanner filter clause in the provider's schema.
// Right is omitted for operations that take no right-hand side.
type FilterCondition struct {
	Left      string      `json:"left"`
	Operation string      `json:"operation"`
	Right     interface{} `json:"right,omitempty"`
}

// Sort describes the scanner sort column and direction.
type Sort struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Provider column names used by the VCP qualification test.
const (
	ColClose     = "close"
	ColSMA200    = "SMA200"
	ColMarketCap = "market_cap_basic"
	ColBeta      = "beta_1_year"
	ColAvgVolume = "average_volume_30d_calc"
)

// RequiredVCPColumns are appended to a request whenever VCP
// qualification is enabled, so the post-filter always has its inputs.
var RequiredVCPColumns = []string{
	ColClose,
	ColSMA200,
	ColMarketCap,
	ColBeta,
	ColAvgVolume,
}

// DefaultColumns is the column set requested when the caller supplies none.
var DefaultColumns = []string{
	"name",
	ColClose,
	ColSMA200,
	ColMarketCap,
	"average_volume_90d_calc",
	ColBeta,
	"pe_basic_excl_extra_ttm",
	"peg_ratio",
	"earnings_per_share_diluted_growth_ttm",
	"return_on_equity_ttm",
}

// DefaultFilters is the pre-filter set a scan sends when the caller
// declares no bounds and no custom filters: established, liquid,
// profitable names trading above their long-term trend, priced at a
// reasonable multiple.
var DefaultFilters = []FilterCondition{
	{Left: ColClose, Operation: OpGreater, Right: "SMA200"},
	{Left: ColClose, Operation: OpGreater, Right: 12},
	{Left: ColMarketCap, Operation: OpGreater, Right: 2_000_000_000},
	{Left: "average_volume_90d_calc", Operation: OpGreater, Right: 900_000},
	{Left: "earnings_per_share_diluted_growth_ttm", Operation: OpGreater, Right: 0},
	{Left: "return_on_equity_ttm", Operation: OpGreater, Right: 0},
	{Left: "pe_basic_excl_extra_ttm", Operation: OpLess, Right: 80},
	{Left: "pe_basic_excl_extra_ttm", Operation: OpNotEmpty},
	{Left: "peg_ratio", Operation: OpLess, Right: 2},
}

// DefaultSort orders results by market capitalization, largest first.
var DefaultSort = Sort{
	SortBy:    ColMarketCap,
	SortOrder: "desc",
}
