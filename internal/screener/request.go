package screener

// Request is the scanner query payload in the provider's wire schema.
// A fresh one is built per page; only the range differs between pages.
type Request struct {
	Markets []string          `json:"markets"`
	Symbols SymbolQuery       `json:"symbols"`
	Columns []string          `json:"columns"`
	Filter  []FilterCondition `json:"filter"`
	Sort    Sort              `json:"sort"`
	Options RequestOptions    `json:"options"`
	Range   [2]int            `json:"range"`
}

// SymbolQuery scopes a scan to symbol types and, optionally, tickers.
type SymbolQuery struct {
	Query   TypeQuery `json:"query"`
	Tickers []string  `json:"tickers"`
}

// TypeQuery lists the provider symbol types to include.
type TypeQuery struct {
	Types []string `json:"types"`
}

// RequestOptions carries provider-level request options.
type RequestOptions struct {
	Lang string `json:"lang"`
}

// Options declares one scan: which market, which optional bounds, which
// columns and how to sort. Optional bounds use nil as "no filter"; a nil
// pointer contributes no condition at all, it is not a zero-value filter.
type Options struct {
	Market    string
	Exchange  *string
	MinPrice  *float64
	MaxPrice  *float64
	MinVolume *float64

	// CustomFilters are appended verbatim after the materialized bounds.
	CustomFilters []FilterCondition

	// Columns to request. Empty means DefaultColumns.
	Columns []string

	// SymbolTypes overrides the market's default types when non-nil.
	// An explicit empty (non-nil) slice scans no symbol types.
	SymbolTypes []string

	Sort Sort

	// ApplyVCP enables the post-hoc VCP qualification filter and forces
	// the columns it needs into the request.
	ApplyVCP bool
}

// String pins a string to the heap so it can be used as an optional bound.
func String(s string) *string { return &s }

// Float pins a float64 to the heap so it can be used as an optional bound.
func Float(f float64) *float64 { return &f }

// buildRequest materializes the payload for one page. start/end are the
// inclusive zero-based row range; an inverted or negative range collapses
// to a zero-width range at start rather than failing.
func buildRequest(market string, opts Options, start, end int) *Request {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}

	filters := make([]FilterCondition, 0, 4+len(opts.CustomFilters))
	if opts.Exchange != nil {
		filters = append(filters, FilterCondition{Left: "exchange", Operation: OpEqual, Right: *opts.Exchange})
	}
	if opts.MinPrice != nil {
		filters = append(filters, FilterCondition{Left: ColClose, Operation: OpGreater, Right: *opts.MinPrice})
	}
	if opts.MaxPrice != nil {
		filters = append(filters, FilterCondition{Left: ColClose, Operation: OpLess, Right: *opts.MaxPrice})
	}
	if opts.MinVolume != nil {
		filters = append(filters, FilterCondition{Left: "volume", Operation: OpGreater, Right: *opts.MinVolume})
	}
	filters = append(filters, opts.CustomFilters...)

	// A scan with no bounds and no custom filters falls back to the
	// default pre-filter set, so a bare scan never paginates the whole
	// market. Any explicit condition suppresses the defaults.
	if len(filters) == 0 {
		filters = append(filters, DefaultFilters...)
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	if opts.ApplyVCP {
		columns = appendMissing(columns, RequiredVCPColumns)
	} else {
		columns = appendMissing(columns, nil)
	}

	sort := opts.Sort
	if sort.SortBy == "" {
		sort = DefaultSort
	}

	return &Request{
		Markets: []string{market},
		Symbols: SymbolQuery{
			Query:   TypeQuery{Types: resolveSymbolTypes(market, opts.SymbolTypes)},
			Tickers: []string{},
		},
		Columns: columns,
		Filter:  filters,
		Sort:    sort,
		Options: RequestOptions{Lang: "en"},
		Range:   [2]int{start, end},
	}
}

// appendMissing copies base and appends the required columns not already
// present, preserving order. Membership is exact; no normalization.
func appendMissing(base, required []string) []string {
	out := make([]string, len(base))
	copy(out, base)

	seen := make(map[string]struct{}, len(base))
	for _, col := range base {
		seen[col] = struct{}{}
	}

	for _, col := range required {
		if _, ok := seen[col]; ok {
			continue
		}
		out = append(out, col)
		seen[col] = struct{}{}
	}

	return out
}

// resolveSymbolTypes picks the symbol types for the payload. A nil
// override defers to the market default; a non-nil override is used as
// given with empty entries dropped.
func resolveSymbolTypes(market string, override []string) []string {
	if override == nil {
		types := DefaultSymbolTypes(market)
		if types == nil {
			return []string{}
		}
		return types
	}

	types := make([]string, 0, len(override))
	for _, t := range override {
		if t == "" {
			continue
		}
		types = append(types, t)
	}
	return types
}
