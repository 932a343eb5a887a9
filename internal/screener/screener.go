package screener

import (
	"context"
	"fmt"

	"github.com/kitkwok/tightzone/pkg/logger"
)

// Scanner submits one scanner query and returns the provider's tabular
// response. The production implementation lives in
// internal/provider/tradingview; tests inject a double.
type Scanner interface {
	Scan(ctx context.Context, market string, req *Request) (*Response, error)
}

// Response is the provider's tabular answer to one scan page. The column
// order is authoritative per response and may differ between pages.
type Response struct {
	Columns []string      `json:"columns"`
	Data    []ResponseRow `json:"data"`
}

// ResponseRow is one returned symbol with its column values, positionally
// aligned with Response.Columns.
type ResponseRow struct {
	Symbol string        `json:"s"`
	Values []interface{} `json:"d"`
}

// Row maps column names to values for one screened symbol. Values are
// provider-driven scalars (string, number or nil); the "symbol" key is
// always present.
type Row map[string]interface{}

// Symbol returns the row's symbol identifier.
func (r Row) Symbol() string {
	s, _ := r["symbol"].(string)
	return s
}

// Screener runs paginated scans against a market scanner. Each Scan call
// is self-contained; one Screener may serve concurrent calls.
type Screener struct {
	scanner  Scanner
	logger   *logger.Logger
	market   string
	opts     Options
	pageSize int
}

// New creates a Screener for the given market. The market name is
// normalized up front so an unusable name fails before any network call.
func New(scanner Scanner, log *logger.Logger, opts Options, pageSize int) (*Screener, error) {
	market, err := NormalizeMarket(opts.Market)
	if err != nil {
		return nil, err
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidInput, pageSize)
	}

	return &Screener{
		scanner:  scanner,
		logger:   log,
		market:   market,
		opts:     opts,
		pageSize: pageSize,
	}, nil
}

// Market returns the normalized market slug this screener scans.
func (s *Screener) Market() string {
	return s.market
}

// Request materializes the payload for one page without submitting it.
func (s *Screener) Request(start, end int) *Request {
	return buildRequest(s.market, s.opts, start, end)
}

// Scan fetches all matching rows, page by page, until the provider
// returns a page shorter than the page size. A failed page aborts the
// whole scan and discards everything accumulated so far; there is no
// retry and no partial result. When VCP qualification is enabled the
// accumulated rows are post-filtered through QualifiesVCP.
func (s *Screener) Scan(ctx context.Context) ([]Row, error) {
	var rows []Row

	for offset := 0; ; offset += s.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := s.Request(offset, offset+s.pageSize-1)
		resp, err := s.scanner.Scan(ctx, s.market, req)
		if err != nil {
			return nil, fmt.Errorf("scan page at offset %d: %w", offset, err)
		}

		// The column order is re-read from every page; the provider may
		// reorder columns between responses.
		page, err := zipRows(resp.Columns, resp.Data)
		if err != nil {
			return nil, fmt.Errorf("scan page at offset %d: %w", offset, err)
		}
		rows = append(rows, page...)

		if len(resp.Data) < s.pageSize {
			break
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"market": s.market,
		"rows":   len(rows),
	}).Debug("Scan completed")

	if !s.opts.ApplyVCP {
		return rows, nil
	}

	qualified := make([]Row, 0, len(rows))
	for _, row := range rows {
		if QualifiesVCP(row) {
			qualified = append(qualified, row)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"market":     s.market,
		"candidates": len(rows),
		"qualified":  len(qualified),
	}).Info("VCP qualification applied")

	return qualified, nil
}

// zipRows pairs one page's column list against each returned value array.
// A value array shorter than the column list yields nil for the trailing
// columns. A row without a symbol violates the provider contract.
func zipRows(columns []string, data []ResponseRow) ([]Row, error) {
	rows := make([]Row, 0, len(data))
	for _, item := range data {
		if item.Symbol == "" {
			return nil, fmt.Errorf("%w: row without symbol", ErrDecode)
		}

		row := make(Row, len(columns)+1)
		row["symbol"] = item.Symbol
		for idx, col := range columns {
			if idx < len(item.Values) {
				row[col] = item.Values[idx]
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
