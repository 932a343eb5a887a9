package yahoo

import (
	"strings"

	"github.com/kitkwok/tightzone/pkg/httputil"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// Client handles communication with the Yahoo Finance public endpoints:
// quote history (v8 chart) and news search.
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	chartBaseURL  string
	searchBaseURL string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, chartBaseURL, searchBaseURL string) *Client {
	return &Client{
		httpClient:    httpClient,
		logger:        log,
		chartBaseURL:  strings.TrimRight(chartBaseURL, "/"),
		searchBaseURL: strings.TrimRight(searchBaseURL, "/"),
	}
}

// normalizeSymbol strips a scanner exchange prefix ("NASDAQ:AAPL").
func normalizeSymbol(symbol string) string {
	if idx := strings.Index(symbol, ":"); idx >= 0 {
		return symbol[idx+1:]
	}
	return symbol
}
