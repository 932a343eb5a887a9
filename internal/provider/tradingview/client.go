package tradingview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/httputil"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// Client talks to the TradingView scanner endpoint. It implements
// screener.Scanner; all scanner traffic goes through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new scanner client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// scanResponse is the raw wire shape. A non-empty error field marks a
// request-level failure regardless of the HTTP status.
type scanResponse struct {
	Columns []string               `json:"columns"`
	Data    []screener.ResponseRow `json:"data"`
	Error   string                 `json:"error"`
}

// Scan submits one page query to <base>/<market>/scan and decodes the
// tabular response.
func (c *Client) Scan(ctx context.Context, market string, req *screener.Request) (*screener.Response, error) {
	url := fmt.Sprintf("%s/%s/scan", c.baseURL, market)

	resp, err := c.httpClient.PostJSON(ctx, url, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", screener.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read scanner response: %v", screener.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: scanner returned status %d", screener.ErrTransport, resp.StatusCode)
	}

	var decoded scanResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: scanner response is not valid JSON: %v", screener.ErrDecode, err)
	}

	if decoded.Error != "" {
		return nil, fmt.Errorf("%w: %s", screener.ErrProvider, decoded.Error)
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"range":  req.Range,
		"rows":   len(decoded.Data),
	}).Debug("Scanner page fetched")

	return &screener.Response{
		Columns: decoded.Columns,
		Data:    decoded.Data,
	}, nil
}
