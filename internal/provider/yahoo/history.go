package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kitkwok/tightzone/internal/chart"
	"github.com/kitkwok/tightzone/internal/screener"
)

// chartPayload is the v8 chart response shape. Close and volume values
// arrive as nullable numbers positionally aligned with the timestamps.
type chartPayload struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the chronological close/volume series for a symbol.
// period and interval use the provider's notation ("6mo", "1d").
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]chart.PriceBar, error) {
	ticker := normalizeSymbol(symbol)
	fullURL := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		c.chartBaseURL, url.PathEscape(ticker), url.QueryEscape(interval), url.QueryEscape(period))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history for %s: %v", screener.ErrTransport, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read history response: %v", screener.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: history endpoint returned status %d for %s",
			screener.ErrTransport, resp.StatusCode, symbol)
	}

	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: history response is not valid JSON: %v", screener.ErrDecode, err)
	}

	series, err := parseHistory(&payload)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": ticker,
		"bars":   len(series),
	}).Debug("Fetched price history")

	return series, nil
}

// parseHistory validates the nested payload and assembles the series.
// Bars with a null close are dropped; a missing volume array defaults
// every volume to 0.
func parseHistory(payload *chartPayload) ([]chart.PriceBar, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", screener.ErrProvider,
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: history response missing result data", screener.ErrDecode)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: history response missing quote data", screener.ErrDecode)
	}

	quote := result.Indicators.Quote[0]
	if quote.Close == nil {
		return nil, fmt.Errorf("%w: history response missing close prices", screener.ErrDecode)
	}

	series := make([]chart.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		series = append(series, chart.PriceBar{
			Time:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}

	return series, nil
}
