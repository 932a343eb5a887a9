package tradingview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitkwok/tightzone/internal/screener"
	"github.com/kitkwok/tightzone/pkg/httputil"
	"github.com/kitkwok/tightzone/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httputil.New(logger.NewNop(), time.Second).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), srv.URL), srv
}

func TestScanPostsPayloadAndDecodesRows(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"columns": []string{"close", "name"},
			"data": []map[string]interface{}{
				{"s": "NASDAQ:AAPL", "d": []interface{}{190.5, "Apple"}},
			},
		})
	})

	req := &screener.Request{
		Markets: []string{"america"},
		Columns: []string{"close", "name"},
		Range:   [2]int{0, 99},
	}

	resp, err := client.Scan(context.Background(), "america", req)
	require.NoError(t, err)

	assert.Equal(t, "/america/scan", gotPath)
	assert.Equal(t, []interface{}{"america"}, gotPayload["markets"])
	assert.Contains(t, gotPayload, "range")
	assert.Contains(t, gotPayload, "sort")
	assert.Contains(t, gotPayload, "filter")
	assert.Contains(t, gotPayload, "symbols")
	assert.Contains(t, gotPayload, "options")

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "NASDAQ:AAPL", resp.Data[0].Symbol)
	assert.Equal(t, []string{"close", "name"}, resp.Columns)
}

func TestScanMapsErrorBodyToProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": "unknown market",
		})
	})

	_, err := client.Scan(context.Background(), "atlantis", &screener.Request{})
	assert.ErrorIs(t, err, screener.ErrProvider)
}

func TestScanMapsBadStatusToTransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Scan(context.Background(), "america", &screener.Request{})
	assert.ErrorIs(t, err, screener.ErrTransport)
}

func TestScanMapsBadJSONToDecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.Scan(context.Background(), "america", &screener.Request{})
	assert.ErrorIs(t, err, screener.ErrDecode)
}
