package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kitkwok/tightzone/internal/screener"
)

// NewsItem is one recent article for a symbol.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Publisher   string    `json:"publisher"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"publishedAt"`
}

// searchPayload is the news search response shape.
type searchPayload struct {
	News []struct {
		Title               string  `json:"title"`
		Link                string  `json:"link"`
		Publisher           string  `json:"publisher"`
		Summary             string  `json:"summary"`
		ProviderPublishTime float64 `json:"providerPublishTime"`
		Provider            struct {
			DisplayName string `json:"displayName"`
		} `json:"provider"`
	} `json:"news"`
}

// RecentNews returns at most limit articles for symbol published within
// the past days days. Items without a usable title or link, or outside
// the window, are skipped.
func (c *Client) RecentNews(ctx context.Context, symbol string, limit, days int) ([]NewsItem, error) {
	ticker := normalizeSymbol(symbol)
	if ticker == "" {
		return nil, nil
	}

	params := url.Values{
		"q":           {ticker},
		"lang":        {"en-US"},
		"region":      {"US"},
		"quotesCount": {"0"},
		"newsCount":   {strconv.Itoa(limit)},
	}
	fullURL := fmt.Sprintf("%s?%s", c.searchBaseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch news for %s: %v", screener.ErrTransport, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read news response: %v", screener.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: news endpoint returned status %d for %s",
			screener.ErrTransport, resp.StatusCode, symbol)
	}

	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: news response is not valid JSON: %v", screener.ErrDecode, err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	items := make([]NewsItem, 0, limit)

	for _, raw := range payload.News {
		if raw.Title == "" || raw.Link == "" {
			continue
		}
		if raw.ProviderPublishTime == 0 {
			continue
		}

		publishedAt := time.Unix(int64(raw.ProviderPublishTime), 0).UTC()
		if publishedAt.Before(cutoff) {
			continue
		}

		publisher := raw.Publisher
		if publisher == "" {
			publisher = raw.Provider.DisplayName
		}
		if publisher == "" {
			publisher = "Unknown"
		}

		items = append(items, NewsItem{
			Title:       raw.Title,
			URL:         raw.Link,
			Publisher:   publisher,
			Summary:     raw.Summary,
			PublishedAt: publishedAt,
		})

		if len(items) >= limit {
			break
		}
	}

	return items, nil
}
