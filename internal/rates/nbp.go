// Package rates pulls currency exchange rates from the National Bank of
// Poland's table A feed and writes them into the currency registry.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFeedURL is the public NBP table A endpoint. Mid rates are
// quoted as PLN per one unit of the foreign currency.
const DefaultFeedURL = "https://api.nbp.pl/api/exchangerates/tables/A/?format=json"

// Rate is one quoted currency from the feed.
type Rate struct {
	Code string
	Name string
	Mid  decimal.Decimal
}

// Client fetches the current table from the NBP API.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type nbpTable struct {
	Table         string `json:"table"`
	EffectiveDate string `json:"effectiveDate"`
	Rates         []struct {
		Currency string          `json:"currency"`
		Code     string          `json:"code"`
		Mid      decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

// Fetch downloads and decodes the current table. The feed wraps the
// single table in a one-element array.
func (c *Client) Fetch(ctx context.Context) ([]Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var tables []nbpTable
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("decode rates: empty response")
	}

	rates := make([]Rate, 0, len(tables[0].Rates))
	for _, r := range tables[0].Rates {
		rates = append(rates, Rate{Code: r.Code, Name: r.Currency, Mid: r.Mid})
	}
	return rates, nil
}
