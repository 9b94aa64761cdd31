package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/ysegev/wealth-tracker/pkg/utils"
)

// DefaultURL is the public exchange-rate endpoint, USD base.
const DefaultURL = "https://api.exchangerate-api.com/v4/latest/USD"

// Fetcher retrieves a conversion-rate table relative to a USD base.
type Fetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// Client talks to an exchangerate-api compatible endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a rate client for the given endpoint URL. An empty URL
// selects the default public endpoint.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}

	httpClient := &http.Client{}
	if os.Getenv("WEALTH_HTTP_DEBUG") != "" {
		httpClient.Transport = utils.DebugRoundTripper()
	}

	return &Client{url: url, httpClient: httpClient}
}

// The v4 endpoint keys the table as "rates", the v6 one as
// "conversion_rates". Either is accepted.
type ratesResponse struct {
	ConversionRates map[string]float64 `json:"conversion_rates"`
	Rates           map[string]float64 `json:"rates"`
}

// FetchRates performs a single GET against the rate endpoint. Any non-200
// response or malformed body is an error; the caller owns the fallback.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	table := body.ConversionRates
	if len(table) == 0 {
		table = body.Rates
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("rate endpoint returned no conversion rates")
	}

	return table, nil
}

var _ Fetcher = (*Client)(nil)
