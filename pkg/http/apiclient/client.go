// Package apiclient talks to a remote wealth tracker server, letting the
// CLI operate against a shared account instead of the local database.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
	"github.com/ysegev/wealth-tracker/pkg/services"
	"github.com/ysegev/wealth-tracker/pkg/utils"
)

// Client is an authenticated HTTP client for the wealth tracker API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ services.GoalStore = (*Client)(nil)

// New creates a client for the server at baseURL using the given bearer token
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: newHTTPClient(),
	}
}

func newHTTPClient() *http.Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if os.Getenv("WEALTH_HTTP_DEBUG") != "" {
		httpClient.Transport = utils.DebugRoundTripper()
	}
	return httpClient
}

// Login authenticates against the server and returns a client holding the
// issued token
func Login(ctx context.Context, baseURL, userName, password string) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}

	var data struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"user_name": userName,
		"password":  password,
	}, &data)
	if err != nil {
		return nil, err
	}

	c.token = data.Token
	return c, nil
}

// GetMoneyLocations fetches all money locations for the authenticated user
func (c *Client) GetMoneyLocations(ctx context.Context) ([]models.MoneyLocation, error) {
	var locations []models.MoneyLocation
	if err := c.doJSON(ctx, http.MethodGet, "/money-locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetGoals fetches all goals for the authenticated user
func (c *Client) GetGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.doJSON(ctx, http.MethodGet, "/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// UpdateGoalProgress pushes a new current amount for a goal to the server
func (c *Client) UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error {
	return c.doJSON(ctx, http.MethodPut, "/goals/"+goalID+"/progress", map[string]float64{
		"current_amount": currentAmount,
	}, nil)
}

// GetSummary fetches the wealth summary in the given currency
func (c *Client) GetSummary(ctx context.Context, currency models.Currency) (*services.WealthSummary, error) {
	var summary services.WealthSummary
	if err := c.doJSON(ctx, http.MethodGet, "/summary?currency="+string(currency), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return models.ErrAuthenticationExpired
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return fmt.Errorf("request to %s failed: %s", path, envelope.Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data from %s: %w", path, err)
		}
	}

	return nil
}
