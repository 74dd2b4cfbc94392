package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the record API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateExpense(ctx context.Context, e Expense) (Expense, error) {
	var out Expense
	if err := c.post(ctx, "/expenses/", e, &out); err != nil {
		return Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return out, nil
}

func (c *Client) CreateIncome(ctx context.Context, in Income) (Income, error) {
	var out Income
	if err := c.post(ctx, "/income/", in, &out); err != nil {
		return Income{}, fmt.Errorf("create income: %w", err)
	}
	return out, nil
}

func (c *Client) Summary(ctx context.Context, userID int64) (Summary, error) {
	var out Summary
	if err := c.get(ctx, "/stats/summary/", userQuery(userID), &out); err != nil {
		return Summary{}, fmt.Errorf("get summary: %w", err)
	}
	return out, nil
}

func (c *Client) StatsByCategory(ctx context.Context, userID int64, days int) ([]CategoryStat, error) {
	q := userQuery(userID)
	q.Set("days", strconv.Itoa(days))
	var out []CategoryStat
	if err := c.get(ctx, "/stats/by-category/", q, &out); err != nil {
		return nil, fmt.Errorf("get category stats: %w", err)
	}
	return out, nil
}

func (c *Client) Balance(ctx context.Context, userID int64) (Balance, error) {
	var out Balance
	if err := c.get(ctx, "/balance/", userQuery(userID), &out); err != nil {
		return Balance{}, fmt.Errorf("get balance: %w", err)
	}
	return out, nil
}

func userQuery(userID int64) url.Values {
	q := make(url.Values)
	q.Set("user_id", strconv.FormatInt(userID, 10))
	return q
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, apiErr.Detail, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
