// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/slabot/slabot/lib/aging"
	"github.com/slabot/slabot/lib/netutil"
	"github.com/slabot/slabot/lib/sla"
)

// DefaultTimeout bounds a single fetch when ClientConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// URLs maps every endpoint identifier the client may fetch to its
	// URL.
	URLs map[Endpoint]string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client fetches report data. It is safe for concurrent use.
type Client struct {
	urls       map[Endpoint]string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the endpoint table and returns a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if len(config.URLs) == 0 {
		return nil, fmt.Errorf("metrics: no endpoint URLs configured")
	}
	urls := make(map[Endpoint]string, len(config.URLs))
	for endpoint, raw := range config.URLs {
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("metrics: invalid URL for %s: %w", endpoint, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("metrics: URL for %s must be http or https, got %q", endpoint, raw)
		}
		urls[endpoint] = raw
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		urls:       urls,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Fetch posts params to endpoint and decodes the JSON response into out.
// A nil out discards the body after checking the status.
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint, params Params, out any) error {
	target, ok := c.urls[endpoint]
	if !ok {
		return &FetchError{Endpoint: endpoint, Message: "unknown endpoint"}
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("metrics: encoding %s params: %w", endpoint, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(encoded))
	if err != nil {
		return &FetchError{Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		message := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			message = fmt.Sprintf("timeout after %s", c.timeout)
		}
		return &FetchError{Endpoint: endpoint, Message: message, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		message := fmt.Sprintf("request failed with status code %d", response.StatusCode)
		if body := netutil.ErrorBody(response.Body); body != "" {
			message += ": " + body
		}
		return &FetchError{Endpoint: endpoint, Message: message, StatusCode: response.StatusCode}
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Message: err.Error(), StatusCode: response.StatusCode, Err: err}
	}

	c.logger.Debug("fetched metric",
		"endpoint", string(endpoint),
		"start_date", params.StartDate,
		"end_date", params.EndDate,
		"bytes", len(body),
		"duration", time.Since(started),
	)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Reason: err.Error()}
	}
	return nil
}

// FetchCount fetches an endpoint answering [{"count_id": N}].
func (c *Client) FetchCount(ctx context.Context, endpoint Endpoint, params Params) (int64, error) {
	var rows []map[string]json.RawMessage
	if err := c.Fetch(ctx, endpoint, params, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &MalformedResponseError{Endpoint: endpoint, Field: "[0]", Reason: "empty array"}
	}
	raw, ok := rows[0]["count_id"]
	if !ok {
		return 0, &MalformedResponseError{Endpoint: endpoint, Field: "[0].count_id", Reason: "missing"}
	}
	count, err := sla.ParseCount(raw)
	if err != nil {
		return 0, &MalformedResponseError{Endpoint: endpoint, Field: "[0].count_id", Reason: err.Error()}
	}
	return count, nil
}

// FetchDelayed fetches the delayed-by-bucket dataset. Bucket and
// category order follow the response.
func (c *Client) FetchDelayed(ctx context.Context, endpoint Endpoint, params Params) (sla.Dataset, error) {
	var envelope struct {
		Data *struct {
			Delayed *json.RawMessage `json:"delayed"`
		} `json:"data"`
	}
	if err := c.Fetch(ctx, endpoint, params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data", Reason: "missing"}
	}
	if envelope.Data.Delayed == nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data.delayed", Reason: "missing"}
	}

	var dataset sla.Dataset
	if err := json.Unmarshal(*envelope.Data.Delayed, &dataset); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data.delayed", Reason: err.Error()}
	}
	return dataset, nil
}

// FetchAging fetches per-category aging counters.
func (c *Client) FetchAging(ctx context.Context, endpoint Endpoint, params Params) ([]aging.Record, error) {
	var raw json.RawMessage
	if err := c.Fetch(ctx, endpoint, params, &raw); err != nil {
		return nil, err
	}
	var records []aging.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: err.Error()}
	}
	return records, nil
}
