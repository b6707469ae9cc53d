// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slabot/slabot/lib/netutil"
	"github.com/slabot/slabot/lib/secret"
)

// DefaultAPIURL is the public Bot API.
const DefaultAPIURL = "https://api.telegram.org"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// APIURL is the Bot API base URL. Empty means DefaultAPIURL.
	APIURL string
	// Token is the bot token. The caller retains ownership.
	Token *secret.Buffer
	// HTTPClient is used for all requests. If nil, a client without a
	// global timeout is used; each call is bounded by its context.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client calls the Bot API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      *secret.Buffer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Bot API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == nil {
		return nil, fmt.Errorf("telegram: Token is required")
	}
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("telegram: invalid APIURL %q: %w", apiURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(apiURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// GetMe returns the bot's own user.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SendMessage sends one message. Text must already fit in
// MaxMessageLength; use Send for arbitrary text.
func (c *Client) SendMessage(ctx context.Context, request SendMessageRequest) (*Message, error) {
	if request.ChatID == "" {
		return nil, fmt.Errorf("telegram: chat id is required")
	}
	var message Message
	if err := c.call(ctx, "sendMessage", request, &message); err != nil {
		return nil, err
	}
	c.logger.Debug("sent telegram message",
		"chat_id", request.ChatID,
		"message_id", message.MessageID,
		"length", len(request.Text),
	)
	return &message, nil
}

// Send delivers text to chatID, split into as many messages as needed.
// Parts are sent in order and sending stops at the first failure.
func (c *Client) Send(ctx context.Context, chatID, text, parseMode string) error {
	parts := SplitMessage(text, MaxMessageLength)
	for i, part := range parts {
		_, err := c.SendMessage(ctx, SendMessageRequest{
			ChatID:             chatID,
			Text:               part,
			ParseMode:          parseMode,
			LinkPreviewOptions: &LinkPreviewOptions{IsDisabled: true},
		})
		if err != nil {
			if len(parts) > 1 {
				return fmt.Errorf("sending part %d of %d: %w", i+1, len(parts), err)
			}
			return err
		}
	}
	return nil
}

// GetUpdates long-polls for message updates with id >= offset. The
// server holds the request for up to timeout.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	request := struct {
		Offset         int64    `json:"offset,omitempty"`
		Timeout        int      `json:"timeout"`
		AllowedUpdates []string `json:"allowed_updates"`
	}{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", request, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// CloseIdleConnections drops pooled connections after a network error.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// call posts body to the named method and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	var bodyReader *bytes.Reader
	if body == nil {
		bodyReader = bytes.NewReader([]byte("{}"))
	} else {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("telegram: encoding %s request: %w", method, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bodyReader)
	if err != nil {
		return fmt.Errorf("telegram: creating %s request: %s", method, c.redact(err.Error()))
	}
	request.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.baseURL + "/bot<redacted>/" + method
		}
		return fmt.Errorf("telegram: %s request failed: %w", method, err)
	}
	defer httpResponse.Body.Close()

	data, err := netutil.ReadResponse(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("telegram: reading %s response: %w", method, err)
	}

	var envelope response
	if err := json.Unmarshal(data, &envelope); err != nil {
		if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
			return &APIError{Method: method, Code: httpResponse.StatusCode, Description: http.StatusText(httpResponse.StatusCode)}
		}
		return fmt.Errorf("telegram: decoding %s response: %w", method, err)
	}
	if !envelope.OK {
		apiErr := &APIError{Method: method, Code: envelope.ErrorCode, Description: envelope.Description}
		if apiErr.Code == 0 {
			apiErr.Code = httpResponse.StatusCode
		}
		if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(envelope.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("telegram: decoding %s result: %w", method, err)
	}
	return nil
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token.String() + "/" + method
}

func (c *Client) redact(text string) string {
	return strings.ReplaceAll(text, c.token.String(), "<redacted>")
}
