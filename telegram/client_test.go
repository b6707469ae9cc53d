// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slabot/slabot/lib/secret"
)

const testToken = "123456:test-token"

func testBuffer(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(value))
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// fakeBotAPI records sendMessage bodies and answers every call from
// results keyed by method.
type fakeBotAPI struct {
	mu       sync.Mutex
	sent     []SendMessageRequest
	failures map[string]string
}

func (f *fakeBotAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		prefix := "/bot" + testToken + "/"
		if !strings.HasPrefix(request.URL.Path, prefix) {
			t.Errorf("unexpected path %s", request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
			return
		}
		method := strings.TrimPrefix(request.URL.Path, prefix)
		writer.Header().Set("Content-Type", "application/json")

		f.mu.Lock()
		failure, failing := f.failures[method]
		f.mu.Unlock()
		if failing {
			writer.WriteHeader(http.StatusBadRequest)
			writer.Write([]byte(failure))
			return
		}

		switch method {
		case "getMe":
			writer.Write([]byte(`{"ok": true, "result": {"id": 1, "is_bot": true, "first_name": "SLA", "username": "slabot"}}`))
		case "sendMessage":
			var body SendMessageRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Errorf("decoding sendMessage: %v", err)
			}
			f.mu.Lock()
			f.sent = append(f.sent, body)
			id := len(f.sent)
			f.mu.Unlock()
			json.NewEncoder(writer).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"message_id": id, "chat": map[string]any{"id": -100, "type": "group"}},
			})
		case "getUpdates":
			writer.Write([]byte(`{"ok": true, "result": [{"update_id": 7, "message": {"message_id": 1, "chat": {"id": 42, "type": "private"}, "text": "/start"}}]}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
			writer.Write([]byte(`{"ok": false, "error_code": 404, "description": "Not Found"}`))
		}
	})
}

func newTestClient(t *testing.T, api *fakeBotAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)
	client, err := NewClient(ClientConfig{APIURL: server.URL + "/", Token: testBuffer(t, testToken)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestGetMe(t *testing.T) {
	client := newTestClient(t, &fakeBotAPI{})
	user, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if user.Username != "slabot" || !user.IsBot {
		t.Errorf("user = %+v", user)
	}
}

func TestSendMessage(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	message, err := client.SendMessage(context.Background(), SendMessageRequest{
		ChatID:    "-100",
		Text:      "<b>Report</b>",
		ParseMode: ParseModeHTML,
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if message.MessageID != 1 {
		t.Errorf("MessageID = %d, want 1", message.MessageID)
	}
	if len(api.sent) != 1 || api.sent[0].ParseMode != "HTML" || api.sent[0].ChatID != "-100" {
		t.Errorf("sent = %+v", api.sent)
	}

	if _, err := client.SendMessage(context.Background(), SendMessageRequest{Text: "x"}); err == nil {
		t.Error("expected error for empty chat id")
	}
}

func TestSendSplitsLongText(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	line := strings.Repeat("x", 99) + "\n"
	text := strings.Repeat(line, 50) // 5000 characters
	if err := client.Send(context.Background(), "-100", text, ParseModeHTML); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(api.sent))
	}
	if joined := api.sent[0].Text + api.sent[1].Text; joined != text {
		t.Error("parts do not reassemble to the original text")
	}
	for _, sent := range api.sent {
		if sent.LinkPreviewOptions == nil || !sent.LinkPreviewOptions.IsDisabled {
			t.Errorf("link previews not disabled: %+v", sent)
		}
	}
}

func TestAPIError(t *testing.T) {
	api := &fakeBotAPI{failures: map[string]string{
		"sendMessage": `{"ok": false, "error_code": 400, "description": "Bad Request: chat not found"}`,
	}}
	client := newTestClient(t, api)

	err := client.Send(context.Background(), "-999", "hello", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Code != 400 || apiErr.Method != "sendMessage" || !strings.Contains(apiErr.Description, "chat not found") {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !IsAPIError(err, 400) {
		t.Error("IsAPIError(err, 400) = false")
	}
}

func TestRetryAfter(t *testing.T) {
	api := &fakeBotAPI{failures: map[string]string{
		"getUpdates": `{"ok": false, "error_code": 429, "description": "Too Many Requests", "parameters": {"retry_after": 5}}`,
	}}
	client := newTestClient(t, api)

	_, err := client.GetUpdates(context.Background(), 0, time.Second)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.RetryAfter != 5*time.Second {
		t.Fatalf("error = %v, want 429 with RetryAfter 5s", err)
	}
}

func TestGetUpdates(t *testing.T) {
	client := newTestClient(t, &fakeBotAPI{})
	updates, err := client.GetUpdates(context.Background(), 3, time.Second)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 1 || updates[0].UpdateID != 7 || updates[0].Message.Text != "/start" {
		t.Errorf("updates = %+v", updates)
	}
}

func TestTransportErrorRedactsToken(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	apiURL := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{APIURL: apiURL, Token: testBuffer(t, testToken)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), testToken) {
		t.Errorf("error leaks token: %v", err)
	}
	if !strings.Contains(err.Error(), "<redacted>") {
		t.Errorf("error = %v, want redacted URL", err)
	}
}
