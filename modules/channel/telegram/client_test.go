package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClientSendMessage(t *testing.T) {
	var gotPath string
	var gotReq SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 42, Text: gotReq.Text},
		})
	}))
	defer srv.Close()

	client := NewClient("123:TOKEN", srv.URL)
	msg, err := client.SendMessage(context.Background(), SendMessageRequest{
		ChatID: 200,
		Text:   "hello",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if gotPath != "/bot123:TOKEN/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ChatID != 200 || gotReq.Text != "hello" {
		t.Errorf("request = %+v", gotReq)
	}
	if msg.MessageID != 42 {
		t.Errorf("MessageID = %d, want 42", msg.MessageID)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, APIResponse[json.RawMessage]{
			OK:          false,
			ErrorCode:   403,
			Description: "Forbidden: bot was blocked by the user",
		})
	}))
	defer srv.Close()

	client := NewClient("123:TOKEN", srv.URL)
	_, err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "hi"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Code != 403 {
		t.Errorf("Code = %d, want 403", apiErr.Code)
	}
	if !strings.Contains(apiErr.Error(), "Forbidden") {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestClientRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(t, w, APIResponse[json.RawMessage]{
				OK:          false,
				ErrorCode:   429,
				Description: "Too Many Requests",
				Parameters:  &ResponseParameters{RetryAfter: 1},
			})
			return
		}
		writeJSON(t, w, APIResponse[Message]{OK: true, Result: Message{MessageID: 7}})
	}))
	defer srv.Close()

	client := NewClient("123:TOKEN", srv.URL)
	msg, err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "hi"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.MessageID != 7 {
		t.Errorf("MessageID = %d, want 7", msg.MessageID)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestClientRateLimitRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		writeJSON(t, w, APIResponse[json.RawMessage]{
			OK:          false,
			ErrorCode:   429,
			Description: "Too Many Requests",
			Parameters:  &ResponseParameters{RetryAfter: 60},
		})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	client := NewClient("123:TOKEN", srv.URL)
	_, err := client.SendMessage(ctx, SendMessageRequest{ChatID: 1, Text: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClientGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123:TOKEN/getMe" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(t, w, APIResponse[User]{
			OK:     true,
			Result: User{ID: 1, IsBot: true, FirstName: "Cheeky", Username: "cheeky_bot"},
		})
	}))
	defer srv.Close()

	client := NewClient("123:TOKEN", srv.URL)
	user, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if user.Username != "cheeky_bot" || !user.IsBot {
		t.Errorf("user = %+v", user)
	}
}
