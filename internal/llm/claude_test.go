package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClaudeChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "key" {
			t.Errorf("x-api-key: %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header missing")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\"}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"O Consultor \"}}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"GIOR\"}}\n\n")
		fmt.Fprint(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer srv.Close()

	model := newClaude("key", "claude-sonnet-4-20250514", srv.URL)
	stream, err := model.ChatStream(context.Background(), "persona", []Message{{Role: "user", Content: "oi"}})
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	text, err := collectStream(t, stream)
	if err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if text != "O Consultor GIOR" {
		t.Errorf("accumulated: %q", text)
	}
}

func TestClaudeChatStreamErrorEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"partial\"}}\n\n")
		fmt.Fprint(w, "event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
	}))
	defer srv.Close()

	model := newClaude("key", "claude-sonnet-4-20250514", srv.URL)
	stream, err := model.ChatStream(context.Background(), "", []Message{{Role: "user", Content: "oi"}})
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	if _, err := collectStream(t, stream); err == nil {
		t.Fatal("expected error from the error event")
	} else if !strings.Contains(err.Error(), "Overloaded") {
		t.Errorf("error: %v", err)
	}
}

func TestClaudeChatStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	model := newClaude("bad", "claude-sonnet-4-20250514", srv.URL)
	if _, err := model.ChatStream(context.Background(), "", []Message{{Role: "user", Content: "oi"}}); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestClaudeChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514","content":[{"type":"text","text":"resposta completa"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer srv.Close()

	model := newClaude("key", "claude-sonnet-4-20250514", srv.URL)
	answer, err := model.Chat(context.Background(), "persona", []Message{{Role: "user", Content: "oi"}})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "resposta completa" {
		t.Errorf("answer: %q", answer)
	}
}

func TestConvertMessagesRaw(t *testing.T) {
	c := &claude{}

	msgs := c.convertMessagesRaw([]Message{
		{Role: "user", Content: "olha isso", Images: []ImageContent{{Data: []byte{0xff, 0xd8}, MimeType: "image/jpeg"}}},
		{Role: "assistant", Content: "vi sim"},
	})

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	user := msgs[0]
	if user.Role != "user" || len(user.Content) != 2 {
		t.Fatalf("user message: %+v", user)
	}
	if user.Content[0].Type != "image" || user.Content[0].Source == nil || user.Content[0].Source.MediaType != "image/jpeg" {
		t.Errorf("image block: %+v", user.Content[0])
	}
	if user.Content[1].Type != "text" || user.Content[1].Text != "olha isso" {
		t.Errorf("text block: %+v", user.Content[1])
	}

	if msgs[1].Role != "assistant" || msgs[1].Content[0].Text != "vi sim" {
		t.Errorf("assistant message: %+v", msgs[1])
	}
}

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		errors.New("api error (status 529): overloaded"),
		errors.New("Overloaded"),
		errors.New("api error (status 503): service unavailable"),
		errors.New("api error (status 502): bad gateway"),
	}
	for _, err := range retryable {
		if !isRetryableError(err) {
			t.Errorf("%v should be retryable", err)
		}
	}

	permanent := []error{
		errors.New("api error (status 401): invalid x-api-key"),
		errors.New("api error (status 400): max_tokens required"),
	}
	for _, err := range permanent {
		if isRetryableError(err) {
			t.Errorf("%v should not be retryable", err)
		}
	}
}
