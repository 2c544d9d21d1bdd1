package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const maxRetries = 3
const baseDelay = 2 * time.Second

const defaultClaudeBaseURL = "https://api.anthropic.com/v1"

type claude struct {
	client  anthropic.Client
	apiKey  string
	model   string
	baseURL string
}

// Raw API types for the streaming path (SSE over the messages endpoint).
type rawMessage struct {
	Role    string            `json:"role"`
	Content []rawContentBlock `json:"content"`
}

type rawContentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *rawMediaSource `json:"source,omitempty"`
}

type rawMediaSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type rawRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []rawMessage `json:"messages"`
	Stream    bool         `json:"stream,omitempty"`
}

type rawStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newClaude(apiKey, model, baseURL string) LLM {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != defaultClaudeBaseURL {
		// the SDK prepends /v1 itself
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/v1")))
	}

	return &claude{
		client:  anthropic.NewClient(opts...),
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
	}
}

func (c *claude) Chat(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	anthropicMessages := c.convertMessages(messages)

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  anthropicMessages,
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	var resp *anthropic.Message
	var err error
	for attempt := range maxRetries {
		resp, err = c.client.Messages.New(ctx, params)
		if err == nil {
			break
		}
		if !isRetryableError(err) {
			return "", err
		}
		if attempt < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<attempt)
			time.Sleep(delay)
		}
	}
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", nil
}

// ChatStream uses the raw SSE API; the SDK path stays reserved for the
// buffered Chat call.
func (c *claude) ChatStream(ctx context.Context, systemPrompt string, messages []Message) (<-chan StreamChunk, error) {
	req := rawRequest{
		Model:     c.model,
		MaxTokens: 4096,
		System:    systemPrompt,
		Messages:  c.convertMessagesRaw(messages),
		Stream:    true,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	out := make(chan StreamChunk)
	go c.streamResponse(ctx, resp.Body, out)

	return out, nil
}

func (c *claude) streamResponse(ctx context.Context, body io.ReadCloser, out chan<- StreamChunk) {
	defer close(out)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			out <- StreamChunk{Done: true, Err: ctx.Err()}
			return
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var event rawStreamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &event); err != nil {
			continue
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				out <- StreamChunk{Delta: event.Delta.Text}
			}
		case "message_stop":
			out <- StreamChunk{Done: true}
			return
		case "error":
			msg := "stream error"
			if event.Error != nil {
				msg = event.Error.Message
			}
			out <- StreamChunk{Done: true, Err: fmt.Errorf("api error: %s", msg)}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		out <- StreamChunk{Done: true, Err: err}
		return
	}

	out <- StreamChunk{Done: true}
}

func isRetryableError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "529") ||
		strings.Contains(errStr, "overloaded") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "502")
}

func (c *claude) convertMessages(messages []Message) []anthropic.MessageParam {
	var result []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			var blocks []anthropic.ContentBlockParamUnion

			for _, img := range msg.Images {
				mime := img.MimeType
				if mime == "" {
					mime = "image/jpeg"
				}
				blocks = append(blocks, anthropic.NewImageBlockBase64(
					mime,
					base64.StdEncoding.EncodeToString(img.Data),
				))
			}

			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}

			if len(blocks) > 0 {
				result = append(result, anthropic.NewUserMessage(blocks...))
			}
		}
	}

	return result
}

func (c *claude) convertMessagesRaw(messages []Message) []rawMessage {
	var result []rawMessage

	for _, msg := range messages {
		var blocks []rawContentBlock

		role := msg.Role
		if role != "assistant" {
			role = "user"
			for _, img := range msg.Images {
				mime := img.MimeType
				if mime == "" {
					mime = "image/jpeg"
				}
				blocks = append(blocks, rawContentBlock{
					Type: "image",
					Source: &rawMediaSource{
						Type:      "base64",
						MediaType: mime,
						Data:      base64.StdEncoding.EncodeToString(img.Data),
					},
				})
			}
		}

		if msg.Content != "" {
			blocks = append(blocks, rawContentBlock{Type: "text", Text: msg.Content})
		}

		if len(blocks) > 0 {
			result = append(result, rawMessage{Role: role, Content: blocks})
		}
	}

	return result
}
