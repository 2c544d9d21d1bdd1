// Package transcribe converts raw audio into text through a whisper server
// exposing the OpenAI-compatible transcription endpoint.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
	BeamSize int
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Language == "" {
		cfg.Language = "pt"
	}
	if cfg.BeamSize == 0 {
		cfg.BeamSize = 5
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Text string `json:"text"`
	} `json:"segments"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe sends the audio buffer for segment-level transcription and
// concatenates the segments in emitted order. An empty string with a nil
// error means no speech was recognized; a non-nil error means the service
// failed. Callers that only care about "got a question or not" may treat
// both the same way.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	writer.WriteField("model", c.cfg.Model)
	writer.WriteField("language", c.cfg.Language)
	writer.WriteField("beam_size", strconv.Itoa(c.cfg.BeamSize))
	writer.WriteField("response_format", "verbose_json")

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if tr.Error != nil {
		return "", fmt.Errorf("api error: %s", tr.Error.Message)
	}

	if len(tr.Segments) == 0 {
		return strings.TrimSpace(tr.Text), nil
	}

	parts := make([]string, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
