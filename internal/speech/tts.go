// Package speech turns the final answer text into an audio file. Audio is
// an enhancement: synthesis failure never fails a turn.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/frames"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
)

const defaultTimeout = 30 * time.Second
const mirrorTimeout = 5 * time.Second

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Voice      string
	Speed      float64
	OutputPath string
}

type Synthesizer struct {
	cfg    Config
	client *http.Client
	mirror frames.Mirror
}

func NewSynthesizer(cfg Config) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	if cfg.Voice == "" {
		cfg.Voice = "onyx"
	}
	if cfg.Speed == 0 {
		// faster than natural cadence, a product choice for pacing
		cfg.Speed = 1.3
	}
	return &Synthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func (s *Synthesizer) SetMirror(m frames.Mirror) {
	s.mirror = m
}

type speechRequest struct {
	Model string  `json:"model"`
	Input string  `json:"input"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// Synthesize writes the spoken answer to the fixed output path,
// overwriting the previous one, and returns that path.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("empty text")
	}

	reqBody := speechRequest{
		Model: s.cfg.Model,
		Input: text,
		Voice: s.cfg.Voice,
		Speed: s.cfg.Speed,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.BaseURL+"/audio/speech", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.cfg.OutputPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(s.cfg.OutputPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}

	if s.mirror != nil {
		mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
		name := filepath.Base(s.cfg.OutputPath)
		if err := s.mirror.Put(mctx, name, audio, "audio/mpeg"); err != nil {
			logger.Warn("answer audio mirror failed", "name", name, "error", err)
		}
		cancel()
	}

	logger.Debug("answer synthesized", "path", s.cfg.OutputPath, "bytes", len(audio))
	return s.cfg.OutputPath, nil
}
