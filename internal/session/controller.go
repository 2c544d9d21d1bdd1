// Package session holds the authoritative session state and sequences the
// capture / transcription / response / synthesis cycle. One controller, one
// session, transitions serialized by a single lock.
package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/frames"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

// DefaultQuestion substitutes a missing pending question on a
// request-description turn.
const DefaultQuestion = "Descreva a cena"

const previewInterval = 66 * time.Millisecond

type Controller struct {
	mu sync.Mutex

	camera      Capturer
	frames      *frames.Store
	transcriber Transcriber
	composer    Composer
	engine      Responder
	speech      Speaker
	log         *transcript.Log

	active           bool
	pendingQuestion  string
	pendingImagePath string

	audioScratchPath string
	stopPreview      chan struct{}
}

func NewController(
	cam Capturer,
	store *frames.Store,
	transcriber Transcriber,
	composer Composer,
	eng Responder,
	speech Speaker,
	log *transcript.Log,
	audioScratchPath string,
) *Controller {
	return &Controller{
		camera:           cam,
		frames:           store,
		transcriber:      transcriber,
		composer:         composer,
		engine:           eng,
		speech:           speech,
		log:              log,
		audioScratchPath: audioScratchPath,
	}
}

// Activate opens the capture device and starts the preview loop. Failure
// leaves the session inactive and is retryable.
func (c *Controller) Activate() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	already, err := c.camera.Activate()
	if err != nil {
		logger.Warn("activation failed", "error", err)
		return Status{Active: false, Message: "Erro ao ativar câmera"}
	}

	if already {
		return Status{Active: true, Message: "Câmera já está ativa"}
	}

	c.active = true
	// the loop may already be running when the device was lost and
	// reopened without an intervening Deactivate
	if c.stopPreview == nil {
		c.stopPreview = make(chan struct{})
		go c.previewLoop(c.stopPreview)
	}

	logger.Info("session activated")
	return Status{Active: true, Message: "Sistema ativado!"}
}

// Deactivate releases the device. Pending question and image are untouched.
func (c *Controller) Deactivate() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	already := c.camera.Deactivate()
	if already {
		return Status{Active: false, Message: "Sistema já está inativo"}
	}

	c.active = false
	if c.stopPreview != nil {
		close(c.stopPreview)
		c.stopPreview = nil
	}

	logger.Info("session deactivated")
	return Status{Active: false, Message: "Sistema desativado!"}
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// previewLoop keeps the live slot fresh while the session is active. It
// only ever writes the lossy live frame, so it may interleave freely with
// discrete transitions.
func (c *Controller) previewLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(previewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame, err := c.camera.ReadFrame()
			if err != nil {
				continue
			}
			c.frames.UpdateLive(frame)
		}
	}
}

// LiveFrame returns the latest preview frame, or nil when none is
// available yet.
func (c *Controller) LiveFrame() []byte {
	return c.frames.Live()
}

// Capture snapshots the live frame into the captured slot. On success the
// pending image for the next turn points at the new copy; on failure the
// previous pending image survives.
func (c *Controller) Capture() CaptureResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, err := c.frames.Capture()
	if err != nil {
		logger.Warn("capture failed", "error", err)
		return CaptureResult{Success: false, Message: "Erro ao capturar imagem"}
	}

	c.pendingImagePath = path
	return CaptureResult{Success: true, Message: "Imagem capturada!", ImagePath: path}
}

// Upload persists externally supplied image bytes into the same captured
// slot Capture uses. Works whether or not the camera is active.
func (c *Controller) Upload(data []byte) CaptureResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, err := c.frames.SetCapturedFromExternal(data)
	if err != nil {
		logger.Warn("upload failed", "error", err)
		return CaptureResult{Success: false, Message: "Erro ao enviar imagem"}
	}

	c.pendingImagePath = path
	return CaptureResult{Success: true, Message: "Imagem enviada com sucesso!", ImagePath: path}
}

// SubmitAudio transcribes the audio buffer and stores the result as the
// pending question. A transcription failure degrades to an empty question
// rather than aborting the session.
func (c *Controller) SubmitAudio(ctx context.Context, audio []byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.audioScratchPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.audioScratchPath), 0o755); err == nil {
			if err := os.WriteFile(c.audioScratchPath, audio, 0o644); err != nil {
				logger.Warn("audio scratch write failed", "path", c.audioScratchPath, "error", err)
			}
		}
	}

	text, err := c.transcriber.Transcribe(ctx, audio)
	if err != nil {
		logger.Warn("transcription failed, treating as no speech", "error", err)
		text = ""
	}

	c.pendingQuestion = text
	return text
}

// RequestDescription runs one full turn: compose with the current
// transcript, pending question and pending image; stream the model
// response; synthesize the answer. Both pending fields are cleared once a
// response was produced, regardless of the synthesis outcome — and, per
// the original behavior, regardless of a model failure too.
func (c *Controller) RequestDescription(ctx context.Context) DescriptionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	question := c.pendingQuestion
	if question == "" {
		question = DefaultQuestion
	}

	payload := c.composer.Compose(c.log.Turns(), question, c.pendingImagePath)

	result := DescriptionResult{}

	answer, err := c.engine.Respond(ctx, payload)
	if err != nil {
		logger.Error("response failed", "error", err)
		answer = "Erro: " + err.Error()
		result.Failed = true
	}
	result.Answer = answer

	audioPath, err := c.speech.Synthesize(ctx, answer)
	if err != nil {
		logger.Warn("synthesis failed, delivering text only", "error", err)
	} else {
		result.AudioPath = audioPath
	}

	// turn consumed
	c.pendingQuestion = ""
	c.pendingImagePath = ""

	return result
}

// ClearQuestion drops the pending question only. Idempotent.
func (c *Controller) ClearQuestion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingQuestion = ""
}

// PendingQuestion reports the utterance awaiting the next turn.
func (c *Controller) PendingQuestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingQuestion
}

// PendingImagePath reports the captured image awaiting the next turn.
func (c *Controller) PendingImagePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingImagePath
}
