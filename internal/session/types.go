package session

import (
	"context"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/prompt"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

// Capturer is the capture source adapter as the controller sees it.
type Capturer interface {
	Activate() (already bool, err error)
	Deactivate() (already bool)
	ReadFrame() ([]byte, error)
}

// Transcriber turns raw audio into text. Empty text with nil error means
// no speech was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Composer builds the multimodal payload for a turn.
type Composer interface {
	Compose(turns []transcript.Turn, utterance, imagePath string) prompt.Payload
}

// Responder runs one chat exchange and owns the transcript commit.
type Responder interface {
	Respond(ctx context.Context, payload prompt.Payload) (string, error)
}

// Speaker synthesizes the final answer to an audio file.
type Speaker interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Status reports the outcome of an activate or deactivate transition.
type Status struct {
	Active  bool
	Message string
}

// CaptureResult reports the outcome of a capture or upload.
type CaptureResult struct {
	Success   bool
	Message   string
	ImagePath string
}

// DescriptionResult is the outcome of a full request-description turn.
type DescriptionResult struct {
	Answer    string
	AudioPath string
	Failed    bool
}
