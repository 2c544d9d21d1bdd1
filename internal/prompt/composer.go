// Package prompt builds the multimodal request for a turn: fixed persona,
// serialized conversation so far, the user utterance and, when available,
// the captured still image.
package prompt

import (
	"os"
	"strings"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/llm"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/media"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

// Payload is a composed request ready for the response engine.
type Payload struct {
	Question string
	Messages []llm.Message
	HasImage bool
}

type Composer struct {
	persona string
}

func NewComposer(personaPath string) *Composer {
	return &Composer{persona: loadPersona(personaPath)}
}

// Compose builds the turn payload. A missing or unreadable image is the
// expected "no image yet" path and yields a text-only payload.
func (c *Composer) Compose(turns []transcript.Turn, utterance, imagePath string) Payload {
	var text strings.Builder
	text.WriteString(c.persona)
	text.WriteString("\n\nConversa atual:\n")
	text.WriteString(serializeTurns(turns))
	text.WriteString("\n\nUser: ")
	text.WriteString(utterance)
	text.WriteString("\n")

	msg := llm.Message{Role: "user", Content: text.String()}
	payload := Payload{Question: utterance}

	if encoded := encodeImage(imagePath); encoded != nil {
		msg.Images = []llm.ImageContent{{Data: encoded, MimeType: "image/jpeg"}}
		payload.HasImage = true
	}

	payload.Messages = []llm.Message{msg}
	return payload
}

// serializeTurns linearizes the transcript as alternating User/Assistant
// lines in strict append order.
func serializeTurns(turns []transcript.Turn) string {
	var b strings.Builder
	for _, turn := range turns {
		switch turn.Speaker {
		case transcript.SpeakerAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// encodeImage reads and re-encodes the captured image as baseline JPEG.
// Any failure is treated as "no image", never as a composer error.
func encodeImage(path string) []byte {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("captured image unreadable, composing text-only", "path", path, "error", err)
		return nil
	}

	encoded, err := media.EncodeJPEG(data)
	if err != nil {
		logger.Debug("captured image re-encode failed, composing text-only", "path", path, "error", err)
		return nil
	}

	return encoded
}
