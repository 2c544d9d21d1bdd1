package llm

import "context"

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// ImageContent is an inline image attached to a message.
type ImageContent struct {
	Data     []byte
	MimeType string
}

type Message struct {
	Role    string
	Content string
	Images  []ImageContent
}

// StreamChunk is one fragment of a streamed completion. Err is set on the
// terminal chunk when the stream failed mid-flight.
type StreamChunk struct {
	Delta string
	Done  bool
	Err   error
}

// LLM is a chat model. ChatStream returns fragments in delivery order; the
// channel is closed after the terminal chunk.
type LLM interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message) (string, error)
	ChatStream(ctx context.Context, systemPrompt string, messages []Message) (<-chan StreamChunk, error)
}
