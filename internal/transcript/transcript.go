// Package transcript keeps the running conversation. Append-only, ordered,
// in-memory for the process lifetime. Unbounded growth is accepted: the
// transcript is the sole memory of prior turns.
package transcript

import "sync"

const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Turn is immutable once appended; ordering is the only addressing.
type Turn struct {
	Speaker string
	Text    string
}

type Log struct {
	mu    sync.Mutex
	turns []Turn
}

func NewLog() *Log {
	return &Log{}
}

// AppendExchange records one completed turn: the user question followed by
// the assistant answer, in that order.
func (l *Log) AppendExchange(question, answer string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns,
		Turn{Speaker: SpeakerUser, Text: question},
		Turn{Speaker: SpeakerAssistant, Text: answer},
	)
}

// Turns returns a copy of the transcript in append order.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make([]Turn, len(l.turns))
	copy(copied, l.turns)

	return copied
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
