package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/llm"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/prompt"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

type fakeLLM struct {
	chunks    []llm.StreamChunk
	streamErr error
	answer    string
	chatErr   error
	chatCalls int
}

func (f *fakeLLM) Chat(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.answer, nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, systemPrompt string, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	ch := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func TestRespondAccumulatesStream(t *testing.T) {
	model := &fakeLLM{chunks: []llm.StreamChunk{
		{Delta: "O Consultor GIOR "},
		{Delta: "tem um veredito: "},
		{Delta: "aprovado.", Done: true},
	}}
	log := transcript.NewLog()
	e := New(model, log)

	answer, err := e.Respond(context.Background(), prompt.Payload{Question: "e aí?"})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if answer != "O Consultor GIOR tem um veredito: aprovado." {
		t.Errorf("answer: %q", answer)
	}
}

func TestRespondCommitsExchangeInOrder(t *testing.T) {
	model := &fakeLLM{chunks: []llm.StreamChunk{{Delta: "resposta", Done: true}}}
	log := transcript.NewLog()
	e := New(model, log)

	if _, err := e.Respond(context.Background(), prompt.Payload{Question: "pergunta"}); err != nil {
		t.Fatalf("respond: %v", err)
	}

	turns := log.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Speaker != transcript.SpeakerUser || turns[0].Text != "pergunta" {
		t.Errorf("first turn: %+v", turns[0])
	}
	if turns[1].Speaker != transcript.SpeakerAssistant || turns[1].Text != "resposta" {
		t.Errorf("second turn: %+v", turns[1])
	}
}

func TestRespondLeavesTranscriptOnStreamError(t *testing.T) {
	model := &fakeLLM{chunks: []llm.StreamChunk{
		{Delta: "partial "},
		{Err: errors.New("connection reset")},
	}}
	log := transcript.NewLog()
	e := New(model, log)

	if _, err := e.Respond(context.Background(), prompt.Payload{Question: "pergunta"}); err == nil {
		t.Fatal("expected stream error")
	}
	if log.Len() != 0 {
		t.Errorf("transcript should be untouched, got %d turns", log.Len())
	}
}

func TestRespondFallsBackToBufferedChat(t *testing.T) {
	model := &fakeLLM{streamErr: errors.New("dial failed"), answer: "resposta buferizada"}
	log := transcript.NewLog()
	e := New(model, log)

	answer, err := e.Respond(context.Background(), prompt.Payload{Question: "pergunta"})
	if err != nil {
		t.Fatalf("fallback should succeed: %v", err)
	}
	if answer != "resposta buferizada" {
		t.Errorf("answer: %q", answer)
	}
	if model.chatCalls != 1 {
		t.Errorf("chat called %d times, want 1", model.chatCalls)
	}

	turns := log.Turns()
	if len(turns) != 2 || turns[0].Text != "pergunta" || turns[1].Text != "resposta buferizada" {
		t.Errorf("transcript after fallback: %+v", turns)
	}
}

func TestRespondLeavesTranscriptWhenFallbackFails(t *testing.T) {
	model := &fakeLLM{streamErr: errors.New("dial failed"), chatErr: errors.New("still down")}
	log := transcript.NewLog()
	e := New(model, log)

	if _, err := e.Respond(context.Background(), prompt.Payload{Question: "pergunta"}); err == nil {
		t.Fatal("expected error when both paths fail")
	}
	if log.Len() != 0 {
		t.Errorf("transcript should be untouched, got %d turns", log.Len())
	}
}
