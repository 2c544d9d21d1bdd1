// Package engine runs the chat exchange for one turn: stream the composed
// prompt to the model, accumulate the fragments, commit the turn to the
// transcript.
package engine

import (
	"context"
	"strings"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/llm"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/prompt"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

type Engine struct {
	model llm.LLM
	log   *transcript.Log
}

func New(model llm.LLM, log *transcript.Log) *Engine {
	return &Engine{model: model, log: log}
}

// Respond streams the payload to the model and consumes the stream to
// completion. When the stream cannot be opened it falls back to one
// buffered exchange, which also gets the provider's retry handling. On
// success the transcript grows by exactly one user turn and one assistant
// turn, in that order. On failure the transcript is left untouched: a
// failed turn must not pollute conversational memory.
func (e *Engine) Respond(ctx context.Context, payload prompt.Payload) (string, error) {
	stream, err := e.model.ChatStream(ctx, "", payload.Messages)
	if err != nil {
		logger.Warn("stream open failed, using buffered chat", "error", err)
		return e.respondBuffered(ctx, payload)
	}

	var answer strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		answer.WriteString(chunk.Delta)
		if chunk.Done {
			break
		}
	}

	final := answer.String()
	e.log.AppendExchange(payload.Question, final)

	logger.Debug("response complete", "question_len", len(payload.Question), "answer_len", len(final), "image", payload.HasImage)
	return final, nil
}

func (e *Engine) respondBuffered(ctx context.Context, payload prompt.Payload) (string, error) {
	answer, err := e.model.Chat(ctx, "", payload.Messages)
	if err != nil {
		return "", err
	}

	e.log.AppendExchange(payload.Question, answer)
	return answer, nil
}
