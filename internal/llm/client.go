// Package llm talks to chat models for study coaching.
package llm

import (
	"context"
	"errors"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoChoices is returned when a model answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// Message is one turn of a chat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client sends a conversation to a chat model and returns its reply.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
