// Package generator provides response generator implementations behind the
// chat.Generator interface.
package generator

import (
	"context"

	"chat-server/internal/domain/chat"
)

// FallbackReply is returned to the user when a generator backend fails.
// The turn still completes and the reply is persisted like any other.
const FallbackReply = "I'm sorry, I encountered an error processing your request. Please try again later."

// Echo is the default generator. It acknowledges the message verbatim and
// never fails, which makes it the reference implementation of the
// generator contract.
type Echo struct{}

// NewEcho creates an echo generator.
func NewEcho() *Echo {
	return &Echo{}
}

// GetContext returns the minimal per-conversation context.
func (e *Echo) GetContext(_ context.Context, conversationID uint) chat.Context {
	return chat.Context{ConversationID: conversationID}
}

// Generate echoes the user message back.
func (e *Echo) Generate(_ context.Context, message string, _ chat.Context) (string, error) {
	return "I received your message: " + message, nil
}
