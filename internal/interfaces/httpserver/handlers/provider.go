package handlers

import (
	"github.com/rs/zerolog"

	"chat-server/internal/domain/chat"
	"chat-server/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Identity     *IdentityHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(conversationService conversation.Service, chatService chat.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversationService, log),
		Chat:         NewChatHandler(chatService, log),
		Identity:     NewIdentityHandler(),
	}
}
