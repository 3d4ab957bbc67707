package chat

import "context"

// Context carries the auxiliary state handed to the generator for one
// turn. Today it is an identifier passthrough; the generator may grow to
// use message history without this contract changing.
type Context struct {
	ConversationID uint `json:"conversation_id"`
}

// Generator produces reply text for a user message. Implementations must
// not propagate internal failures through Generate: on error they return a
// user-facing fallback reply instead. An error escaping Generate is a
// contract violation and fails the whole turn.
type Generator interface {
	// GetContext returns the context for a conversation. It must be
	// stable and side-effect-free.
	GetContext(ctx context.Context, conversationID uint) Context

	// Generate produces the reply for message given the conversation
	// context.
	Generate(ctx context.Context, message string, convCtx Context) (string, error)
}
