package requests

// ChatRequest is one inbound chat turn. ConversationID is omitted to start
// a new conversation.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID *uint  `json:"conversation_id"`
}
