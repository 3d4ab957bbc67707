package requests

// CreateConversationRequest creates a conversation for a user.
type CreateConversationRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Title  string `json:"title"`
}

// UpdateConversationRequest renames a conversation.
type UpdateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateMessageRequest appends a message to a conversation.
type CreateMessageRequest struct {
	Content  string         `json:"content" binding:"required"`
	IsUser   *bool          `json:"is_user"`
	Metadata map[string]any `json:"metadata"`
}
