package responses

import (
	"time"

	"chat-server/internal/domain/chat"
	"chat-server/internal/domain/conversation"
)

// ConversationResponse is returned to clients for a single conversation.
type ConversationResponse struct {
	ID        uint              `json:"id"`
	UserID    uint              `json:"user_id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

// SummaryResponse is one row of a conversation listing.
type SummaryResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

// MessageResponse is returned to clients for a single message.
type MessageResponse struct {
	ID             uint           `json:"id"`
	ConversationID uint           `json:"conversation_id"`
	Content        string         `json:"content"`
	IsUser         bool           `json:"is_user"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ChatResponse is the outcome of a chat turn.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID uint   `json:"conversation_id"`
	MessageID      uint   `json:"message_id"`
}

// FromConversation maps the domain conversation to DTO.
func FromConversation(c *conversation.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, m := range c.Messages {
		resp.Messages = append(resp.Messages, FromMessage(&m))
	}
	return resp
}

// FromSummary maps a listing row to DTO.
func FromSummary(s *conversation.Summary) SummaryResponse {
	return SummaryResponse{
		ID:              s.ID,
		Title:           s.Title,
		UpdatedAt:       s.UpdatedAt,
		LastMessage:     s.LastMessage,
		LastMessageTime: s.LastMessageTime,
	}
}

// FromMessage maps the domain message to DTO.
func FromMessage(m *conversation.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		IsUser:         m.IsUser,
		Metadata:       m.Metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// FromTurnResult maps a completed chat turn to DTO.
func FromTurnResult(r *chat.TurnResult) ChatResponse {
	return ChatResponse{
		Response:       r.Response,
		ConversationID: r.ConversationID,
		MessageID:      r.MessageID,
	}
}
