package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"chat-server/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID uint   `gorm:"index:idx_conversations_user_updated_at;not null"`
	Title  string `gorm:"type:varchar(255);not null;default:'New Conversation'"`

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// Message stores each message for a conversation.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ConversationID uint           `gorm:"uniqueIndex:idx_messages_conversation_sequence;not null"`
	Content        string         `gorm:"type:text;not null"`
	IsUser         bool           `gorm:"not null"`
	Sequence       int64          `gorm:"uniqueIndex:idx_messages_conversation_sequence;not null"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// ===============================================
// Conversion Functions
// ===============================================

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	messages := make([]conversation.Message, len(c.Messages))
	for i, m := range c.Messages {
		messages[i] = *m.EtoD()
	}

	return &conversation.Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() *conversation.Message {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		// Corrupt metadata is dropped rather than failing the read.
		_ = json.Unmarshal(m.Metadata, &metadata)
	}

	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		IsUser:         m.IsUser,
		Sequence:       m.Sequence,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *conversation.Message) (*Message, error) {
	var metadata datatypes.JSON
	if m.Metadata != nil {
		raw, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = raw
	}

	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		IsUser:         m.IsUser,
		Sequence:       m.Sequence,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}, nil
}
