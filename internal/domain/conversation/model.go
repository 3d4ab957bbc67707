package conversation

import "time"

// DefaultTitle is assigned when a conversation is created without a title.
const DefaultTitle = "New Conversation"

// Conversation represents one chat thread owned by a single user.
type Conversation struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages,omitempty"`
}

// Message is one utterance within a conversation, authored either by the
// user (IsUser true) or by the response generator.
type Message struct {
	ID             uint           `json:"id"`
	ConversationID uint           `json:"conversation_id"`
	Content        string         `json:"content"`
	IsUser         bool           `json:"is_user"`
	Sequence       int64          `json:"-"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Summary is a conversation list entry carrying a preview of the most
// recent message, when one exists.
type Summary struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

// Scope restricts repository queries to resources owned by UserID. A
// superuser scope matches any owner.
type Scope struct {
	UserID    uint
	Superuser bool
}

// New creates a conversation for the given owner, defaulting the title.
func New(userID uint, title string) *Conversation {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now().UTC()
	return &Conversation{
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
