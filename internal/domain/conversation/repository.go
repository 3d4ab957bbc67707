package conversation

import "context"

// Repository exposes ownership-scoped persistence for conversations and
// their messages. Lookups scoped to an owner return (nil, nil) when the
// conversation is absent or owned by someone else; the two cases are
// deliberately indistinguishable.
type Repository interface {
	// Create inserts the conversation and backfills its assigned ID and
	// timestamps.
	Create(ctx context.Context, conv *Conversation) error

	// FindByID fetches a conversation within the scope, or nil.
	FindByID(ctx context.Context, id uint, scope Scope) (*Conversation, error)

	// List returns the scope owner's conversations ordered by updated_at
	// descending, each with a last-message preview.
	List(ctx context.Context, scope Scope, skip, limit int) ([]Summary, error)

	// UpdateTitle renames a scoped conversation and returns the updated
	// entity, or nil when absent.
	UpdateTitle(ctx context.Context, id uint, scope Scope, title string) (*Conversation, error)

	// Delete removes a scoped conversation together with all of its
	// messages in one transaction. Reports whether anything was deleted.
	Delete(ctx context.Context, id uint, scope Scope) (bool, error)

	// AddMessage appends a message to a scoped conversation and bumps the
	// conversation's updated_at atomically. Returns nil when the
	// conversation is absent. The message's sequence number is assigned
	// inside the same transaction.
	AddMessage(ctx context.Context, conversationID uint, scope Scope, msg *Message) (*Message, error)

	// ListMessages returns a scoped conversation's messages in insertion
	// order, or an empty slice when the conversation is absent.
	ListMessages(ctx context.Context, conversationID uint, scope Scope, skip, limit int) ([]Message, error)
}
