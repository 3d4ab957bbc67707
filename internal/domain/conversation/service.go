package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"chat-server/internal/domain/identity"
	"chat-server/internal/utils/platformerrors"
)

// Service defines the interface for conversation business logic. Every
// operation takes the acting identity and scopes persistence to it.
type Service interface {
	Create(ctx context.Context, actor identity.Identity, ownerID uint, title string) (*Conversation, error)
	Get(ctx context.Context, actor identity.Identity, id uint) (*Conversation, error)
	List(ctx context.Context, actor identity.Identity, skip, limit int) ([]Summary, error)
	UpdateTitle(ctx context.Context, actor identity.Identity, id uint, title string) (*Conversation, error)
	Delete(ctx context.Context, actor identity.Identity, id uint) error
	AddMessage(ctx context.Context, actor identity.Identity, conversationID uint, content string, isUser bool, metadata map[string]any) (*Message, error)
	ListMessages(ctx context.Context, actor identity.Identity, conversationID uint, skip, limit int) ([]Message, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates a new conversation service.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &DefaultService{
		repo: repo,
		log:  log.With().Str("service", "conversation").Logger(),
	}
}

func scopeFor(actor identity.Identity) Scope {
	return Scope{UserID: actor.UserID, Superuser: actor.Superuser}
}

// Create provisions a conversation for ownerID. Creating on behalf of
// another user is forbidden unless the actor is a superuser; this is the
// one path where the authorization failure is surfaced distinctly.
func (s *DefaultService) Create(ctx context.Context, actor identity.Identity, ownerID uint, title string) (*Conversation, error) {
	if !actor.CanActFor(ownerID) {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden,
			"not authorized to create conversation for this user",
			nil,
			"conversation-create-forbidden",
		)
	}

	conv := New(ownerID, title)
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Get fetches a conversation visible to the actor.
func (s *DefaultService) Get(ctx context.Context, actor identity.Identity, id uint) (*Conversation, error) {
	conv, err := s.repo.FindByID(ctx, id, scopeFor(actor))
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, notFound(ctx, "conversation-not-found")
	}
	return conv, nil
}

// List returns the actor's conversations ordered by recency.
func (s *DefaultService) List(ctx context.Context, actor identity.Identity, skip, limit int) ([]Summary, error) {
	return s.repo.List(ctx, scopeFor(actor), skip, limit)
}

// UpdateTitle renames an owned conversation.
func (s *DefaultService) UpdateTitle(ctx context.Context, actor identity.Identity, id uint, title string) (*Conversation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"title must not be empty",
			nil,
			"conversation-title-empty",
		)
	}

	conv, err := s.repo.UpdateTitle(ctx, id, scopeFor(actor), title)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, notFound(ctx, "conversation-update-not-found")
	}
	return conv, nil
}

// Delete removes an owned conversation and its messages. Deleting a
// conversation that no longer exists is a no-op, never an error.
func (s *DefaultService) Delete(ctx context.Context, actor identity.Identity, id uint) error {
	deleted, err := s.repo.Delete(ctx, id, scopeFor(actor))
	if err != nil {
		return err
	}
	if !deleted {
		s.log.Debug().Uint("conversation_id", id).Msg("delete skipped, conversation absent")
	}
	return nil
}

// AddMessage appends a message to an owned conversation.
func (s *DefaultService) AddMessage(ctx context.Context, actor identity.Identity, conversationID uint, content string, isUser bool, metadata map[string]any) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message content must not be empty",
			nil,
			"message-content-empty",
		)
	}

	msg := &Message{
		Content:  content,
		IsUser:   isUser,
		Metadata: metadata,
	}
	saved, err := s.repo.AddMessage(ctx, conversationID, scopeFor(actor), msg)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, notFound(ctx, "message-conversation-not-found")
	}
	return saved, nil
}

// ListMessages returns an owned conversation's messages in order. An
// absent conversation yields an empty list, matching the read contract.
func (s *DefaultService) ListMessages(ctx context.Context, actor identity.Identity, conversationID uint, skip, limit int) ([]Message, error) {
	return s.repo.ListMessages(ctx, conversationID, scopeFor(actor), skip, limit)
}

func notFound(ctx context.Context, code string) *platformerrors.PlatformError {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound,
		"conversation not found",
		nil,
		code,
	)
}
