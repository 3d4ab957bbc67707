package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chat-server/internal/domain/conversation"
	"chat-server/internal/domain/identity"
	"chat-server/internal/infrastructure/metrics"
	"chat-server/internal/utils/platformerrors"
)

// PlaceholderTitle is the title given to a conversation created implicitly
// by a chat turn, before title derivation replaces it.
const PlaceholderTitle = "New Chat"

// titleRuneLimit caps the derived title length, counted in runes.
const titleRuneLimit = 30

// TurnRequest is one inbound chat turn. A nil ConversationID starts a new
// conversation owned by the caller.
type TurnRequest struct {
	Message        string
	ConversationID *uint
}

// TurnResult is the outcome of a completed chat turn.
type TurnResult struct {
	Response       string
	ConversationID uint
	MessageID      uint
}

// Service drives a single chat turn: resolve or create the conversation,
// persist the user message, obtain the generated reply, persist it, and
// derive the conversation title when the turn created the conversation.
type Service interface {
	CompleteTurn(ctx context.Context, actor identity.Identity, req TurnRequest) (*TurnResult, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo      conversation.Repository
	generator Generator
	log       zerolog.Logger
}

// NewService creates the chat orchestrator.
func NewService(repo conversation.Repository, generator Generator, log zerolog.Logger) Service {
	return &DefaultService{
		repo:      repo,
		generator: generator,
		log:       log.With().Str("service", "chat").Logger(),
	}
}

// CompleteTurn runs one chat turn to completion. The user message is
// committed before generation starts, so a failed turn may leave the user
// message persisted without a reply; callers re-fetch conversation state
// rather than blindly resubmitting.
func (s *DefaultService) CompleteTurn(ctx context.Context, actor identity.Identity, req TurnRequest) (*TurnResult, error) {
	result, err := s.completeTurn(ctx, actor, req)
	if err != nil {
		metrics.RecordChatTurn("failed")
		return nil, err
	}
	metrics.RecordChatTurn("completed")
	return result, nil
}

func (s *DefaultService) completeTurn(ctx context.Context, actor identity.Identity, req TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message must not be empty",
			nil,
			"chat-message-empty",
		)
	}

	scope := conversation.Scope{UserID: actor.UserID, Superuser: actor.Superuser}

	conv, created, err := s.resolveConversation(ctx, actor, scope, req.ConversationID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.appendMessage(ctx, conv.ID, scope, req.Message, true)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Uint("conversation_id", conv.ID).
		Uint("message_id", userMsg.ID).
		Msg("user message persisted")

	convCtx := s.generator.GetContext(ctx, conv.ID)

	generationStart := time.Now()
	reply, err := s.generator.Generate(ctx, req.Message, convCtx)
	metrics.ObserveGeneration(time.Since(generationStart).Seconds())
	if err != nil {
		// The generator contract forbids propagating errors; treat a
		// violation as fatal for the turn.
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"response generator violated its no-error contract",
			err,
			"chat-generator-contract",
		)
	}

	aiMsg, err := s.appendMessage(ctx, conv.ID, scope, reply, false)
	if err != nil {
		return nil, err
	}

	if created {
		title := deriveTitle(req.Message)
		if _, err := s.repo.UpdateTitle(ctx, conv.ID, scope, title); err != nil {
			// Best effort: the turn already succeeded.
			s.log.Warn().
				Err(err).
				Uint("conversation_id", conv.ID).
				Msg("failed to derive conversation title")
		}
	}

	return &TurnResult{
		Response:       reply,
		ConversationID: conv.ID,
		MessageID:      aiMsg.ID,
	}, nil
}

func (s *DefaultService) resolveConversation(ctx context.Context, actor identity.Identity, scope conversation.Scope, id *uint) (*conversation.Conversation, bool, error) {
	if id == nil {
		conv := conversation.New(actor.UserID, PlaceholderTitle)
		if err := s.repo.Create(ctx, conv); err != nil {
			return nil, false, err
		}
		return conv, true, nil
	}

	conv, err := s.repo.FindByID(ctx, *id, scope)
	if err != nil {
		return nil, false, err
	}
	if conv == nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"conversation not found",
			nil,
			"chat-conversation-not-found",
		)
	}
	return conv, false, nil
}

func (s *DefaultService) appendMessage(ctx context.Context, conversationID uint, scope conversation.Scope, content string, isUser bool) (*conversation.Message, error) {
	msg := &conversation.Message{
		Content: content,
		IsUser:  isUser,
	}
	saved, err := s.repo.AddMessage(ctx, conversationID, scope, msg)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		// The conversation vanished between steps; fatal, not retried.
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError,
			"failed to persist chat message",
			nil,
			"chat-message-persist",
		)
	}
	return saved, nil
}

// deriveTitle produces a conversation title from the first user message:
// the first 30 runes, with an ellipsis only when content extends past them.
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleRuneLimit {
		return message
	}
	return string(runes[:titleRuneLimit]) + "..."
}
