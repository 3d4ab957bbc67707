package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat-server/internal/domain/chat"
	"chat-server/internal/domain/conversation"
	"chat-server/internal/domain/identity"
	"chat-server/internal/infrastructure/generator"
	"chat-server/internal/utils/platformerrors"
)

// fakeRepository keeps conversations and messages in memory with the same
// scoping and sequencing behavior as the real repository.
type fakeRepository struct {
	conversations map[uint]*conversation.Conversation
	messages      map[uint][]conversation.Message
	nextConvID    uint
	nextMsgID     uint

	updateTitleErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		conversations: make(map[uint]*conversation.Conversation),
		messages:      make(map[uint][]conversation.Message),
		nextConvID:    1,
		nextMsgID:     1,
	}
}

func (f *fakeRepository) visible(conv *conversation.Conversation, scope conversation.Scope) bool {
	return scope.Superuser || conv.UserID == scope.UserID
}

func (f *fakeRepository) Create(_ context.Context, conv *conversation.Conversation) error {
	conv.ID = f.nextConvID
	f.nextConvID++
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	stored := *conv
	f.conversations[conv.ID] = &stored
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id uint, scope conversation.Scope) (*conversation.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok || !f.visible(conv, scope) {
		return nil, nil
	}
	copied := *conv
	copied.Messages = f.messages[id]
	return &copied, nil
}

func (f *fakeRepository) List(_ context.Context, scope conversation.Scope, skip, limit int) ([]conversation.Summary, error) {
	summaries := []conversation.Summary{}
	for _, conv := range f.conversations {
		if f.visible(conv, scope) {
			summaries = append(summaries, conversation.Summary{ID: conv.ID, Title: conv.Title, UpdatedAt: conv.UpdatedAt})
		}
	}
	return summaries, nil
}

func (f *fakeRepository) UpdateTitle(_ context.Context, id uint, scope conversation.Scope, title string) (*conversation.Conversation, error) {
	if f.updateTitleErr != nil {
		return nil, f.updateTitleErr
	}
	conv, ok := f.conversations[id]
	if !ok || !f.visible(conv, scope) {
		return nil, nil
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	copied := *conv
	return &copied, nil
}

func (f *fakeRepository) Delete(_ context.Context, id uint, scope conversation.Scope) (bool, error) {
	conv, ok := f.conversations[id]
	if !ok || !f.visible(conv, scope) {
		return false, nil
	}
	delete(f.conversations, id)
	delete(f.messages, id)
	return true, nil
}

func (f *fakeRepository) AddMessage(_ context.Context, conversationID uint, scope conversation.Scope, msg *conversation.Message) (*conversation.Message, error) {
	conv, ok := f.conversations[conversationID]
	if !ok || !f.visible(conv, scope) {
		return nil, nil
	}

	msg.ID = f.nextMsgID
	f.nextMsgID++
	msg.ConversationID = conversationID
	msg.Sequence = int64(len(f.messages[conversationID]) + 1)
	msg.CreatedAt = time.Now().UTC()

	f.messages[conversationID] = append(f.messages[conversationID], *msg)
	conv.UpdatedAt = time.Now().UTC()

	copied := *msg
	return &copied, nil
}

func (f *fakeRepository) ListMessages(_ context.Context, conversationID uint, scope conversation.Scope, skip, limit int) ([]conversation.Message, error) {
	conv, ok := f.conversations[conversationID]
	if !ok || !f.visible(conv, scope) {
		return []conversation.Message{}, nil
	}
	return f.messages[conversationID], nil
}

// failingGenerator violates the generator contract on purpose.
type failingGenerator struct{}

func (failingGenerator) GetContext(_ context.Context, conversationID uint) chat.Context {
	return chat.Context{ConversationID: conversationID}
}

func (failingGenerator) Generate(context.Context, string, chat.Context) (string, error) {
	return "", errors.New("backend exploded")
}

func newTestService(repo conversation.Repository) chat.Service {
	return chat.NewService(repo, generator.NewEcho(), zerolog.Nop())
}

func actor() identity.Identity {
	return identity.Identity{UserID: 7}
}

func TestCompleteTurn_NewConversation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	result, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("CompleteTurn failed: %v", err)
	}

	if result.Response != "I received your message: Hello" {
		t.Errorf("unexpected response %q", result.Response)
	}
	if result.ConversationID == 0 {
		t.Fatal("expected a conversation to be created")
	}
	if len(repo.conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(repo.conversations))
	}

	msgs := repo.messages[result.ConversationID]
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if !msgs[0].IsUser || msgs[0].Content != "Hello" {
		t.Errorf("first message should be the user message, got %+v", msgs[0])
	}
	if msgs[1].IsUser || msgs[1].Content != result.Response {
		t.Errorf("second message should be the reply, got %+v", msgs[1])
	}
	if msgs[0].Sequence >= msgs[1].Sequence {
		t.Errorf("messages out of order: %d then %d", msgs[0].Sequence, msgs[1].Sequence)
	}
	if result.MessageID != msgs[1].ID {
		t.Errorf("result message id %d should match the reply %d", result.MessageID, msgs[1].ID)
	}

	if repo.conversations[result.ConversationID].Title != "Hello" {
		t.Errorf("expected derived title %q, got %q", "Hello", repo.conversations[result.ConversationID].Title)
	}
}

func TestCompleteTurn_ExistingConversation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	conv := conversation.New(7, "Existing")
	if err := repo.Create(context.Background(), conv); err != nil {
		t.Fatal(err)
	}
	before := repo.conversations[conv.ID].UpdatedAt

	result, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{
		Message:        "follow up",
		ConversationID: &conv.ID,
	})
	if err != nil {
		t.Fatalf("CompleteTurn failed: %v", err)
	}

	if result.ConversationID != conv.ID {
		t.Errorf("turn should reuse conversation %d, got %d", conv.ID, result.ConversationID)
	}
	if len(repo.conversations) != 1 {
		t.Errorf("no new conversation should be created, have %d", len(repo.conversations))
	}
	if len(repo.messages[conv.ID]) != 2 {
		t.Errorf("expected 2 messages, got %d", len(repo.messages[conv.ID]))
	}
	if !repo.conversations[conv.ID].UpdatedAt.After(before) && !repo.conversations[conv.ID].UpdatedAt.Equal(before) {
		t.Error("conversation updated_at should advance")
	}
	if repo.conversations[conv.ID].Title != "Existing" {
		t.Errorf("existing title must not be rewritten, got %q", repo.conversations[conv.ID].Title)
	}
}

func TestCompleteTurn_TitleTruncation(t *testing.T) {
	exactly30 := strings.Repeat("a", 30)
	tests := []struct {
		name    string
		message string
		title   string
	}{
		{"short message kept verbatim", "Hi there", "Hi there"},
		{"thirty runes without ellipsis", exactly30, exactly30},
		{"thirty-one runes truncated", exactly30 + "b", exactly30 + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepository()
			service := newTestService(repo)

			result, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{Message: tc.message})
			if err != nil {
				t.Fatalf("CompleteTurn failed: %v", err)
			}
			if got := repo.conversations[result.ConversationID].Title; got != tc.title {
				t.Errorf("title = %q, want %q", got, tc.title)
			}
		})
	}
}

func TestCompleteTurn_UnknownConversation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	missing := uint(42)
	_, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{
		Message:        "hello?",
		ConversationID: &missing,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCompleteTurn_ForeignConversation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	conv := conversation.New(99, "someone else's")
	if err := repo.Create(context.Background(), conv); err != nil {
		t.Fatal(err)
	}

	_, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{
		Message:        "peek",
		ConversationID: &conv.ID,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("foreign conversation must look absent, got %v", err)
	}
	if len(repo.messages[conv.ID]) != 0 {
		t.Error("no message may be written to a foreign conversation")
	}
}

func TestCompleteTurn_SuperuserConversation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	conv := conversation.New(99, "someone else's")
	if err := repo.Create(context.Background(), conv); err != nil {
		t.Fatal(err)
	}

	admin := identity.Identity{UserID: 1, Superuser: true}
	result, err := service.CompleteTurn(context.Background(), admin, chat.TurnRequest{
		Message:        "admin hello",
		ConversationID: &conv.ID,
	})
	if err != nil {
		t.Fatalf("superuser turn failed: %v", err)
	}
	if result.ConversationID != conv.ID {
		t.Errorf("expected conversation %d, got %d", conv.ID, result.ConversationID)
	}
}

func TestCompleteTurn_EmptyMessage(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{Message: message})
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("message %q: expected validation error, got %v", message, err)
		}
	}
	if len(repo.conversations) != 0 {
		t.Error("no conversation may be created for an invalid message")
	}
}

func TestCompleteTurn_GeneratorContractViolation(t *testing.T) {
	repo := newFakeRepository()
	service := chat.NewService(repo, failingGenerator{}, zerolog.Nop())

	_, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{Message: "boom"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}

	// The user message was committed before generation started.
	var total int
	for _, msgs := range repo.messages {
		total += len(msgs)
	}
	if total != 1 {
		t.Errorf("expected only the user message persisted, got %d messages", total)
	}
}

func TestCompleteTurn_TitleUpdateFailureIsSwallowed(t *testing.T) {
	repo := newFakeRepository()
	repo.updateTitleErr = errors.New("transient failure")
	service := newTestService(repo)

	result, err := service.CompleteTurn(context.Background(), actor(), chat.TurnRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("turn must succeed despite title failure: %v", err)
	}
	if got := repo.conversations[result.ConversationID].Title; got != chat.PlaceholderTitle {
		t.Errorf("title should stay %q, got %q", chat.PlaceholderTitle, got)
	}
	if len(repo.messages[result.ConversationID]) != 2 {
		t.Errorf("both messages must be persisted, got %d", len(repo.messages[result.ConversationID]))
	}
}
