package entities_test

import (
	"testing"
	"time"

	"chat-server/internal/infrastructure/database/entities"
)

func TestConversationEtoD_CarriesMessages(t *testing.T) {
	now := time.Now().UTC()
	entity := entities.Conversation{
		ID:        3,
		UserID:    7,
		Title:     "Weather",
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []entities.Message{
			{ID: 10, ConversationID: 3, Content: "what is the weather", IsUser: true, Sequence: 1},
			{ID: 11, ConversationID: 3, Content: "sunny", IsUser: false, Sequence: 2},
		},
	}

	conv := entity.EtoD()
	if len(conv.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Sequence != 1 || conv.Messages[1].Sequence != 2 {
		t.Errorf("message order not preserved: %+v", conv.Messages)
	}
	if conv.Messages[1].Content != "sunny" || conv.Messages[1].IsUser {
		t.Errorf("second message = %+v, want assistant reply", conv.Messages[1])
	}
}

func TestMessageEtoD_DropsCorruptMetadata(t *testing.T) {
	entity := entities.Message{ID: 1, ConversationID: 3, Content: "hi", Metadata: []byte("{not json")}

	msg := entity.EtoD()
	if msg.Metadata != nil {
		t.Errorf("corrupt metadata should be dropped, got %v", msg.Metadata)
	}
	if msg.Content != "hi" {
		t.Errorf("content = %q, want hi", msg.Content)
	}
}
