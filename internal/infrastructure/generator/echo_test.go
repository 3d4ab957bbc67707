package generator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat-server/internal/domain/chat"
	"chat-server/internal/infrastructure/generator"
)

func TestEcho_Generate(t *testing.T) {
	echo := generator.NewEcho()
	convCtx := echo.GetContext(context.Background(), 5)
	if convCtx.ConversationID != 5 {
		t.Errorf("conversation id = %d, want 5", convCtx.ConversationID)
	}

	reply, err := echo.Generate(context.Background(), "Hello", convCtx)
	if err != nil {
		t.Fatalf("echo must never fail: %v", err)
	}
	if reply != "I received your message: Hello" {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestHTTP_Generate(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"backend reply"}`))
	}))
	defer backend.Close()

	gen := generator.NewHTTP(backend.URL, time.Second, zerolog.Nop())
	reply, err := gen.Generate(context.Background(), "hi", chat.Context{ConversationID: 1})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if reply != "backend reply" {
		t.Errorf("reply = %q, want backend reply", reply)
	}
}

func TestHTTP_GenerateFallsBackOnBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	gen := generator.NewHTTP(backend.URL, time.Second, zerolog.Nop())
	reply, err := gen.Generate(context.Background(), "hi", chat.Context{ConversationID: 1})
	if err != nil {
		t.Fatalf("backend failures must not surface as errors: %v", err)
	}
	if reply != generator.FallbackReply {
		t.Errorf("reply = %q, want fallback", reply)
	}
}

func TestHTTP_GenerateFallsBackOnUnreachableBackend(t *testing.T) {
	gen := generator.NewHTTP("http://127.0.0.1:1", time.Second, zerolog.Nop())
	reply, err := gen.Generate(context.Background(), "hi", chat.Context{ConversationID: 1})
	if err != nil {
		t.Fatalf("unreachable backend must not surface as error: %v", err)
	}
	if reply != generator.FallbackReply {
		t.Errorf("reply = %q, want fallback", reply)
	}
}
