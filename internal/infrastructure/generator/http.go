package generator

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"chat-server/internal/domain/chat"
)

// HTTP calls a remote generation backend. Backend failures, timeouts and
// empty replies all degrade to FallbackReply so the chat turn always
// completes.
type HTTP struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

// NewHTTP creates a Resty-backed generator client.
func NewHTTP(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTP {
	return &HTTP{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
		log: log.With().Str("generator", "http").Logger(),
	}
}

type generateRequest struct {
	Message        string `json:"message"`
	ConversationID uint   `json:"conversation_id"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// GetContext returns the per-conversation context forwarded to the backend.
func (h *HTTP) GetContext(_ context.Context, conversationID uint) chat.Context {
	return chat.Context{ConversationID: conversationID}
}

// Generate calls the backend's /v1/generate endpoint.
func (h *HTTP) Generate(ctx context.Context, message string, convCtx chat.Context) (string, error) {
	var result generateResponse
	resp, err := h.httpClient.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Message:        message,
			ConversationID: convCtx.ConversationID,
		}).
		SetResult(&result).
		Post("/v1/generate")
	if err != nil {
		h.log.Error().Err(err).Uint("conversation_id", convCtx.ConversationID).Msg("generation request failed")
		return FallbackReply, nil
	}
	if resp.IsError() {
		h.log.Error().
			Int("status", resp.StatusCode()).
			Uint("conversation_id", convCtx.ConversationID).
			Msg("generation backend returned an error")
		return FallbackReply, nil
	}
	if result.Response == "" {
		h.log.Warn().Uint("conversation_id", convCtx.ConversationID).Msg("generation backend returned an empty reply")
		return FallbackReply, nil
	}
	return result.Response, nil
}

// Ensure interface compliance.
var (
	_ chat.Generator = (*Echo)(nil)
	_ chat.Generator = (*HTTP)(nil)
)
