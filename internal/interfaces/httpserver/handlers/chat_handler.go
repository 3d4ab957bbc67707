package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-server/internal/domain/chat"
	"chat-server/internal/infrastructure/auth"
	"chat-server/internal/infrastructure/observability"
	"chat-server/internal/interfaces/httpserver/requests"
	"chat-server/internal/interfaces/httpserver/responses"
	"chat-server/internal/utils/platformerrors"
)

// ChatHandler exposes the chat turn endpoint.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Complete handles POST /v1/chat
// @Summary Complete a chat turn
// @Description Sends a message, optionally into an existing conversation, and returns the generated reply. Omitting conversation_id starts a new conversation.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body requests.ChatRequest true "Chat turn"
// @Success 200 {object} responses.ChatResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) Complete(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "chat-bind")
		return
	}

	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing identity", "chat-identity")
		return
	}

	ctx, span := observability.StartTurnSpan(c.Request.Context(), actor.UserID, req.ConversationID == nil)
	defer span.End()

	result, err := h.service.CompleteTurn(ctx, actor, chat.TurnRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		observability.RecordError(span, err)
		responses.HandleError(c, err, "failed to complete chat turn")
		return
	}

	c.JSON(http.StatusOK, responses.FromTurnResult(result))
}
