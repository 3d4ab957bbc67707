package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-server/internal/domain/conversation"
	"chat-server/internal/domain/identity"
	"chat-server/internal/infrastructure/auth"
	"chat-server/internal/interfaces/httpserver/requests"
	"chat-server/internal/interfaces/httpserver/responses"
	"chat-server/internal/utils/platformerrors"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ConversationHandler exposes HTTP entrypoints for the Conversations API.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// Create handles POST /v1/conversations
// @Summary Create a conversation
// @Description Creates a conversation for a user. Non-superusers may only create their own.
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.CreateConversationRequest true "Conversation to create"
// @Success 201 {object} responses.ConversationResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "conversation-create-bind")
		return
	}

	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing identity", "conversation-create-identity")
		return
	}

	conv, err := h.service.Create(c.Request.Context(), actor, req.UserID, req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}

	c.JSON(http.StatusCreated, responses.FromConversation(conv))
}

// List handles GET /v1/conversations
// @Summary List conversations
// @Description Lists the caller's conversations, most recently updated first.
// @Tags Conversations
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} responses.SummaryResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing identity", "conversation-list-identity")
		return
	}

	skip, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	summaries, err := h.service.List(c.Request.Context(), actor, skip, limit)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	payload := make([]responses.SummaryResponse, 0, len(summaries))
	for i := range summaries {
		payload = append(payload, responses.FromSummary(&summaries[i]))
	}
	c.JSON(http.StatusOK, payload)
}

// Get handles GET /v1/conversations/:id
// @Summary Get a conversation
// @Description Fetches one of the caller's conversations with its messages.
// @Tags Conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} responses.ConversationResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	conv, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		responses.HandleError(c, err, "failed to get conversation")
		return
	}

	c.JSON(http.StatusOK, responses.FromConversation(conv))
}

// Update handles PATCH /v1/conversations/:id
// @Summary Rename a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param request body requests.UpdateConversationRequest true "New title"
// @Success 200 {object} responses.ConversationResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/conversations/{id} [patch]
func (h *ConversationHandler) Update(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req requests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "conversation-update-bind")
		return
	}

	conv, err := h.service.UpdateTitle(c.Request.Context(), actor, id, req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to update conversation")
		return
	}

	c.JSON(http.StatusOK, responses.FromConversation(conv))
}

// Delete handles DELETE /v1/conversations/:id
// @Summary Delete a conversation
// @Description Removes a conversation and its messages. Deleting an absent conversation succeeds.
// @Tags Conversations
// @Param id path int true "Conversation ID"
// @Success 204 "deleted"
// @Router /v1/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateMessage handles POST /v1/conversations/:id/messages
// @Summary Append a message
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param request body requests.CreateMessageRequest true "Message to append"
// @Success 201 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/conversations/{id}/messages [post]
func (h *ConversationHandler) CreateMessage(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req requests.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "message-create-bind")
		return
	}

	isUser := true
	if req.IsUser != nil {
		isUser = *req.IsUser
	}

	msg, err := h.service.AddMessage(c.Request.Context(), actor, id, req.Content, isUser, req.Metadata)
	if err != nil {
		responses.HandleError(c, err, "failed to append message")
		return
	}

	c.JSON(http.StatusCreated, responses.FromMessage(msg))
}

// ListMessages handles GET /v1/conversations/:id/messages
// @Summary List messages
// @Description Lists a conversation's messages in order. An absent conversation yields an empty list.
// @Tags Conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} responses.MessageResponse
// @Router /v1/conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	skip, limit, ok := parsePagination(c)
	if !ok {
		return
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), actor, id, skip, limit)
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}

	payload := make([]responses.MessageResponse, 0, len(msgs))
	for i := range msgs {
		payload = append(payload, responses.FromMessage(&msgs[i]))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *ConversationHandler) actorAndID(c *gin.Context) (actor identity.Identity, id uint, ok bool) {
	actor, found := auth.IdentityFromContext(c)
	if !found {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing identity", "conversation-identity")
		return actor, 0, false
	}

	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid conversation id", "conversation-id-parse")
		return actor, 0, false
	}
	return actor, uint(raw), true
}

func parsePagination(c *gin.Context) (skip, limit int, ok bool) {
	skip = 0
	limit = defaultListLimit

	if raw := c.Query("skip"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid skip parameter", "pagination-skip")
			return 0, 0, false
		}
		skip = value
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 || value > maxListLimit {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid limit parameter", "pagination-limit")
			return 0, 0, false
		}
		limit = value
	}
	return skip, limit, true
}
