package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-server/internal/infrastructure/auth"
	"chat-server/internal/interfaces/httpserver/responses"
	"chat-server/internal/utils/platformerrors"
)

// IdentityHandler reports the caller's resolved identity.
type IdentityHandler struct{}

// NewIdentityHandler constructs the handler.
func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// Me handles GET /v1/me
// @Summary Get the caller's identity
// @Tags Identity
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/me [get]
func (h *IdentityHandler) Me(c *gin.Context) {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing identity", "me-identity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   actor.UserID,
		"email":     actor.Email,
		"superuser": actor.Superuser,
	})
}
