package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// SessionHandler lets an authenticated user inspect and revoke their sessions.
type SessionHandler struct {
	sessions *usecase.SessionService
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions *usecase.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /sessions. The session behind the presented access token
// is flagged as current.
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}
	currentID, _ := middleware.GetAuthenticatedSessionID(c)

	sessions, err := h.sessions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list sessions"))
		return
	}

	payloads := make([]SessionPayload, 0, len(sessions))
	for _, session := range sessions {
		payloads = append(payloads, newSessionPayload(session, currentID))
	}

	c.JSON(http.StatusOK, SessionListResponse{Sessions: payloads, Total: len(payloads)})
}

// Revoke handles DELETE /sessions/:id.
func (h *SessionHandler) Revoke(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "session id is required"))
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), sessionID, userID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSessionNotFound, Status: http.StatusNotFound, Message: "session not found"},
		}, http.StatusInternalServerError, "failed to revoke session")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Session removed"})
}
