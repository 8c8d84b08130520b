package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs the user handler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /user.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(*user))
}
