package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// AuthHandler exposes registration, login, logout, token refresh, email
// verification, and the password reset flow. Tokens travel exclusively in
// HttpOnly cookies.
type AuthHandler struct {
	auth    *usecase.AuthService
	cookies *CookieWriter
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth *usecase.AuthService, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}
	if !validPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid phone number"))
		return
	}

	user, tokens, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
		UserType:  domain.UserType(req.UserType),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailInUse, Status: http.StatusConflict, Message: "email already in use"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	h.cookies.SetAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusCreated, newUserPayload(*user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	_, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Invalid email or password"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	h.cookies.SetAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, MessageResponse{Message: "Login successful"})
}

// Logout handles GET /auth/logout. It always clears the cookies, even when
// the access token is missing or garbage.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(accessTokenCookie)

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.cookies.ClearAuthCookies(c)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	h.cookies.ClearAuthCookies(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Refresh handles GET /auth/refresh. The refresh token rides a path-scoped
// cookie, so only this endpoint ever receives it.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshTokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "missing refresh token"))
		return
	}

	result, err := h.auth.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRefreshToken, Status: http.StatusUnauthorized, Message: "invalid refresh token"},
			{Err: usecase.ErrSessionExpired, Status: http.StatusUnauthorized, Message: "session expired"},
		}, http.StatusInternalServerError, "token refresh failed")
		return
	}

	h.cookies.SetAccessCookie(c, result.AccessToken)
	if result.RefreshToken != "" {
		h.cookies.SetRefreshCookie(c, result.RefreshToken)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Access token refreshed"})
}

// VerifyEmail handles GET /auth/email/verify/:code.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "verification code is required"))
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), code); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrVerificationCodeNotFound, Status: http.StatusNotFound, Message: "Invalid or expired verification code"},
		}, http.StatusInternalServerError, "email verification failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Email was successfully verified"})
}

// ForgotPassword handles POST /auth/password/forgot.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	if err := h.auth.SendPasswordResetEmail(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrTooManyResetRequests, Status: http.StatusTooManyRequests, Message: "Too many requests, please try again later"},
			{Err: usecase.ErrMailDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send reset email"},
		}, http.StatusInternalServerError, "password reset request failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword handles POST /auth/password/reset. A successful reset revokes
// every session, so the client must log in again.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Code, req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrVerificationCodeNotFound, Status: http.StatusNotFound, Message: "Invalid or expired verification code"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "password reset failed")
		return
	}

	h.cookies.ClearAuthCookies(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "Password was reset successfully"})
}
