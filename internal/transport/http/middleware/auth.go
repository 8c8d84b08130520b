package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
)

const accessTokenCookie = "accessToken"

// invalidAccessTokenCode is the machine-readable error code clients key off to
// trigger a silent token refresh.
const invalidAccessTokenCode = "InvalidAccessToken"

// AuthErrorResponse carries the unauthorized payload with a machine code.
type AuthErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
	TraceID   string `json:"trace_id,omitempty"`
}

// RequireAuth reads the access token cookie, verifies it, and stores the
// authenticated user and session IDs in the request context.
func RequireAuth(codec *security.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(accessTokenCookie)
		if err != nil || token == "" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		claims, err := codec.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(SessionIDKey, claims.SessionID)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.UserID
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, AuthErrorResponse{
		Message:   message,
		ErrorCode: invalidAccessTokenCode,
		TraceID:   GetTraceID(c),
	})
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}

// GetAuthenticatedSessionID retrieves the session ID behind the access token.
func GetAuthenticatedSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}

	if id, ok := sessionID.(string); ok {
		return id, true
	}

	return "", false
}
