package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
)

func newAuthTestRouter(t *testing.T, codec *security.TokenCodec) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(codec), func(c *gin.Context) {
		userID, _ := GetAuthenticatedUserID(c)
		sessionID, _ := GetAuthenticatedSessionID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "session_id": sessionID})
	})
	return router
}

func newMiddlewareCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	codec, err := security.NewTokenCodec(
		"middleware-access-secret-0123456789",
		"middleware-refresh-secret-0123456789",
		15*time.Minute,
		720*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func TestRequireAuthAcceptsValidCookie(t *testing.T) {
	codec := newMiddlewareCodec(t)
	router := newAuthTestRouter(t, codec)

	token, err := codec.SignAccess("user-1", "session-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["user_id"] != "user-1" || body["session_id"] != "session-1" {
		t.Fatalf("unexpected identity in context: %v", body)
	}
}

func TestRequireAuthMissingCookie(t *testing.T) {
	codec := newMiddlewareCodec(t)
	router := newAuthTestRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body AuthErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ErrorCode != "InvalidAccessToken" {
		t.Fatalf("expected InvalidAccessToken code, got %q", body.ErrorCode)
	}
	if body.Message != "Invalid token" {
		t.Fatalf("expected invalid token message, got %q", body.Message)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	codec := newMiddlewareCodec(t)
	router := newAuthTestRouter(t, codec)

	token, err := codec.SignAccess("user-1", "session-1", time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body AuthErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Token expired" {
		t.Fatalf("expected token expired message, got %q", body.Message)
	}
	if body.ErrorCode != "InvalidAccessToken" {
		t.Fatalf("expected InvalidAccessToken code, got %q", body.ErrorCode)
	}
}

func TestRequireAuthGarbageToken(t *testing.T) {
	codec := newMiddlewareCodec(t)
	router := newAuthTestRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
