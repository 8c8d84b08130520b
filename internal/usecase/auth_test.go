package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
)

func newTestCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	codec, err := security.NewTokenCodec(
		"test-access-secret-test-access-secret",
		"test-refresh-secret-test-refresh-secret",
		15*time.Minute,
		720*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

type authFixture struct {
	service  *AuthService
	users    *stubUserRepo
	sessions *stubSessionRepo
	codes    *stubCodeRepo
	mail     *stubMailSender
	events   *stubEventPublisher
	codec    *security.TokenCodec
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	codes := newStubCodeRepo()
	mail := &stubMailSender{}
	events := &stubEventPublisher{}
	codec := newTestCodec(t)

	service := NewAuthService(users, sessions, codes, mail, events, codec, "https://homes.example.com", zap.NewNop())

	return &authFixture{
		service:  service,
		users:    users,
		sessions: sessions,
		codes:    codes,
		mail:     mail,
		events:   events,
		codec:    codec,
	}
}

func (f *authFixture) seedUser(t *testing.T, email, password string) domain.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Dana",
		LastName:     "Reeves",
		UserType:     domain.UserTypeAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users.users[user.ID] = user
	return user
}

func TestRegisterCreatesSessionAndVerificationCode(t *testing.T) {
	f := newAuthFixture(t)

	user, tokens, err := f.service.Register(context.Background(), RegisterInput{
		Email:     "Agent@Example.COM ",
		Password:  "s3cret-password",
		FirstName: "Dana",
		LastName:  "Reeves",
		UserType:  domain.UserTypeAgent,
		UserAgent: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "agent@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(f.sessions.sessions))
	}

	if len(f.codes.created) != 1 {
		t.Fatalf("expected 1 verification code, got %d", len(f.codes.created))
	}
	code := f.codes.created[0]
	if code.Type != domain.VerificationEmail {
		t.Fatalf("expected email verification code, got %q", code.Type)
	}
	ttl := code.ExpiresAt.Sub(code.CreatedAt)
	if ttl != 365*24*time.Hour {
		t.Fatalf("expected one year code lifetime, got %v", ttl)
	}

	if len(f.mail.sent) != 1 {
		t.Fatalf("expected 1 verification email, got %d", len(f.mail.sent))
	}
	if len(f.events.registered) != 1 {
		t.Fatalf("expected 1 registered event, got %d", len(f.events.registered))
	}

	claims, err := f.codec.VerifyAccess(tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected access token for %q, got %q", user.ID, claims.UserID)
	}
}

func TestRegisterEmailInUse(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "whatever-1")

	_, _, err := f.service.Register(context.Background(), RegisterInput{
		Email:    "agent@example.com",
		Password: "s3cret-password",
		UserType: domain.UserTypeAgent,
	})
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestRegisterMailFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.sendErr = errors.New("provider down")

	_, tokens, err := f.service.Register(context.Background(), RegisterInput{
		Email:    "agent@example.com",
		Password: "s3cret-password",
		UserType: domain.UserTypeBroker,
	})
	if err != nil {
		t.Fatalf("expected registration to succeed despite mail failure, got %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatal("expected tokens despite mail failure")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "correct-password")

	_, _, unknownErr := f.service.Login(context.Background(), "nobody@example.com", "correct-password", "")
	_, _, wrongErr := f.service.Login(context.Background(), "agent@example.com", "wrong-password", "")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatal("unknown email and wrong password must produce identical errors")
	}
}

func TestLoginOpensSession(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "agent@example.com", "correct-password")

	got, tokens, err := f.service.Login(context.Background(), "agent@example.com", "correct-password", "Mozilla/5.0")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %q, got %q", user.ID, got.ID)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(f.sessions.sessions))
	}

	claims, err := f.codec.VerifyRefresh(tokens.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if _, ok := f.sessions.sessions[claims.SessionID]; !ok {
		t.Fatal("refresh token does not reference the stored session")
	}
}

func TestRefreshWithoutRenewal(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now().UTC()

	f.sessions.sessions["session-1"] = domain.Session{
		ID:        "session-1",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(10 * 24 * time.Hour),
	}

	refresh, err := f.codec.SignRefresh("session-1", now)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	result, err := f.service.RefreshAccessToken(context.Background(), refresh)
	if err != nil {
		t.Fatalf("RefreshAccessToken returned error: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected a new access token")
	}
	if result.RefreshToken != "" {
		t.Fatal("expected no refresh token outside the renewal window")
	}
	if f.sessions.extendedID != "" {
		t.Fatal("expected session expiry untouched")
	}
}

func TestRefreshRenewsSessionNearExpiry(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now().UTC()

	f.sessions.sessions["session-1"] = domain.Session{
		ID:        "session-1",
		UserID:    "user-1",
		CreatedAt: now.Add(-29 * 24 * time.Hour),
		ExpiresAt: now.Add(12 * time.Hour),
	}

	refresh, err := f.codec.SignRefresh("session-1", now)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	result, err := f.service.RefreshAccessToken(context.Background(), refresh)
	if err != nil {
		t.Fatalf("RefreshAccessToken returned error: %v", err)
	}
	if result.RefreshToken == "" {
		t.Fatal("expected a replacement refresh token inside the renewal window")
	}
	if f.sessions.extendedID != "session-1" {
		t.Fatal("expected session expiry to be extended")
	}

	extension := f.sessions.extendedTo.Sub(now)
	if extension < 30*24*time.Hour-time.Minute || extension > 30*24*time.Hour+time.Minute {
		t.Fatalf("expected extension to a full session lifetime, got %v", extension)
	}
}

func TestRefreshExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now().UTC()

	f.sessions.sessions["session-1"] = domain.Session{
		ID:        "session-1",
		UserID:    "user-1",
		CreatedAt: now.Add(-31 * 24 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	refresh, err := f.codec.SignRefresh("session-1", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	_, err = f.service.RefreshAccessToken(context.Background(), refresh)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := f.sessions.sessions["session-1"]; ok {
		t.Fatal("expected the expired session to be deleted")
	}
}

func TestRefreshUnknownSession(t *testing.T) {
	f := newAuthFixture(t)

	refresh, err := f.codec.SignRefresh("session-gone", time.Now().UTC())
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	_, err = f.service.RefreshAccessToken(context.Background(), refresh)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now().UTC()

	f.sessions.sessions["session-1"] = domain.Session{
		ID:        "session-1",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}

	access, err := f.codec.SignAccess("user-1", "session-1", now)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	if err := f.service.Logout(context.Background(), access); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := f.sessions.sessions["session-1"]; ok {
		t.Fatal("expected the session to be deleted")
	}

	if err := f.service.Logout(context.Background(), access); err != nil {
		t.Fatalf("second Logout returned error: %v", err)
	}
	if err := f.service.Logout(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("Logout with garbage token returned error: %v", err)
	}
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "agent@example.com", "password-1")
	now := time.Now().UTC()

	f.codes.codes["code-1"] = domain.VerificationCode{
		ID:        "code-1",
		UserID:    user.ID,
		Type:      domain.VerificationEmail,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	if err := f.service.VerifyEmail(context.Background(), "code-1"); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if !f.users.users[user.ID].Verified {
		t.Fatal("expected the user to be marked verified")
	}

	err := f.service.VerifyEmail(context.Background(), "code-1")
	if !errors.Is(err, ErrVerificationCodeNotFound) {
		t.Fatalf("expected ErrVerificationCodeNotFound on replay, got %v", err)
	}
}

func TestVerifyEmailRejectsResetCode(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now().UTC()

	f.codes.codes["code-1"] = domain.VerificationCode{
		ID:        "code-1",
		UserID:    "user-1",
		Type:      domain.VerificationPasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	err := f.service.VerifyEmail(context.Background(), "code-1")
	if !errors.Is(err, ErrVerificationCodeNotFound) {
		t.Fatalf("expected ErrVerificationCodeNotFound for mismatched code type, got %v", err)
	}
}

func TestSendPasswordResetEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "password-1")

	if err := f.service.SendPasswordResetEmail(context.Background(), "agent@example.com"); err != nil {
		t.Fatalf("SendPasswordResetEmail returned error: %v", err)
	}

	if len(f.codes.created) != 1 {
		t.Fatalf("expected 1 reset code, got %d", len(f.codes.created))
	}
	code := f.codes.created[0]
	if code.Type != domain.VerificationPasswordReset {
		t.Fatalf("expected password reset code, got %q", code.Type)
	}
	if ttl := code.ExpiresAt.Sub(code.CreatedAt); ttl != time.Hour {
		t.Fatalf("expected one hour reset lifetime, got %v", ttl)
	}

	if len(f.mail.sent) != 1 {
		t.Fatalf("expected 1 reset email, got %d", len(f.mail.sent))
	}
}

func TestSendPasswordResetRateLimited(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "password-1")
	f.codes.activeCount = 2

	err := f.service.SendPasswordResetEmail(context.Background(), "agent@example.com")
	if !errors.Is(err, ErrTooManyResetRequests) {
		t.Fatalf("expected ErrTooManyResetRequests, got %v", err)
	}
	if len(f.codes.created) != 0 {
		t.Fatal("expected no new code once the limit is hit")
	}
}

func TestSendPasswordResetToleratesOneOutstandingCode(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "password-1")
	f.codes.activeCount = 1

	if err := f.service.SendPasswordResetEmail(context.Background(), "agent@example.com"); err != nil {
		t.Fatalf("expected success with one outstanding code, got %v", err)
	}
}

func TestSendPasswordResetMailFailureIsFatal(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "agent@example.com", "password-1")
	f.mail.sendErr = errors.New("provider down")

	err := f.service.SendPasswordResetEmail(context.Background(), "agent@example.com")
	if !errors.Is(err, ErrMailDeliveryFailed) {
		t.Fatalf("expected ErrMailDeliveryFailed, got %v", err)
	}
}

func TestSendPasswordResetUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.SendPasswordResetEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "agent@example.com", "old-password")
	now := time.Now().UTC()

	f.sessions.sessions["session-1"] = domain.Session{ID: "session-1", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	f.sessions.sessions["session-2"] = domain.Session{ID: "session-2", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	f.codes.codes["code-1"] = domain.VerificationCode{
		ID:        "code-1",
		UserID:    user.ID,
		Type:      domain.VerificationPasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	if err := f.service.ResetPassword(context.Background(), "code-1", "new-password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if len(f.sessions.sessions) != 0 {
		t.Fatalf("expected all sessions revoked, %d remain", len(f.sessions.sessions))
	}
	if _, ok := f.codes.codes["code-1"]; ok {
		t.Fatal("expected the reset code to be consumed")
	}

	ok, err := security.VerifyPassword("new-password", f.users.users[user.ID].PasswordHash)
	if err != nil || !ok {
		t.Fatal("expected the new password to verify against the stored hash")
	}

	if len(f.events.passwordChanged) != 1 {
		t.Fatalf("expected 1 password changed event, got %d", len(f.events.passwordChanged))
	}
	if f.events.passwordChanged[0].SessionsRevoked != 2 {
		t.Fatalf("expected 2 revoked sessions in the event, got %d", f.events.passwordChanged[0].SessionsRevoked)
	}
}

func TestResetPasswordUnknownCode(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ResetPassword(context.Background(), "missing", "new-password")
	if !errors.Is(err, ErrVerificationCodeNotFound) {
		t.Fatalf("expected ErrVerificationCodeNotFound, got %v", err)
	}
}
