package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/infra/logger"
	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

const (
	sessionTTL           = 30 * 24 * time.Hour
	sessionRenewalWindow = 24 * time.Hour
	emailVerificationTTL = 365 * 24 * time.Hour
	passwordResetTTL     = time.Hour
	resetRequestWindow   = 5 * time.Minute

	// resetRequestTolerance is how many outstanding reset codes a user may
	// accumulate inside the window before further requests are rejected.
	resetRequestTolerance = 1

	uniqueViolationCode = "23505"
)

var (
	// ErrEmailInUse indicates the email already belongs to an account.
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken indicates the refresh token failed verification or
	// its session no longer exists.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrSessionExpired indicates the session behind the refresh token has lapsed.
	ErrSessionExpired = errors.New("session expired")
	// ErrVerificationCodeNotFound indicates the code is unknown, expired, or consumed.
	ErrVerificationCodeNotFound = errors.New("verification code not found")
	// ErrUserNotFound indicates no account exists for the identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrTooManyResetRequests indicates the reset rate limit was hit.
	ErrTooManyResetRequests = errors.New("too many password reset requests")
	// ErrMailDeliveryFailed indicates the provider did not accept the message.
	ErrMailDeliveryFailed = errors.New("mail delivery failed")
)

// AuthService implements registration, login, and the session token lifecycle.
type AuthService struct {
	users    port.UserRepository
	sessions port.SessionRepository
	codes    port.VerificationCodeRepository
	mail     port.MailSender
	events   port.EventPublisher
	codec    *security.TokenCodec
	origin   string
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs the auth service. Origin is the public web
// application URL used to build emailed links.
func NewAuthService(
	users port.UserRepository,
	sessions port.SessionRepository,
	codes port.VerificationCodeRepository,
	mail port.MailSender,
	events port.EventPublisher,
	codec *security.TokenCodec,
	origin string,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codes:    codes,
		mail:     mail,
		events:   events,
		codec:    codec,
		origin:   strings.TrimRight(origin, "/"),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	UserType  domain.UserType
	UserAgent string
}

// AuthTokens is the dual-token pair minted for a session.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

// RefreshResult carries the outcome of a token refresh. RefreshToken is empty
// unless the session was renewed.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// Register creates the account, opens a session, and kicks off email
// verification. A failed verification email is logged but does not fail the
// registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *AuthTokens, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, nil, fmt.Errorf("email and password are required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, nil, ErrEmailInUse
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Company:      strings.TrimSpace(input.Company),
		Phone:        strings.TrimSpace(input.Phone),
		UserType:     input.UserType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, nil, ErrEmailInUse
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	code := domain.VerificationCode{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      domain.VerificationEmail,
		CreatedAt: now,
		ExpiresAt: now.Add(emailVerificationTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, nil, fmt.Errorf("create verification code: %w", err)
	}

	if _, err := s.mail.Send(ctx, s.verificationMail(email, code.ID)); err != nil {
		s.log.Warn("verification email not sent",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}

	tokens, err := s.openSession(ctx, user.ID, input.UserAgent, now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Email:        email,
		UserType:     string(user.UserType),
		RegisteredAt: now,
	}); err != nil {
		s.log.Warn("publish user registered event", zap.Error(err))
	}

	return &user, tokens, nil
}

// Login authenticates the credentials and opens a fresh session. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent string) (*domain.User, *AuthTokens, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.openSession(ctx, user.ID, userAgent, s.now())
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout tears down the session behind the access token. It never fails on
// bad input: an invalid token or missing session still clears the cookies.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil
	}

	if err := s.sessions.DeleteByID(ctx, claims.SessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("delete session on logout", zap.Error(err))
	}

	return nil
}

// RefreshAccessToken validates the refresh token against its session and mints
// a new access token. When the session expires within the renewal window it is
// extended to a full lifetime and a replacement refresh token is issued.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := s.now()
	if session.IsExpired(now) {
		if err := s.sessions.DeleteByID(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("delete expired session", zap.Error(err))
		}
		return nil, ErrSessionExpired
	}

	result := &RefreshResult{}

	if session.NeedsRenewal(now, sessionRenewalWindow) {
		if err := s.sessions.UpdateExpiry(ctx, session.ID, now.Add(sessionTTL)); err != nil {
			return nil, fmt.Errorf("extend session: %w", err)
		}
		renewed, err := s.codec.SignRefresh(session.ID, now)
		if err != nil {
			return nil, fmt.Errorf("sign refresh token: %w", err)
		}
		result.RefreshToken = renewed
	}

	access, err := s.codec.SignAccess(session.UserID, session.ID, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	result.AccessToken = access

	return result, nil
}

// VerifyEmail consumes the emailed code and marks the account verified. A
// replayed or expired code reports not found.
func (s *AuthService) VerifyEmail(ctx context.Context, codeID string) error {
	code, err := s.codes.GetActive(ctx, codeID, domain.VerificationEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVerificationCodeNotFound
		}
		return fmt.Errorf("lookup verification code: %w", err)
	}

	if err := s.users.SetVerified(ctx, code.UserID, true); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}

	return nil
}

// SendPasswordResetEmail issues a reset code and emails the reset link. Unlike
// registration, a delivery failure here is fatal because the link is the whole
// point of the operation.
func (s *AuthService) SendPasswordResetEmail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	count, err := s.codes.CountActiveSince(ctx, user.ID, domain.VerificationPasswordReset, now.Add(-resetRequestWindow))
	if err != nil {
		return fmt.Errorf("count reset requests: %w", err)
	}
	if count > resetRequestTolerance {
		return ErrTooManyResetRequests
	}

	code := domain.VerificationCode{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      domain.VerificationPasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(passwordResetTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return fmt.Errorf("create reset code: %w", err)
	}

	resetURL := fmt.Sprintf("%s/password/reset?code=%s&exp=%d", s.origin, code.ID, code.ExpiresAt.UnixMilli())
	deliveryID, err := s.mail.Send(ctx, port.Mail{
		To:      user.Email,
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("You requested a password reset. Open the link to choose a new password: %s", resetURL),
		HTML:    fmt.Sprintf(`<p>You requested a password reset.</p><p><a href="%s">Click here to reset your password</a></p>`, resetURL),
	})
	if err != nil || deliveryID == "" {
		s.log.Error("reset email not sent",
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
		return ErrMailDeliveryFailed
	}

	return nil
}

// ResetPassword redeems the reset code, rewrites the password hash, and
// revokes every session of the account.
func (s *AuthService) ResetPassword(ctx context.Context, codeID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}

	code, err := s.codes.GetActive(ctx, codeID, domain.VerificationPasswordReset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVerificationCodeNotFound
		}
		return fmt.Errorf("lookup reset code: %w", err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	if err := s.users.UpdatePassword(ctx, code.UserID, passwordHash, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}

	revoked, err := s.sessions.DeleteAllForUser(ctx, code.UserID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		EventID:         uuid.NewString(),
		UserID:          code.UserID,
		ChangedAt:       now,
		SessionsRevoked: revoked,
	}); err != nil {
		s.log.Warn("publish password changed event", zap.Error(err))
	}

	return nil
}

func (s *AuthService) openSession(ctx context.Context, userID, userAgent string, now time.Time) (*AuthTokens, error) {
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		session.UserAgent = &ua
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	access, err := s.codec.SignAccess(userID, session.ID, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.SignRefresh(session.ID, now)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) verificationMail(email, codeID string) port.Mail {
	verifyURL := fmt.Sprintf("%s/email/verify/%s", s.origin, codeID)
	return port.Mail{
		To:      email,
		Subject: "Verify Email Address",
		Text:    fmt.Sprintf("Confirm your email address by opening this link: %s", verifyURL),
		HTML:    fmt.Sprintf(`<p>Welcome aboard.</p><p><a href="%s">Click here to verify your email address</a></p>`, verifyURL),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
