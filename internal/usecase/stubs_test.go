package usecase

import (
	"context"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

type stubUserRepo struct {
	users map[string]domain.User

	createErr    error
	createCalls  int
	verifiedIDs  []string
	updatedHash  string
	updatedAtSet time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]domain.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string, changedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = changedAt
	r.users[id] = user
	r.updatedHash = passwordHash
	r.updatedAtSet = changedAt
	return nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, id string, verified bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Verified = verified
	r.users[id] = user
	r.verifiedIDs = append(r.verifiedIDs, id)
	return nil
}

type stubSessionRepo struct {
	sessions map[string]domain.Session

	createErr    error
	deletedIDs   []string
	extendedID   string
	extendedTo   time.Time
	revokedUsers []string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]domain.Session{}}
}

func (r *stubSessionRepo) Create(_ context.Context, session domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *stubSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r *stubSessionRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

func (r *stubSessionRepo) DeleteByIDForUser(_ context.Context, id string, userID string) error {
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

func (r *stubSessionRepo) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	count := 0
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
			count++
		}
	}
	r.revokedUsers = append(r.revokedUsers, userID)
	return count, nil
}

func (r *stubSessionRepo) UpdateExpiry(_ context.Context, id string, expiresAt time.Time) error {
	session, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	r.sessions[id] = session
	r.extendedID = id
	r.extendedTo = expiresAt
	return nil
}

func (r *stubSessionRepo) ListActiveByUser(_ context.Context, userID string) ([]domain.Session, error) {
	now := time.Now().UTC()
	out := []domain.Session{}
	for _, session := range r.sessions {
		if session.UserID == userID && session.ExpiresAt.After(now) {
			out = append(out, session)
		}
	}
	return out, nil
}

type stubCodeRepo struct {
	codes map[string]domain.VerificationCode

	createErr       error
	created         []domain.VerificationCode
	activeCount     int
	countErr        error
	deletedIDs      []string
	countedSince    time.Time
	countedCodeType domain.VerificationType
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: map[string]domain.VerificationCode{}}
}

func (r *stubCodeRepo) Create(_ context.Context, code domain.VerificationCode) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.codes[code.ID] = code
	r.created = append(r.created, code)
	return nil
}

func (r *stubCodeRepo) GetActive(_ context.Context, id string, codeType domain.VerificationType) (*domain.VerificationCode, error) {
	code, ok := r.codes[id]
	if !ok || code.Type != codeType || code.IsExpired(time.Now().UTC()) {
		return nil, repository.ErrNotFound
	}
	return &code, nil
}

func (r *stubCodeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.codes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.codes, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

func (r *stubCodeRepo) CountActiveSince(_ context.Context, _ string, codeType domain.VerificationType, since time.Time) (int, error) {
	r.countedSince = since
	r.countedCodeType = codeType
	return r.activeCount, r.countErr
}

type stubMailSender struct {
	sendErr    error
	deliveryID string
	sent       []port.Mail
}

func (m *stubMailSender) Send(_ context.Context, mail port.Mail) (string, error) {
	m.sent = append(m.sent, mail)
	if m.sendErr != nil {
		return "", m.sendErr
	}
	if m.deliveryID == "" {
		return "delivery-1", nil
	}
	return m.deliveryID, nil
}

type stubEventPublisher struct {
	registered      []domain.UserRegisteredEvent
	passwordChanged []domain.PasswordChangedEvent
	postPublished   []domain.PostPublishedEvent
	leadCaptured    []domain.LeadCapturedEvent
	publishErr      error
}

func (p *stubEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return p.publishErr
}

func (p *stubEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.passwordChanged = append(p.passwordChanged, event)
	return p.publishErr
}

func (p *stubEventPublisher) PublishPostPublished(_ context.Context, event domain.PostPublishedEvent) error {
	p.postPublished = append(p.postPublished, event)
	return p.publishErr
}

func (p *stubEventPublisher) PublishLeadCaptured(_ context.Context, event domain.LeadCapturedEvent) error {
	p.leadCaptured = append(p.leadCaptured, event)
	return p.publishErr
}

type stubPostRepo struct {
	posts map[string]domain.Post

	addressTaken bool
	createErr    error
	photosSet    map[string][]string
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: map[string]domain.Post{}, photosSet: map[string][]string{}}
}

func (r *stubPostRepo) Create(_ context.Context, post domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.posts[post.ID] = post
	return nil
}

func (r *stubPostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &post, nil
}

func (r *stubPostRepo) ExistsActiveAtAddress(context.Context, domain.Address, domain.PropertyType) (bool, error) {
	return r.addressTaken, nil
}

func (r *stubPostRepo) MarkPublished(_ context.Context, id string, at time.Time) error {
	post, ok := r.posts[id]
	if !ok || post.Status != domain.PostStatusDraft {
		return repository.ErrNotFound
	}
	post.Status = domain.PostStatusPublished
	post.PublishedAt = &at
	r.posts[id] = post
	return nil
}

func (r *stubPostRepo) ListPublished(_ context.Context, _ port.PostFilter) ([]domain.Post, error) {
	out := []domain.Post{}
	for _, post := range r.posts {
		if post.Status == domain.PostStatusPublished {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *stubPostRepo) UpdatePhotos(_ context.Context, id string, photos []string) error {
	post, ok := r.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	post.Photos = photos
	r.posts[id] = post
	r.photosSet[id] = photos
	return nil
}

func (r *stubPostRepo) DeleteByIDForUser(_ context.Context, id string, userID string) error {
	post, ok := r.posts[id]
	if !ok || post.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubObjectStore struct {
	presignPutErr error
	deletedKeys   []string
	putKeys       []string
	getKeys       []string
}

func (s *stubObjectStore) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.presignPutErr != nil {
		return "", s.presignPutErr
	}
	s.putKeys = append(s.putKeys, key)
	return "https://uploads.example.com/" + key, nil
}

func (s *stubObjectStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.getKeys = append(s.getKeys, key)
	return "https://cdn.example.com/" + key, nil
}

func (s *stubObjectStore) Delete(_ context.Context, key string) error {
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

type stubLeadRepo struct {
	leads     map[string]domain.Lead
	createErr error
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{leads: map[string]domain.Lead{}}
}

func (r *stubLeadRepo) Create(_ context.Context, lead domain.Lead) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.leads[lead.ID] = lead
	return nil
}

func (r *stubLeadRepo) GetByIDForAgent(_ context.Context, id string, agentID string) (*domain.Lead, error) {
	lead, ok := r.leads[id]
	if !ok || lead.AgentID != agentID {
		return nil, repository.ErrNotFound
	}
	return &lead, nil
}

func (r *stubLeadRepo) ListByAgent(_ context.Context, agentID string) ([]domain.Lead, error) {
	out := []domain.Lead{}
	for _, lead := range r.leads {
		if lead.AgentID == agentID {
			out = append(out, lead)
		}
	}
	return out, nil
}
