package domain

import "time"

// UserRegisteredEvent is emitted after a successful registration.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	UserType     string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// PasswordChangedEvent is emitted after a password reset completes.
type PasswordChangedEvent struct {
	EventID         string
	UserID          string
	ChangedAt       time.Time
	SessionsRevoked int
	Metadata        map[string]any
}

// PostPublishedEvent is emitted when a draft listing goes public.
type PostPublishedEvent struct {
	EventID     string
	PostID      string
	UserID      string
	City        string
	Country     string
	Price       float64
	PublishedAt time.Time
	Metadata    map[string]any
}

// LeadCapturedEvent is emitted when a visitor submits an inquiry.
type LeadCapturedEvent struct {
	EventID    string
	LeadID     string
	PostID     string
	AgentID    string
	Email      string
	CapturedAt time.Time
	Metadata   map[string]any
}
