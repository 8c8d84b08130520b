package domain

import "time"

// UserType distinguishes the professional profile of an account.
type UserType string

const (
	UserTypeBroker UserType = "broker"
	UserTypeAgent  UserType = "agent"
)

// User represents a registered account on the platform.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Company      string
	Phone        string
	UserType     UserType
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display purposes.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
