package handlers

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// phonePattern accepts international numbers with optional spaces, dashes,
// and parentheses, e.g. "+1 (555) 123-4567".
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

func validPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=255"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	FirstName       string `json:"firstName" binding:"required,min=3,max=30"`
	LastName        string `json:"lastName" binding:"required,min=3,max=30"`
	Company         string `json:"company" binding:"omitempty,max=100"`
	Phone           string `json:"phone" binding:"required"`
	UserType        string `json:"userType" binding:"required,oneof=broker agent"`
}

// LoginRequest defines the credential payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserPayload is the public view of an account.
type UserPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UserType  string    `json:"userType"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionPayload describes a session view in API responses.
type SessionPayload struct {
	ID        string    `json:"id"`
	UserAgent *string   `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsCurrent bool      `json:"isCurrent,omitempty"`
}

// SessionListResponse wraps a list of sessions for a user.
type SessionListResponse struct {
	Sessions []SessionPayload `json:"sessions"`
	Total    int              `json:"total"`
}

// ForgotPasswordRequest initiates a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest redeems an emailed reset code.
type ResetPasswordRequest struct {
	Code     string `json:"verificationCode" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// AddressPayload carries the listing address fields.
type AddressPayload struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country" binding:"required"`
	Zip     string `json:"zip"`
}

// CreatePostRequest defines the draft listing payload.
type CreatePostRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Type        string         `json:"propertyType" binding:"required,oneof=house apartment condo land"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Address     AddressPayload `json:"address" binding:"required"`
	Bedrooms    int            `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int            `json:"bathrooms" binding:"gte=0"`
	Area        float64        `json:"area" binding:"gte=0"`
}

// PostPayload is the public view of a listing.
type PostPayload struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"propertyType"`
	Price       float64        `json:"price"`
	Address     AddressPayload `json:"address"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Area        float64        `json:"area"`
	Photos      []string       `json:"photos"`
	Status      string         `json:"status"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// PostListResponse wraps published listings.
type PostListResponse struct {
	Posts []PostPayload `json:"posts"`
	Total int           `json:"total"`
}

// CaptureLeadRequest defines the public inquiry payload.
type CaptureLeadRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

// LeadPayload is the agent's view of an inquiry.
type LeadPayload struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadListResponse wraps the agent's leads.
type LeadListResponse struct {
	Leads []LeadPayload `json:"leads"`
	Total int           `json:"total"`
}

// UploadTicketResponse returns a presigned upload authorization.
type UploadTicketResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AttachPhotosRequest records uploaded photo keys on a listing.
type AttachPhotosRequest struct {
	Keys []string `json:"keys" binding:"required,min=1"`
}

// PhotoLinkPayload pairs a stored photo key with a short-lived download URL.
type PhotoLinkPayload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PhotoListResponse lists a post's photo download links.
type PhotoListResponse struct {
	Photos []PhotoLinkPayload `json:"photos"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newUserPayload(user domain.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Company:   user.Company,
		Phone:     user.Phone,
		UserType:  string(user.UserType),
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

func newSessionPayload(session domain.Session, currentID string) SessionPayload {
	return SessionPayload{
		ID:        session.ID,
		UserAgent: session.UserAgent,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
		IsCurrent: session.ID == currentID,
	}
}

func newPostPayload(post domain.Post) PostPayload {
	photos := post.Photos
	if photos == nil {
		photos = []string{}
	}

	return PostPayload{
		ID:          post.ID,
		UserID:      post.UserID,
		Title:       post.Title,
		Description: post.Description,
		Type:        string(post.Type),
		Price:       post.Price,
		Address: AddressPayload{
			Street:  post.Address.Street,
			City:    post.Address.City,
			State:   post.Address.State,
			Country: post.Address.Country,
			Zip:     post.Address.Zip,
		},
		Bedrooms:    post.Bedrooms,
		Bathrooms:   post.Bathrooms,
		Area:        post.Area,
		Photos:      photos,
		Status:      string(post.Status),
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
	}
}

func newLeadPayload(lead domain.Lead) LeadPayload {
	return LeadPayload{
		ID:        lead.ID,
		PostID:    lead.PostID,
		Email:     lead.Email,
		Name:      lead.Name,
		Phone:     lead.Phone,
		Message:   lead.Message,
		CreatedAt: lead.CreatedAt,
	}
}
