package domain

import "time"

// PostStatus tracks the listing lifecycle.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// PropertyType categorises a listing.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyCondo     PropertyType = "condo"
	PropertyLand      PropertyType = "land"
)

// Address locates a listing. Street, city, state, country and the property
// type together identify a listing for duplicate detection.
type Address struct {
	Street  string
	City    string
	State   string
	Country string
	Zip     string
}

// Post is a real-estate listing owned by an agent. Drafts are only visible to
// their owner; published posts are public and accept leads.
type Post struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Type        PropertyType
	Price       float64
	Address     Address
	Bedrooms    int
	Bathrooms   int
	Area        float64
	Photos      []string
	Status      PostStatus
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished reports whether the post is publicly visible.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
