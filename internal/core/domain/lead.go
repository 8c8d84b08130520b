package domain

import "time"

// Lead is an inquiry captured against a published listing. AgentID snapshots
// the listing owner at capture time so later ownership changes do not reroute
// historical leads.
type Lead struct {
	ID        string
	PostID    string
	AgentID   string
	Email     string
	Name      string
	Phone     string
	Message   string
	CreatedAt time.Time
}
