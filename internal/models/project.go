package models

import "time"

const (
	ProjectActive   = "ACTIVE"
	ProjectArchived = "ARCHIVED"
)

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"` // ACTIVE | ARCHIVED
	OwnerID   string    `json:"ownerId"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Populated on reads, not stored on the row itself.
	OwnerName   string   `json:"ownerName,omitempty"`
	OwnerEmail  string   `json:"ownerEmail,omitempty"`
	SprintCount int      `json:"sprintCount"`
	HasOpen     bool     `json:"hasOpenSprint"`
	Sprints     []Sprint `json:"sprints,omitempty"`
}
