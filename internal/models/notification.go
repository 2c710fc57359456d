package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	EntityID  string    `json:"entityId,omitempty"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type ActivityLog struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName,omitempty"`
	EntityType string    `json:"entityType"` // SPRINT | TICKET | BUG | EPIC | MEETING | PROJECT
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"` // CREATED | UPDATED | CLOSED | DELETED | VALIDATED
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}
