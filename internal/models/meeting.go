package models

import "time"

type Meeting struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	CreatedBy string    `json:"createdBy"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	NextSteps string    `json:"nextSteps,omitempty"`
	Attendees string    `json:"attendees,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	CreatorName  string `json:"creatorName,omitempty"`
	CreatorEmail string `json:"creatorEmail,omitempty"`
}
