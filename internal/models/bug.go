package models

import "time"

const (
	BugPending = "PENDING"
	BugReal    = "REAL"
	BugFalse   = "FALSE"

	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

func ValidBugPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Bug struct {
	ID          string    `json:"id"`
	SprintID    string    `json:"sprintId"`
	TicketID    string    `json:"ticketId,omitempty"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"` // LOW | MEDIUM | HIGH | CRITICAL
	Status      string    `json:"status"`   // PENDING | REAL | FALSE
	EvidenceURL string    `json:"evidenceUrl,omitempty"`
	ReporterID  string    `json:"reporterId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	ReporterName string `json:"reporterName,omitempty"`
	TicketTitle  string `json:"ticketTitle,omitempty"`
	ProjectName  string `json:"projectName,omitempty"`
}
