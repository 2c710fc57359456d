package models

import "time"

const (
	EpicPlanning   = "PLANNING"
	EpicInProgress = "IN_PROGRESS"
	EpicCompleted  = "COMPLETED"
	EpicCancelled  = "CANCELLED"
)

func ValidEpicStatus(s string) bool {
	switch s {
	case EpicPlanning, EpicInProgress, EpicCompleted, EpicCancelled:
		return true
	}
	return false
}

type Epic struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	TicketCount    int `json:"ticketCount"`
	CompletedCount int `json:"completedCount"`
	Progress       int `json:"progress"` // round(100*done/total), 0 when empty
}
