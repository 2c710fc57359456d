package models

import "time"

const (
	RhythmWeekly   = "WEEKLY"
	RhythmBiweekly = "BIWEEKLY"

	SprintOpen   = "OPEN"
	SprintClosed = "CLOSED"
)

type Sprint struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Rhythm    string    `json:"rhythm"` // WEEKLY | BIWEEKLY
	Status    string    `json:"status"` // OPEN | CLOSED
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`

	Tickets    []Ticket    `json:"tickets,omitempty"`
	Bugs       []Bug       `json:"bugs,omitempty"`
	RetroItems []RetroItem `json:"retroItems,omitempty"`
}

// SprintDuration returns the sprint length for a rhythm. Unknown rhythms
// fall back to weekly.
func SprintDuration(rhythm string) time.Duration {
	if rhythm == RhythmBiweekly {
		return 14 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}
