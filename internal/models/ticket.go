package models

import "time"

const (
	TicketReady      = "READY"
	TicketTodo       = "TODO"
	TicketInProgress = "IN_PROGRESS"
	TicketDone       = "DONE"
	TicketBlocked    = "BLOCKED"
)

// Ticket statuses are freely settable; there is no enforced workflow order.
var TicketStatuses = []string{TicketReady, TicketTodo, TicketInProgress, TicketDone, TicketBlocked}

func ValidTicketStatus(s string) bool {
	for _, v := range TicketStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Ticket struct {
	ID        string    `json:"id"`
	SprintID  string    `json:"sprintId"`
	EpicID    string    `json:"epicId,omitempty"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
