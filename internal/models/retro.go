package models

import "time"

const (
	RetroPositive = "POSITIVE"
	RetroNegative = "NEGATIVE"
	RetroAction   = "ACTION"
)

func ValidRetroType(t string) bool {
	switch t {
	case RetroPositive, RetroNegative, RetroAction:
		return true
	}
	return false
}

// RetroItem is append-only; there is no update or delete path.
type RetroItem struct {
	ID         string    `json:"id"`
	SprintID   string    `json:"sprintId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Type       string    `json:"type"` // POSITIVE | NEGATIVE | ACTION
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
