package models

import "time"

type VelocityPoint struct {
	SprintID         string    `json:"sprintId"`
	EndDate          time.Time `json:"endDate"`
	CompletedTickets int       `json:"completedTickets"`
}

type UserCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type BugStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Real    int `json:"real"`
	False   int `json:"false"`
}
