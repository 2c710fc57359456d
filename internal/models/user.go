package models

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleDev   = "DEV"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // ADMIN | DEV
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
