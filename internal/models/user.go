package models

import "time"

const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
