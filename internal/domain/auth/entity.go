package auth

import "time"

// Operator is a back-office user allowed to call the API.
type Operator struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}
