package domain

import (
	"time"
)

// User is an authenticated account. Room ownership and vote identities
// reference users by ID.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
