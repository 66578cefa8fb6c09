package entity

import (
	"time"
)

// User is the persisted identity.
// Email is stored normalized (trimmed, lower-cased) and is unique.
// PasswordHash holds a bcrypt hash and never leaves the service layer.
type User struct {
	ID           int64
	Email        string
	Name         string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
}
