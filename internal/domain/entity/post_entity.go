package entity

import "time"

// Post is a short text post owned by a single user.
type Post struct {
	ID          int64
	UserID      int64
	Title       string
	Body        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
