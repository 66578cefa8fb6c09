package repository

import "context"

// Session is a request-scoped view of the store bound to one connection.
type Session interface {
	Users() UserRepository
	Posts() PostRepository
}

// Store hands out sessions. Session acquires a connection for the duration
// of fn and releases it on every exit path, including panics.
type Store interface {
	Session(ctx context.Context, fn func(ctx context.Context, s Session) error) error
}
