package domain

import "time"

// User is an identity record: something that can log in.
// Holding an identity does not grant dashboard access by itself.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Admin authorizes a user identity to use the dashboard.
// One admin per identity by convention; rows are never mutated in place.
type Admin struct {
	ID        string
	UserID    string
	Email     string
	Role      string
	CreatedAt *time.Time
}

// Session is an issued login token. Revoking it is irreversible for
// that token; the user must authenticate again.
type Session struct {
	Token    string
	UserID   string
	Email    string
	IssuedAt time.Time
}
