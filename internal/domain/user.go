package domain

import "time"

// User represents a registered account. Password always holds the bcrypt
// digest, never the plaintext. Token is the pending 6-digit confirmation or
// password-reset code and is nil whenever no flow is in progress.
type User struct {
	ID        int64
	Name      string
	Password  string
	Email     string
	Token     *string
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
