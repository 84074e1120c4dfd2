package accounts

import "time"

// Account is a registered user account. PasswordHash holds the argon2id
// digest of the password and per-account Salt; the password itself is never
// stored.
type Account struct {
	ID             string
	Username       string
	Email          string
	Salt           []byte
	PasswordHash   []byte
	Active         bool
	Locked         bool
	FailedAttempts int
	CreatedAt      time.Time
	LastLogin      time.Time
}
