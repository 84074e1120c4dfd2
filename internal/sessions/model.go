package sessions

import "time"

// Session is a logged-in account's active session. An account holds at most
// one session; logging in again replaces it.
type Session struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}
