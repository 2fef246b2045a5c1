package domain

import "time"

// User is the account a session resolves to. Tasks reference it through OwnerID.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
