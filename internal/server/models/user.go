// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Password users carry a bcrypt hash; provider users
// carry the provider name and the id token subject instead.
type User struct {
	ID                  string
	UserName            string
	Email               string
	PasswordHash        []byte
	Provider            string
	ProviderSubject     string
	DeletionRequestedAt *time.Time
	CreatedAt           time.Time
}

// DeletionPending reports whether the account has been asked to be deleted.
func (u *User) DeletionPending() bool {
	return u.DeletionRequestedAt != nil
}
