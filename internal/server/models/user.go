package models

import "time"

// User is an identity record. PasswordHash is never the plaintext and must
// not be logged or returned to clients.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
