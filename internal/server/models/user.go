// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account of the contact book. PasswordHash is a bcrypt hash;
// the plaintext password never reaches this struct.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	Avatar       *string
	RefreshToken *string
	Confirmed    bool
}
