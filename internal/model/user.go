// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login key and is UNIQUE in the database (case-sensitive exact
// match). PasswordHash holds the bcrypt digest of the password — never the
// plaintext — and must never be serialized to a client, which is why its
// json tag is "-".
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
