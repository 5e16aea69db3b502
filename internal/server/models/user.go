// Package models holds the persistent entities of the contactbook server.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized into API responses.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
