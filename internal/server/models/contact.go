package models

import "time"

// Contact types accepted by the API.
const (
	ContactTypeWork     = "work"
	ContactTypeHome     = "home"
	ContactTypePersonal = "personal"
)

// ValidContactType reports whether t is one of the accepted contact types.
func ValidContactType(t string) bool {
	switch t {
	case ContactTypeWork, ContactTypeHome, ContactTypePersonal:
		return true
	}
	return false
}

// Contact is a phonebook entry owned by a single user.
type Contact struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email,omitempty"`
	ContactType string    `json:"contactType"`
	IsFavourite bool      `json:"isFavourite"`
	PhotoURL    string    `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
