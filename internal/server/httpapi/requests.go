package httpapi

import (
	"net/mail"
	"strings"
)

// Request DTOs and their validation. Each request validates itself and
// returns a client-facing message; the empty string means valid. This is
// the single error-shape contract for every endpoint.

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRequest) Validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	if r.Name == "" {
		return "Name is required"
	}
	if len(r.Name) < 3 || len(r.Name) > 30 {
		return "Name must be 3-30 characters"
	}
	if msg := validateEmail(r.Email); msg != "" {
		return msg
	}
	if r.Password == "" {
		return "Password is required"
	}
	if len(r.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() string {
	r.Email = strings.TrimSpace(r.Email)

	if msg := validateEmail(r.Email); msg != "" {
		return msg
	}
	if r.Password == "" {
		return "Password is required"
	}
	return ""
}

type sendResetEmailRequest struct {
	Email string `json:"email"`
}

func (r *sendResetEmailRequest) Validate() string {
	r.Email = strings.TrimSpace(r.Email)
	return validateEmail(r.Email)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *resetPasswordRequest) Validate() string {
	if r.Token == "" {
		return "Token is required"
	}
	if r.Password == "" {
		return "Password is required"
	}
	if len(r.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

func validateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Invalid email format"
	}
	return ""
}
