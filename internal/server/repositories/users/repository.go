// Package users declares the server-side repository contract for the
// credential store.
package users

import (
	"context"

	"github.com/vkushnir/contactbook/internal/server/models"
)

// Repository defines persistence operations over user records.
type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by case-normalized email.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks up a user by id. Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePassword replaces the stored password hash for userID.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}
