// Package contacts declares the repository contract for per-user contact
// records. Every lookup is scoped by the owning user id; a contact owned by
// someone else is indistinguishable from an absent one.
package contacts

import (
	"context"

	"github.com/vkushnir/contactbook/internal/server/models"
)

// Repository defines persistence operations over contact records.
type Repository interface {
	// Create inserts a new contact owned by contact.UserID.
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// GetByID returns the contact with the given id if owned by userID.
	// Returns common.ErrorNotFound otherwise.
	GetByID(ctx context.Context, userID, id string) (*models.Contact, error)

	// List returns all contacts owned by userID, newest first.
	List(ctx context.Context, userID string) ([]*models.Contact, error)

	// Update replaces the mutable fields of the contact identified by
	// (contact.UserID, contact.ID). Returns common.ErrorNotFound when absent.
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// Delete removes the contact and reports how many rows were deleted.
	Delete(ctx context.Context, userID, id string) (int64, error)
}
