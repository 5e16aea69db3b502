package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/server/models"
	"github.com/vkushnir/contactbook/internal/server/repositories/repomanager"
)

// PhotoUpload carries an incoming contact photo from the multipart request.
type PhotoUpload struct {
	ContentType string
	Body        io.Reader
}

// ContactUpdate holds the optional fields of a partial contact update.
// Nil pointers leave the stored value untouched.
type ContactUpdate struct {
	Name        *string
	PhoneNumber *string
	Email       *string
	ContactType *string
	IsFavourite *bool
}

// ContactService implements per-user contact CRUD with optional photo
// storage in the media store.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaStore
}

// NewContactService constructs a ContactService.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager, media MediaStore) *ContactService {
	return &ContactService{db: db, repomanager: m, media: media}
}

// Create stores a new contact for userID. A photo upload failure fails the
// whole request: the contact cannot be created without its durable URL.
func (s *ContactService) Create(ctx context.Context, userID string, contact *models.Contact, photo *PhotoUpload) (*models.Contact, error) {
	contact.UserID = userID

	if photo != nil {
		url, err := s.media.Store(ctx, photo.ContentType, photo.Body)
		if err != nil {
			return nil, common.ErrorUpstream
		}
		contact.PhotoURL = url
	}

	created, err := s.repomanager.Contacts(s.db).Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return created, nil
}

// List returns all contacts of userID.
func (s *ContactService) List(ctx context.Context, userID string) ([]*models.Contact, error) {
	result, err := s.repomanager.Contacts(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return result, nil
}

// Get returns a single contact owned by userID.
func (s *ContactService) Get(ctx context.Context, userID, id string) (*models.Contact, error) {
	contact, err := s.repomanager.Contacts(s.db).GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading contact: %w", err)
	}
	return contact, nil
}

// Update applies a partial update and an optional replacement photo.
func (s *ContactService) Update(ctx context.Context, userID, id string, update *ContactUpdate, photo *PhotoUpload) (*models.Contact, error) {
	contact, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		contact.Name = *update.Name
	}
	if update.PhoneNumber != nil {
		contact.PhoneNumber = *update.PhoneNumber
	}
	if update.Email != nil {
		contact.Email = *update.Email
	}
	if update.ContactType != nil {
		contact.ContactType = *update.ContactType
	}
	if update.IsFavourite != nil {
		contact.IsFavourite = *update.IsFavourite
	}

	if photo != nil {
		url, err := s.media.Store(ctx, photo.ContentType, photo.Body)
		if err != nil {
			return nil, common.ErrorUpstream
		}
		contact.PhotoURL = url
	}

	updated, err := s.repomanager.Contacts(s.db).Update(ctx, contact)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}
	return updated, nil
}

// Delete removes a contact owned by userID.
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.repomanager.Contacts(s.db).Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("error deleting contact: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
