package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/dbx"
	"github.com/vkushnir/contactbook/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (user_id, name, phone_number, email, contact_type, is_favourite, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.Name, contact.PhoneNumber, contact.Email,
		contact.ContactType, contact.IsFavourite, contact.PhotoURL).
		Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Contact, error) {
	query := `
		SELECT id, user_id, name, phone_number, email, contact_type, is_favourite, photo_url, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	contact := &models.Contact{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&contact.ID, &contact.UserID, &contact.Name, &contact.PhoneNumber, &contact.Email,
			&contact.ContactType, &contact.IsFavourite, &contact.PhotoURL,
			&contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Contact, error) {
	query := `
		SELECT id, user_id, name, phone_number, email, contact_type, is_favourite, photo_url, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.ID, &contact.UserID, &contact.Name, &contact.PhoneNumber,
			&contact.Email, &contact.ContactType, &contact.IsFavourite, &contact.PhotoURL,
			&contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET name = $3, phone_number = $4, email = $5, contact_type = $6, is_favourite = $7, photo_url = $8,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.PhoneNumber, contact.Email,
		contact.ContactType, contact.IsFavourite, contact.PhotoURL).
		Scan(&contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (int64, error) {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
