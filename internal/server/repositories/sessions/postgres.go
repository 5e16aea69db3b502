package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (user_id, access_token, refresh_token, access_expires_at, refresh_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.UserID, session.AccessToken, session.RefreshToken,
		session.AccessExpiresAt, session.RefreshExpiresAt).
		Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, access_expires_at, refresh_expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1
	`
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, refreshToken).
		Scan(&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken,
			&session.AccessExpiresAt, &session.RefreshExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) FindLive(ctx context.Context, userID string, accessToken string, now time.Time) (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, access_expires_at, refresh_expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND access_token = $2 AND access_expires_at > $3
	`
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, userID, accessToken, now).
		Scan(&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken,
			&session.AccessExpiresAt, &session.RefreshExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE refresh_token = $1
	`
	res, err := r.db.ExecContext(ctx, query, refreshToken)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
