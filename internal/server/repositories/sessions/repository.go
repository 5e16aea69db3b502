// Package sessions declares the server-side repository contract for the
// session store. Session rows are the single source of truth for token
// validity: a token without a live session row is dead no matter what its
// own expiry says.
package sessions

import (
	"context"
	"time"

	"github.com/vkushnir/contactbook/internal/server/models"
)

// Repository defines operations for creating, resolving, and revoking sessions.
type Repository interface {
	// Create persists a new session and returns it with id and creation time set.
	Create(ctx context.Context, session *models.Session) (*models.Session, error)

	// FindByRefreshToken looks up a session by its refresh token.
	// Returns common.ErrorNotFound when absent.
	FindByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)

	// FindLive resolves the session matching (userID, accessToken) whose
	// access expiry is still after now. Returns common.ErrorNotFound when no
	// such session exists, including when it was rotated or revoked.
	FindLive(ctx context.Context, userID string, accessToken string, now time.Time) (*models.Session, error)

	// DeleteByRefreshToken removes the session holding refreshToken and
	// reports how many rows were deleted (0 when already logged out).
	DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error)

	// DeleteAllForUser removes every session owned by userID.
	DeleteAllForUser(ctx context.Context, userID string) error
}
