// Package services contains server-side business logic. This file implements
// UserService, which drives the whole session lifecycle: registration, login,
// refresh-token rotation, logout, and password reset.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/dbx"
	"github.com/vkushnir/contactbook/internal/logging"
	"github.com/vkushnir/contactbook/internal/server/auth"
	"github.com/vkushnir/contactbook/internal/server/config"
	"github.com/vkushnir/contactbook/internal/server/mail"
	"github.com/vkushnir/contactbook/internal/server/models"
	"github.com/vkushnir/contactbook/internal/server/repositories/repomanager"
)

// bcryptCost matches the work factor the accounts were originally hashed with.
const bcryptCost = 12

// UserService provides authentication-related operations:
//   - Register / Login: create users, verify credentials, mint token pairs
//   - Refresh: rotate sessions (refresh tokens are single-use)
//   - Logout: revoke the session behind a refresh token
//   - Authenticate: resolve a bearer token to a live session
//   - SendResetEmail / ResetPassword: the password-reset flow
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       mail.Mailer
	logger                       logging.Logger
	accessSecret                 []byte
	refreshSecret                []byte
	resetSecret                  []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	appDomain                    string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		logger:                       logger.With("module", "user_service"),
		accessSecret:                 []byte(cfg.AccessSecret),
		refreshSecret:                []byte(cfg.RefreshSecret),
		resetSecret:                  []byte(cfg.ResetSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		appDomain:                    cfg.AppDomain,
	}
}

// IssueTokens mints a signed access/refresh pair for userID together with
// the absolute expiries computed at issuance time. Pure function of current
// time and secret configuration; persisting the session is the caller's job.
func (s *UserService) IssueTokens(userID string) (*models.TokenPair, error) {
	now := time.Now()

	accessToken, err := auth.GenerateToken(userID, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshToken, err := auth.GenerateToken(userID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.accessTokenValidityDuration),
		RefreshExpiresAt: now.Add(s.refreshTokenValidityDuration),
	}, nil
}

// createSession persists a session row binding pair to userID.
func (s *UserService) createSession(ctx context.Context, tx dbx.DBTX, userID string, pair *models.TokenPair) (*models.Session, error) {
	session := &models.Session{
		UserID:           userID,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
	return s.repomanager.Sessions(tx).Create(ctx, session)
}

// Register creates a new user and an initial session. A duplicate email
// yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *models.Session, *models.TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, nil, common.ErrorInternal
	}

	var (
		user    *models.User
		session *models.Session
		pair    *models.TokenPair
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return err
		}

		p, err := s.IssueTokens(u.ID)
		if err != nil {
			return err
		}

		sess, err := s.createSession(ctx, tx, u.ID, p)
		if err != nil {
			return err
		}

		user, session, pair = u, sess, p
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, nil, nil, common.ErrorConflict
		}
		return nil, nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, session, pair, nil
}

// Login verifies the credentials and replaces any existing sessions with a
// single new one. Unknown email and wrong password are indistinguishable to
// the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, *models.TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.IssueTokens(user.ID)
	if err != nil {
		return nil, nil, nil, common.ErrorInternal
	}

	var session *models.Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// single active session per user: a new login evicts older devices
		if err := s.repomanager.Sessions(tx).DeleteAllForUser(ctx, user.ID); err != nil {
			return err
		}
		sess, err := s.createSession(ctx, tx, user.ID, pair)
		if err != nil {
			return err
		}
		session = sess
		return nil
	})
	if err != nil {
		return nil, nil, nil, common.ErrorInternal
	}

	return user, session, pair, nil
}

// Refresh validates a refresh token against both its signature and the
// session store, then rotates the session transactionally. The old refresh
// token is permanently dead afterwards even though its JWT expiry has not
// elapsed; a concurrent refresh with the same token loses the delete race
// and gets common.ErrorUnauthorized.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.Session, *models.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, common.ErrorUnauthorized
	}

	userID, err := auth.GetUserIDFromToken(refreshToken, s.refreshSecret)
	if err != nil {
		// expired vs invalid matters only for the log line
		return nil, nil, err
	}

	repo := s.repomanager.Sessions(s.db)
	session, err := repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.UserID != userID {
		return nil, nil, common.ErrorUnauthorized
	}
	if session.RefreshExpiresAt.Before(time.Now()) {
		return nil, nil, common.ErrTokenExpired
	}

	pair, err := s.IssueTokens(userID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	var replacement *models.Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Sessions(tx)
		n, err := repoTx.DeleteByRefreshToken(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		if n == 0 {
			// someone else consumed this token first
			return common.ErrorUnauthorized
		}
		sess, err := s.createSession(ctx, tx, userID, pair)
		if err != nil {
			return err
		}
		replacement = sess
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, err
	}

	return replacement, pair, nil
}

// Logout deletes the session holding refreshToken. A second logout with the
// same token observably fails with common.ErrorNotFound.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.ErrorValidation
	}

	n, err := s.repomanager.Sessions(s.db).DeleteByRefreshToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Authenticate resolves a bearer access token (and optional session id from
// a cookie) to the owning user id. Cryptographic validity alone is not
// enough: the session row must still exist and be unexpired, so logged-out
// or rotated tokens are rejected before their own expiry.
func (s *UserService) Authenticate(ctx context.Context, accessToken, sessionID string) (string, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.accessSecret)
	if err != nil {
		return "", err
	}

	session, err := s.repomanager.Sessions(s.db).FindLive(ctx, userID, accessToken, time.Now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if sessionID != "" && sessionID != session.ID {
		return "", common.ErrorUnauthorized
	}

	return userID, nil
}

// GetCurrentUser returns the user record for an authenticated user id.
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// SendResetEmail mints a short-lived reset token and mails a reset link.
// The response is identical whether or not the account exists, and a mail
// delivery failure degrades to success with a warning: neither may leak
// account existence or take the endpoint down.
func (s *UserService) SendResetEmail(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "reset requested for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	token, err := auth.GenerateResetToken(user.Email, s.resetSecret, s.resetTokenValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}

	link := fmt.Sprintf("%s/reset-pwd?token=%s", s.appDomain, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		s.logger.Warn(ctx, "reset email delivery failed", "error", err.Error())
		return nil
	}

	return nil
}

// ResetPassword validates a reset token, re-hashes the password, and revokes
// every session of the user in one transaction (forced global logout).
// Reusing the current password is a validation error and performs no mutation.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, err := auth.GetEmailFromResetToken(resetToken, s.resetSecret)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteAllForUser(ctx, user.ID)
	})
	if err != nil {
		return common.ErrorInternal
	}

	return nil
}
