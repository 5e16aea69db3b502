// Package httpapi exposes the REST surface of the contactbook server:
// auth/session endpoints and per-user contacts CRUD.
package httpapi

import (
	"context"
	"net/http"

	"github.com/vkushnir/contactbook/internal/logging"
	"github.com/vkushnir/contactbook/internal/server/config"
	"github.com/vkushnir/contactbook/internal/server/models"
	"github.com/vkushnir/contactbook/internal/server/services"
)

// UserService is the slice of the user/session service the handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *models.Session, *models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.Session, *models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, *models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken, sessionID string) (string, error)
	GetCurrentUser(ctx context.Context, userID string) (*models.User, error)
	SendResetEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// ContactService is the slice of the contact service the handlers need.
type ContactService interface {
	Create(ctx context.Context, userID string, contact *models.Contact, photo *services.PhotoUpload) (*models.Contact, error)
	List(ctx context.Context, userID string) ([]*models.Contact, error)
	Get(ctx context.Context, userID, id string) (*models.Contact, error)
	Update(ctx context.Context, userID, id string, update *services.ContactUpdate, photo *services.PhotoUpload) (*models.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}

// Server mounts the REST routes onto an http.ServeMux. It does not listen
// itself; the app owns the http.Server.
type Server struct {
	config   *config.Config
	logger   logging.Logger
	users    UserService
	contacts ContactService
	mux      *http.ServeMux
}

// NewServer wires handlers and middleware onto a fresh mux.
func NewServer(cfg *config.Config, logger logging.Logger, users UserService, contacts ContactService) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger.With("module", "http_server"),
		users:    users,
		contacts: contacts,
		mux:      http.NewServeMux(),
	}
	s.mountRoutes()
	return s
}

// Handler returns the fully assembled handler chain.
func (s *Server) Handler() http.Handler {
	return s.withRecovery(s.withRequestLogging(s.mux))
}

func (s *Server) mountRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)
	s.mux.HandleFunc("POST /auth/send-reset-email", s.handleSendResetEmail)
	s.mux.HandleFunc("POST /auth/reset-pwd", s.handleResetPassword)
	s.mux.Handle("GET /auth/current", s.requireAuth(http.HandlerFunc(s.handleCurrentUser)))

	s.mux.Handle("GET /contacts", s.requireAuth(http.HandlerFunc(s.handleListContacts)))
	s.mux.Handle("POST /contacts", s.requireAuth(http.HandlerFunc(s.handleCreateContact)))
	s.mux.Handle("GET /contacts/{id}", s.requireAuth(http.HandlerFunc(s.handleGetContact)))
	s.mux.Handle("PATCH /contacts/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateContact)))
	s.mux.Handle("DELETE /contacts/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteContact)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, "OK", nil)
}
