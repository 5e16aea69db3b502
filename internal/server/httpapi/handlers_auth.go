package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/server/models"
)

// userResponse is the public projection of a user (no password hash).
type userResponse struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00")
	}
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	user, session, pair, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)

	s.setAuthCookies(w, session, pair)
	s.sendJSON(w, http.StatusCreated, "Successfully registered a user!", map[string]any{
		"user":        toUserResponse(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	user, session, pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// identical message for unknown email and wrong password
			s.sendError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.sendServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "user_id", user.ID)

	s.setAuthCookies(w, session, pair)
	s.sendJSON(w, http.StatusOK, "Successfully logged in an user!", map[string]any{
		"user":        toUserResponse(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := refreshTokenFromCookie(r)

	session, pair, err := s.users.Refresh(r.Context(), refreshToken)
	if err != nil {
		s.logger.Warn(r.Context(), "refresh failed", "error", err.Error())
		s.sendServiceError(w, r, err)
		return
	}

	s.setAuthCookies(w, session, pair)
	s.sendJSON(w, http.StatusOK, "Successfully refreshed a session!", map[string]any{
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.users.Logout(r.Context(), refreshTokenFromCookie(r))
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			s.sendError(w, http.StatusBadRequest, "Refresh token is required")
			return
		}
		if errors.Is(err, common.ErrorNotFound) {
			s.sendError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.sendServiceError(w, r, err)
		return
	}

	s.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetCurrentUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.sendError(w, http.StatusNotFound, "User not found")
			return
		}
		s.sendServiceError(w, r, err)
		return
	}

	s.sendJSON(w, http.StatusOK, "Current user", toUserResponse(user))
}

func (s *Server) handleSendResetEmail(w http.ResponseWriter, r *http.Request) {
	var req sendResetEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.users.SendResetEmail(r.Context(), req.Email); err != nil {
		s.sendServiceError(w, r, err)
		return
	}

	// same response whether or not the account exists
	s.sendJSON(w, http.StatusOK, "Reset password email was successfully sent!", nil)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			s.sendError(w, http.StatusBadRequest, "New password must differ from the current one")
			return
		}
		s.sendServiceError(w, r, err)
		return
	}

	s.sendJSON(w, http.StatusOK, "Password was successfully reset!", nil)
}
