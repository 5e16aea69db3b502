package httpapi

import (
	"net/http"
	"time"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/server/models"
)

// setAuthCookies delivers the refresh token and session id to the browser.
// The refresh token never appears in a JSON body.
func (s *Server) setAuthCookies(w http.ResponseWriter, session *models.Session, pair *models.TokenPair) {
	secure := s.config.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionIDCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
}

// clearAuthCookies expires both auth cookies.
func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	secure := s.config.IsProduction()

	for _, name := range []string{common.RefreshTokenCookieName, common.SessionIDCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   secure,
		})
	}
}

// refreshTokenFromCookie reads the refresh token cookie, returning "" when absent.
func refreshTokenFromCookie(r *http.Request) string {
	c, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
