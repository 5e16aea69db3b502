package models

import "time"

// Session binds an issued token pair to a user. The session row, not the
// tokens' embedded expiries, is authoritative: a token whose session has
// been deleted is rejected even while its signature still verifies.
type Session struct {
	ID               string
	UserID           string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token together with their absolute expiry timestamps.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
