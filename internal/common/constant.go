package common

// Cookie names used by the auth endpoints. The refresh token travels only
// in an HttpOnly cookie, never in a JSON body.
const (
	RefreshTokenCookieName = "refreshToken"
	SessionIDCookieName    = "sessionId"
)
