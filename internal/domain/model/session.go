package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the credentials issued to the signed-in administrator.
// An empty string means the token is absent.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// HasAccessToken reports whether an access token is present.
func (s Session) HasAccessToken() bool {
	return s.AccessToken != ""
}

// HasRefreshToken reports whether a refresh token is present.
func (s Session) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

// IsEmpty reports whether neither token is present.
func (s Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// AccessTokenExpiry returns the "exp" claim of the access token. The token is
// decoded without signature verification: the backend remains the authority on
// validity, this is only used to show the administrator when the session lapses.
// Returns false when the token is absent, not a JWT, or carries no exp claim.
func (s Session) AccessTokenExpiry() (time.Time, bool) {
	if s.AccessToken == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
