package helpers

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session credential. The user
// record itself is loaded fresh from the database by the auth middleware.
type SessionClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

func (sc *SessionClaims) UserID() string {
	return sc.Subject
}
