package auth

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

// AccessClaims is the verified content of a bearer token. Token issuance
// lives in the identity service; this backend only validates.
type AccessClaims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}
