package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the session token lifetime
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, malformed payload, or expiry.
// Verification never distinguishes the failure to callers.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies stateless signed session tokens. The
// signing secret is injected once at construction; claims are
// reconstructed from the token on every request, nothing is persisted.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec with the given signing secret and token
// lifetime. A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token carrying the user identity, issue time
// and expiry
func (c *Codec) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the token signature and expiry and returns the subject
// identity. It fails closed: every failure mode collapses to
// ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
