package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetime. The original cookie-session model kept users logged in
// for the browser session; a signed token with a fixed lifetime is the
// stateless equivalent — the server stores nothing per session.
const sessionTTL = 24 * time.Hour

const issuer = "afisha"

// Identity is who a validated session belongs to.
type Identity struct {
	UserID string
	Role   string
}

// SessionService issues and validates the signed session tokens stored in
// the "session" HttpOnly cookie.
//
// The token carries the user id in the standard "sub" claim and the role
// in a private claim, so organizer-only routes can be gated without a DB
// lookup per request. The HMAC secret must be the same for signing and
// verification.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// sessionClaims is the token payload: registered claims plus the role.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given identity.
func (s *SessionService) Issue(id Identity) (string, error) {
	now := time.Now()

	c := sessionClaims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the identity it
// was issued for.
//
// Restricting the accepted algorithms to HS256 prevents algorithm
// confusion attacks (a token claiming alg "none" is rejected outright).
func (s *SessionService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: session expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid session claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: session token has no subject")
	}

	return Identity{UserID: c.Subject, Role: c.Role}, nil
}
