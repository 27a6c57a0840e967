// Package auth provides the session layer: JWT creation/validation and the
// OAuth client for the identity provider.
//
// Flow:
//  1. User visits /auth/github/login → redirected to GitHub
//  2. GitHub calls back with a code; we exchange it for the user's profile
//  3. The user row is upserted and a JWT goes into an HttpOnly cookie
//  4. On API calls, middleware validates the cookie and puts the verified
//     external identity (the GitHub user ID) in the request context
//
// The token subject carries the external identity, not our internal row ID —
// handlers resolve it to an internal user per request, so a token minted
// before provisioning problems (or after a row disappears) degrades to a
// clean "user not provisioned" 404 instead of acting on a stale internal ID.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "photofeed"

// sessionDuration is how long a login lasts. Feed sessions are long-lived;
// the cookie, not the token, is the thing a user can revoke by logging out.
const sessionDuration = 7 * 24 * time.Hour

// TokenService handles JWT creation and validation. It holds the HMAC secret
// used for both; at least 32 random bytes in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; "sub" holds the external identity
// (GitHub user ID) in decimal form.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given external identity.
func (s *TokenService) Generate(githubID int64) (string, error) {
	return s.GenerateWithDuration(githubID, sessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(githubID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(githubID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the external identity
// from the subject claim.
//
// jwt.WithValidMethods pins HS256 — without it an attacker could attempt an
// algorithm-confusion downgrade. Issuer and expiry are checked too.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return 0, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	githubID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || githubID == 0 {
		return 0, fmt.Errorf("auth: token has no valid subject")
	}

	return githubID, nil
}
