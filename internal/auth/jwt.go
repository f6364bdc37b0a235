package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is how long an issued token stays valid. There is no refresh
// or revocation — a token simply expires, so after seven days the client has
// to log in again.
const tokenLifetime = 7 * 24 * time.Hour

const issuer = "healthtrack"

// TokenService issues and verifies the signed bearer tokens that carry a
// user's identity between requests.
//
// Tokens are JWTs signed with HMAC-SHA256 using a single process-wide secret.
// They are self-contained: verification needs only the secret, no storage
// lookup, and the server keeps no record of tokens it has issued.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing secret.
// The secret should be at least 32 bytes of random data in production
// (e.g. JWT_SECRET=$(openssl rand -hex 32)); anything under 16 characters
// is rejected outright.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" claim carries the user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a token for the given userID, valid for seven days
// from now. Each call produces a fresh token; multiple valid tokens may
// coexist for one account.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithLifetime(userID, tokenLifetime)
}

// IssueWithLifetime creates a token with a custom lifetime. Used by tests to
// mint already-expired tokens.
func (s *TokenService) IssueWithLifetime(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
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

// Verify parses and checks a token string and returns the userID it carries.
//
// Checks: signature against the secret, expiry, issuer, and that the
// algorithm really is HS256 (rejecting anything else blocks algorithm
// confusion attacks). Every failure — forged, tampered, expired — comes back
// as a single generic error; callers must not distinguish them for clients.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
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
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
