// Package auth provides session tokens and credential verification for the API.
//
// SESSION FLOW OVERVIEW:
// 1. POST /api/register or /api/login verifies credentials and issues a token
// 2. The token is stored in an HttpOnly cookie named "token"
// 3. On every API call, middleware reads the cookie, validates the token, and
//    puts the user id in the request context
// 4. POST /api/logout clears the cookie
//
// WHY JWT FOR THE SESSION?
// A signed JWT is stateless — no server-side session table, no lookup per
// request. Everything needed (user id, expiry) lives inside the token, and
// the HMAC signature ensures nobody can forge or alter one without the
// secret. The contract the rest of the app sees is simply: valid unexpired
// token ⇔ authenticated user.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// sessionTTL is how long an issued session stays valid. After expiry the
// client must log in again.
const sessionTTL = 24 * time.Hour

const issuer = "microfeed"

// TokenService handles session token creation and validation.
// It holds the HMAC secret used to sign and verify tokens — the same secret
// must be used for both.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload. jwt.RegisteredClaims carries the standard
// fields; we use Subject for the user id and ID (jti) for a unique token id.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user id.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment. The jti claim gets an xid so every issued token
// is distinguishable even for the same user within the same second.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, sessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Exposed for tests that need an already-expired token.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
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

// Validate parses and verifies a session token string.
// Returns the user id (from the "sub" claim) if the token is valid.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it, an attacker
// could attempt an algorithm-confusion attack (e.g. alg=none).
func (s *TokenService) Validate(tokenStr string) (int64, error) {
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
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("auth: token subject is not a user id: %w", err)
	}

	return userID, nil
}
