package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims identifies a shopping session. It carries no user identity.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// generateSessionToken signs a session token valid for ttl.
func generateSessionToken(secret []byte, sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseSessionToken verifies token and returns the session id it carries and
// when the token expires.
func parseSessionToken(secret []byte, token string) (uuid.UUID, time.Time, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	if !parsed.Valid {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid session token")
	}

	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return id, claims.ExpiresAt.Time, nil
}

// parseProductID parses a positive catalog product id.
func parseProductID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("product id must be positive, got %d", id)
	}
	return id, nil
}
