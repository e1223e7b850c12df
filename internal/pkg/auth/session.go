// Package auth mints and verifies admin session tokens.
//
// Two verifiers share one claims schema. SessionCodec checks the HMAC signature
// and expiry and is the only one allowed to gate state-changing handlers.
// EdgeVerifier decodes the payload and checks shape and expiry without the
// signature; it protects the admin pages against expired or malformed cookies
// but accepts forged tokens, so it must never authorize a mutation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidSession is the single outcome reported for malformed, expired or forged tokens.
var ErrInvalidSession = errors.New("invalid session")

// DefaultSessionTTL is the lifetime of a minted session token.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionClaims is the payload carried by a session token
type SessionClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// Verifier resolves a raw token into claims or ErrInvalidSession
type Verifier interface {
	Verify(token string) (*SessionClaims, error)
}

// SessionConfig defines session codec settings
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionCodec mints tokens and verifies them with the signing secret
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	logger zerolog.Logger
}

// NewSessionCodec creates a new session codec
func NewSessionCodec(cfg SessionConfig, logger zerolog.Logger) *SessionCodec {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCodec{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source, used to simulate expiry
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	c.now = now
	return c
}

// TTL returns the lifetime of minted tokens
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Mint signs the identity claims with an issue time and expiry
func (c *SessionCodec) Mint(identity SessionClaims) (string, error) {
	issuedAt := c.now()
	claims := &SessionClaims{
		UserID:   identity.UserID,
		Username: identity.Username,
		FullName: identity.FullName,
		UserType: identity.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    c.issuer,
			Subject:   identity.UserID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifyFull checks structure, HMAC signature and expiry
func (c *SessionCodec) VerifyFull(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		c.logger.Debug().Err(err).Msg("session token rejected by full verification")
		return nil, ErrInvalidSession
	}

	if !token.Valid || !hasIdentity(claims) {
		c.logger.Debug().Msg("session token missing identity claims")
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Verify implements Verifier with full verification
func (c *SessionCodec) Verify(tokenString string) (*SessionClaims, error) {
	return c.VerifyFull(tokenString)
}

func hasIdentity(claims *SessionClaims) bool {
	return claims.UserID != "" && claims.Username != ""
}
