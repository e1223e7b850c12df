package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// EdgeVerifier performs reduced-trust verification: structure, identity fields
// and expiry only. The signature segment is never inspected.
type EdgeVerifier struct {
	parser *jwt.Parser
	now    func() time.Time
	logger zerolog.Logger
}

// NewEdgeVerifier creates a structural verifier
func NewEdgeVerifier(logger zerolog.Logger) *EdgeVerifier {
	return &EdgeVerifier{
		parser: jwt.NewParser(),
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source, used to simulate expiry
func (v *EdgeVerifier) WithClock(now func() time.Time) *EdgeVerifier {
	v.now = now
	return v
}

// VerifyStructural decodes the payload segment and checks identity fields and expiry
func (v *EdgeVerifier) VerifyStructural(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	if _, _, err := v.parser.ParseUnverified(tokenString, claims); err != nil {
		v.logger.Debug().Err(err).Msg("session token payload could not be decoded")
		return nil, ErrInvalidSession
	}

	if claims.ExpiresAt == nil || !v.now().Before(claims.ExpiresAt.Time) {
		v.logger.Debug().Str("userId", claims.UserID).Msg("session token expired")
		return nil, ErrInvalidSession
	}

	if !hasIdentity(claims) {
		v.logger.Debug().Msg("session token missing identity claims")
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Verify implements Verifier with structural verification
func (v *EdgeVerifier) Verify(tokenString string) (*SessionClaims, error) {
	return v.VerifyStructural(tokenString)
}
