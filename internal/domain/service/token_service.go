// Package service declares the ports the dealership usecases depend on: token
// signing, password hashing, listing QR codes and inventory events.
package service

import (
	"errors"
	"time"

	"dealership/internal/domain/entity"

	"github.com/google/uuid"
)

// Token verification failures. Callers map all of them to a single client-facing error.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrWrongTokenType   = errors.New("token type mismatch")
	ErrMalformedToken   = errors.New("token malformed")
)

// TokenService issues and verifies signed, time-bound bearer tokens.
type TokenService interface {
	// Issue signs a token of the given kind for the principal, expiring after ttl.
	Issue(principalID uuid.UUID, kind entity.TokenKind, ttl time.Duration) (string, error)

	// IssuePair issues an access and a refresh token with the configured lifetimes.
	IssuePair(principalID uuid.UUID) (*entity.TokenPair, error)

	// Verify checks signature, expiry and kind and returns the embedded principal.
	Verify(token string, kind entity.TokenKind) (*entity.Principal, error)
}
