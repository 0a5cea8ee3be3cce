// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"dealership/config"
	"dealership/internal/domain/entity"
	"dealership/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultAccessTokenTTL  = time.Hour
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenType = "refresh"
)

// tokenClaims is the payload of every token. Access tokens leave Type empty.
type tokenClaims struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	accessSecret  []byte           // Secret key for signing access tokens.
	refreshSecret []byte           // Secret key for signing refresh tokens.
	accessTTL     time.Duration    // Time-to-live for access tokens.
	refreshTTL    time.Duration    // Time-to-live for refresh tokens.
	now           func() time.Time // Clock used for iat/exp and expiry checks.
}

// NewJWTService is the constructor for jwtService.
// The refresh secret falls back to the access secret when it is not configured.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return NewJWTServiceWithClock(cfg, time.Now)
}

// NewJWTServiceWithClock builds a jwtService that reads time from now.
func NewJWTServiceWithClock(cfg *config.Config, now func() time.Time) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}
	if now == nil {
		now = time.Now
	}

	refreshSecret := cfg.SecretKey.Refresh
	if refreshSecret == "" {
		refreshSecret = cfg.SecretKey.Access
	}

	svc := &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     defaultAccessTokenTTL,
		refreshTTL:    defaultRefreshTokenTTL,
		now:           now,
	}
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			svc.accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			svc.refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return svc, nil
}

// Issue signs a token of the given kind for principalID that expires after ttl.
func (s *jwtService) Issue(principalID uuid.UUID, kind entity.TokenKind, ttl time.Duration) (string, error) {
	if !kind.IsValid() {
		return "", errors.Errorf("unknown token kind %q", kind)
	}
	if ttl <= 0 {
		return "", errors.Errorf("token ttl must be positive, got %s", ttl)
	}

	issuedAt := s.now()
	claims := tokenClaims{
		ID: principalID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	if kind == entity.TokenKindRefresh {
		claims.Type = refreshTokenType
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretFor(kind))
	if err != nil {
		return "", errors.Wrapf(err, "sign %s token", kind)
	}

	return signed, nil
}

// IssuePair issues a fresh access and refresh token for principalID.
func (s *jwtService) IssuePair(principalID uuid.UUID) (*entity.TokenPair, error) {
	access, err := s.Issue(principalID, entity.TokenKindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.Issue(principalID, entity.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &entity.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature, expiry and type tag of token for the expected kind.
func (s *jwtService) Verify(token string, kind entity.TokenKind) (*entity.Principal, error) {
	if !kind.IsValid() {
		return nil, errors.Errorf("unknown token kind %q", kind)
	}

	claims, err := s.parse(token, s.secretFor(kind))
	if err != nil {
		return nil, s.classify(token, kind, err)
	}

	wantType := ""
	if kind == entity.TokenKindRefresh {
		wantType = refreshTokenType
	}
	if claims.Type != wantType {
		return nil, errors.Wrapf(service.ErrWrongTokenType, "expected %s token", kind)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, errors.Wrap(service.ErrMalformedToken, "id claim is not a uuid")
	}

	return &entity.Principal{ID: id}, nil
}

func (s *jwtService) parse(token string, secret []byte) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// classify maps a jwt parse failure onto the token error taxonomy. A token whose
// signature only checks out under the other kind's secret is reported as the wrong type.
func (s *jwtService) classify(token string, kind entity.TokenKind, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Wrap(service.ErrMalformedToken, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		other := s.secretFor(otherKind(kind))
		if string(other) != string(s.secretFor(kind)) {
			if _, otherErr := s.parse(token, other); otherErr == nil || errors.Is(otherErr, jwt.ErrTokenExpired) {
				return errors.Wrapf(service.ErrWrongTokenType, "expected %s token", kind)
			}
		}

		return errors.Wrap(service.ErrInvalidSignature, err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	default:
		return errors.Wrap(service.ErrMalformedToken, err.Error())
	}
}

func (s *jwtService) secretFor(kind entity.TokenKind) []byte {
	if kind == entity.TokenKindRefresh {
		return s.refreshSecret
	}

	return s.accessSecret
}

func otherKind(kind entity.TokenKind) entity.TokenKind {
	if kind == entity.TokenKindRefresh {
		return entity.TokenKindAccess
	}

	return entity.TokenKindRefresh
}
