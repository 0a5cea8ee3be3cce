package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "dealership/internal/delivery/context"
	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware gates routes behind a valid access token.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate requires "Authorization: Bearer <access token>".
// A missing or malformed header is 401; a token that fails verification is 403.
// On success the principal id is stored on the echo and request contexts.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errors.WithStack(domainerrors.ErrUnauthenticated)
		}

		principal, err := m.tokenSvc.Verify(token, entity.TokenKindAccess)
		if err != nil {
			deliverycontext.Logger(c.Request().Context(), m.logger).
				Debug("Access token rejected", slog.Any("reason", err))

			return errors.WithStack(domainerrors.ErrForbidden)
		}

		deliverycontext.SetPrincipal(c, principal.ID)

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
