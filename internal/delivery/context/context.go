// Package context carries per-request state of the dealership API: the request
// id, the request-scoped logger and the authenticated principal. Each value is
// stored on both the echo context and the request's context.Context, so handlers
// and usecases read the same thing.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is read from and echoed back on every response.
const HeaderXRequestID = echo.HeaderXRequestID

type key int

const (
	keyRequestID key = iota
	keyLogger
	keyPrincipal
)

// echo.Context store keys.
const (
	echoKeyRequestID = "request_id"
	echoKeyPrincipal = "principal_id"
)

// Attach records the request id and its logger for the rest of the request.
func Attach(c echo.Context, requestID string, logger *slog.Logger) {
	c.Set(echoKeyRequestID, requestID)

	ctx := context.WithValue(c.Request().Context(), keyRequestID, requestID)
	ctx = context.WithValue(ctx, keyLogger, logger)
	c.SetRequest(c.Request().WithContext(ctx))
}

// RequestID returns the id set by Attach, or "" outside the RequestID middleware.
func RequestID(c echo.Context) string {
	id, _ := c.Get(echoKeyRequestID).(string)

	return id
}

// RequestIDFrom is RequestID for code that only sees a context.Context.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)

	return id
}

// Logger returns the request-scoped logger, or fallback when none was attached.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// SetPrincipal stores the user id resolved from the access token.
func SetPrincipal(c echo.Context, userID uuid.UUID) {
	c.Set(echoKeyPrincipal, userID)
	c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), keyPrincipal, userID)))
}

// Principal returns the authenticated user id of a request behind the AuthGuard.
func Principal(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(echoKeyPrincipal).(uuid.UUID)

	return userID, ok
}

func PrincipalFrom(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(keyPrincipal).(uuid.UUID)

	return userID, ok
}
