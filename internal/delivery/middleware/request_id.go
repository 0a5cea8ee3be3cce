// Package middleware holds echo middleware shared by every HTTP delivery.
package middleware

import (
	"log/slog"

	deliverycontext "dealership/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// RequestID wraps echo's RequestID middleware: a client-supplied X-Request-Id
// is kept, otherwise a uuid is minted. Either way it is echoed back and
// attached with a child logger tagged request_id.
func RequestID(logger *slog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: deliverycontext.HeaderXRequestID,
		RequestIDHandler: func(c echo.Context, requestID string) {
			deliverycontext.Attach(c, requestID, logger.With(slog.String("request_id", requestID)))
		},
	})
}
