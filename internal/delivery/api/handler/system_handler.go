package handler

import (
	"net/http"

	"dealership/internal/delivery/api/response"
	"dealership/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SystemHandler serves the operational endpoints.
type SystemHandler struct {
	uc usecase.SystemUsecase
}

func NewSystemHandler(uc usecase.SystemUsecase) *SystemHandler {
	return &SystemHandler{uc: uc}
}

// HealthCheck pings the database.
func (h *SystemHandler) HealthCheck(c echo.Context) error {
	if err := h.uc.HealthCheck(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// InitSchema applies pending migrations.
func (h *SystemHandler) InitSchema(c echo.Context) error {
	applied, err := h.uc.InitSchema(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"applied": applied})
}
